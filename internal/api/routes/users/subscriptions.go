package users

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/jackc/pgx/v5/pgtype"

	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/pagination"
	"github.com/matt-dz/foodgram/internal/api/request"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/api/serializer"
	"github.com/matt-dz/foodgram/internal/api/token"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
)

// recipesLimit reads the recipes_limit query parameter. When it is absent
// the returned value is invalid and every recipe is included.
func recipesLimit(r *http.Request) (pgtype.Int4, error) {
	n, ok, err := request.QueryInt(r, recipesLimitParam)
	if err != nil || !ok {
		return pgtype.Int4{}, err
	}
	return pgtype.Int4{Int32: n, Valid: true}, nil
}

// HandleSubscribe godoc
//
//	@Summary	Subscribe to an author.
//	@Tags		Subscriptions
//
//	@Produce	json
//	@Param		id				path		int	true	"Author ID"
//	@Param		recipes_limit	query		int	false	"Number of recipes to include"
//	@Success	201				{object}	serializer.Subscription
//	@Failure	400				{object}	apiError.Error	"Already subscribed or self subscription"
//	@Failure	401				{object}	apiError.Error	"Unauthorized"
//	@Failure	404				{object}	apiError.Error	"User not found"
//	@Security	TokenAuth
//	@Router		/api/users/{id}/subscribe [POST]
func HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)
	userID, ok := token.UserIDFromCtx(ctx)
	if !ok {
		_ = apiError.EncodeError(w, apiError.NotAuthenticated, notAuthenticatedMessage, requestID)
		return
	}

	limit, err := recipesLimit(r)
	if err != nil {
		_ = apiError.EncodeFieldError(w, apiError.ValidationError, recipesLimitParam, err.Error(), requestID)
		return
	}

	// Step 1: Resolve author
	author, ok := getAuthor(w, r, env)
	if !ok {
		return
	}

	// Step 2: Check the subscription can be made
	if author.ID == userID {
		_ = apiError.EncodeError(w, apiError.SelfSubscription, "you cannot subscribe to yourself", requestID)
		return
	}
	params := database.SubscriptionParams{UserID: userID, AuthorID: author.ID}
	exists, err := env.Database.CheckSubscription(ctx, params)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to check subscription", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if exists {
		_ = apiError.EncodeError(w, apiError.AlreadySubscribed, "you are already subscribed to this author", requestID)
		return
	}

	// Step 3: Subscribe
	err = env.Database.CreateSubscription(ctx, params)
	if database.IsUniqueViolation(err, database.ConstraintSubscription) {
		_ = apiError.EncodeError(w, apiError.AlreadySubscribed, "you are already subscribed to this author", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to create subscription", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	resp, err := serializer.NewSubscription(ctx, env, serializer.ViewerFromCtx(ctx), author, limit)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to serialize subscription", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, resp)
}

// HandleUnsubscribe godoc
//
//	@Summary	Unsubscribe from an author.
//	@Tags		Subscriptions
//
//	@Param		id	path	int	true	"Author ID"
//	@Success	204
//	@Failure	400	{object}	apiError.Error	"Not subscribed"
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Failure	404	{object}	apiError.Error	"User not found"
//	@Security	TokenAuth
//	@Router		/api/users/{id}/subscribe [DELETE]
func HandleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)
	userID, ok := token.UserIDFromCtx(ctx)
	if !ok {
		_ = apiError.EncodeError(w, apiError.NotAuthenticated, notAuthenticatedMessage, requestID)
		return
	}

	author, ok := getAuthor(w, r, env)
	if !ok {
		return
	}

	rows, err := env.Database.DeleteSubscription(ctx, database.SubscriptionParams{
		UserID:   userID,
		AuthorID: author.ID,
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to delete subscription", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if rows == 0 {
		_ = apiError.EncodeError(w, apiError.NotSubscribed, "you are not subscribed to this author", requestID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListSubscriptions godoc
//
//	@Summary	List the authors the current user is subscribed to.
//	@Tags		Subscriptions
//
//	@Produce	json
//	@Param		page			query		int	false	"Page number"
//	@Param		limit			query		int	false	"Page size"
//	@Param		recipes_limit	query		int	false	"Number of recipes to include per author"
//	@Success	200				{object}	pagination.Response[serializer.Subscription]
//	@Failure	401				{object}	apiError.Error	"Unauthorized"
//	@Security	TokenAuth
//	@Router		/api/users/subscriptions [GET]
func HandleListSubscriptions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)
	userID, ok := token.UserIDFromCtx(ctx)
	if !ok {
		_ = apiError.EncodeError(w, apiError.NotAuthenticated, notAuthenticatedMessage, requestID)
		return
	}

	page, err := pagination.FromRequest(r)
	if err != nil {
		_ = apiError.EncodeError(w, apiError.BadRequest, err.Error(), requestID)
		return
	}
	limit, err := recipesLimit(r)
	if err != nil {
		_ = apiError.EncodeFieldError(w, apiError.ValidationError, recipesLimitParam, err.Error(), requestID)
		return
	}

	count, err := env.Database.CountSubscriptions(ctx, userID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to count subscriptions", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	authors, err := env.Database.ListSubscriptions(ctx, database.ListSubscriptionsParams{
		UserID: userID,
		Limit:  page.Limit,
		Offset: page.Offset(),
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list subscriptions", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	viewer := serializer.ViewerFromCtx(ctx)
	results := make([]serializer.Subscription, 0, len(authors))
	for _, author := range authors {
		sub, err := serializer.NewSubscription(ctx, env, viewer, author, limit)
		if err != nil {
			env.Logger.ErrorContext(ctx, "failed to serialize subscription", slog.Any("error", err))
			_ = apiError.EncodeInternalError(w, requestID)
			return
		}
		results = append(results, sub)
	}

	render.JSON(w, r, pagination.New(r, env.Config.HostOrigin, page, count, results))
}

// getAuthor loads the user named by the id URL parameter, writing a 404
// when there is none.
func getAuthor(w http.ResponseWriter, r *http.Request, env *env.Env) (database.User, bool) {
	ctx := r.Context()
	requestID := requestid.ExtractRequestID(ctx)

	id, err := request.PathID(r, "id")
	if err != nil {
		_ = apiError.EncodeError(w, apiError.UserNotFound, "user not found", requestID)
		return database.User{}, false
	}
	author, err := env.Database.GetUser(ctx, id)
	if database.IsNotFound(err) {
		_ = apiError.EncodeError(w, apiError.UserNotFound, "user not found", requestID)
		return database.User{}, false
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return database.User{}, false
	}
	return author, true
}
