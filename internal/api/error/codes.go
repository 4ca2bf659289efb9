package error

import "net/http"

type ErrorCode string

const (
	UnknownError            ErrorCode = "unknown_error"
	InternalServerError     ErrorCode = "internal_server_error"
	BadRequest              ErrorCode = "bad_request"
	ValidationError         ErrorCode = "validation_error"
	NotFound                ErrorCode = "not_found"
	MethodNotAllowed        ErrorCode = "method_not_allowed"
	TooManyRequests         ErrorCode = "too_many_requests"
	RequestTooLarge         ErrorCode = "request_too_large"
	InvalidCredentials      ErrorCode = "invalid_credentials"
	NotAuthenticated        ErrorCode = "not_authenticated"
	InvalidAccessToken      ErrorCode = "invalid_access_token"
	ExpiredAccessToken      ErrorCode = "expired_access_token"
	InsufficientPermissions ErrorCode = "insufficient_permissions"
	WeakPassword            ErrorCode = "weak_password"
	InvalidPassword         ErrorCode = "invalid_password"
	EmailConflict           ErrorCode = "email_conflict"
	UsernameConflict        ErrorCode = "username_conflict"
	UserNotFound            ErrorCode = "user_not_found"
	AvatarNotFound          ErrorCode = "avatar_not_found"
	AlreadySubscribed       ErrorCode = "already_subscribed"
	NotSubscribed           ErrorCode = "not_subscribed"
	SelfSubscription        ErrorCode = "self_subscription"
	TagNotFound             ErrorCode = "tag_not_found"
	TagConflict             ErrorCode = "tag_conflict"
	IngredientNotFound      ErrorCode = "ingredient_not_found"
	RecipeNotFound          ErrorCode = "recipe_not_found"
	RecipeNotOwned          ErrorCode = "recipe_not_owned"
	InvalidImage            ErrorCode = "invalid_image"
	AlreadyFavorited        ErrorCode = "already_favorited"
	NotFavorited            ErrorCode = "not_favorited"
	AlreadyInShoppingCart   ErrorCode = "already_in_shopping_cart"
	NotInShoppingCart       ErrorCode = "not_in_shopping_cart"
	EmptyShoppingCart       ErrorCode = "empty_shopping_cart"
	InvalidShortLink        ErrorCode = "invalid_short_link"
)

var errorCodeToStatusCode = map[ErrorCode]int{
	UnknownError:            0, // No error code - unknown
	InternalServerError:     http.StatusInternalServerError,
	BadRequest:              http.StatusBadRequest,
	ValidationError:         http.StatusBadRequest,
	NotFound:                http.StatusNotFound,
	MethodNotAllowed:        http.StatusMethodNotAllowed,
	TooManyRequests:         http.StatusTooManyRequests,
	RequestTooLarge:         http.StatusRequestEntityTooLarge,
	InvalidCredentials:      http.StatusBadRequest,
	NotAuthenticated:        http.StatusUnauthorized,
	InvalidAccessToken:      http.StatusUnauthorized,
	ExpiredAccessToken:      http.StatusUnauthorized,
	InsufficientPermissions: http.StatusForbidden,
	WeakPassword:            http.StatusBadRequest,
	InvalidPassword:         http.StatusBadRequest,
	EmailConflict:           http.StatusBadRequest,
	UsernameConflict:        http.StatusBadRequest,
	UserNotFound:            http.StatusNotFound,
	AvatarNotFound:          http.StatusNotFound,
	AlreadySubscribed:       http.StatusBadRequest,
	NotSubscribed:           http.StatusBadRequest,
	SelfSubscription:        http.StatusBadRequest,
	TagNotFound:             http.StatusNotFound,
	TagConflict:             http.StatusBadRequest,
	IngredientNotFound:      http.StatusNotFound,
	RecipeNotFound:          http.StatusNotFound,
	RecipeNotOwned:          http.StatusForbidden,
	InvalidImage:            http.StatusBadRequest,
	AlreadyFavorited:        http.StatusBadRequest,
	NotFavorited:            http.StatusBadRequest,
	AlreadyInShoppingCart:   http.StatusBadRequest,
	NotInShoppingCart:       http.StatusBadRequest,
	EmptyShoppingCart:       http.StatusBadRequest,
	InvalidShortLink:        http.StatusBadRequest,
}

func (ec ErrorCode) StatusCode() int {
	return errorCodeToStatusCode[ec]
}

func (ec ErrorCode) String() string {
	return string(ec)
}
