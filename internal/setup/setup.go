// Package setup is responsible for setting up components.
package setup

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/mail"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matt-dz/foodgram/internal/argon2id"
	"github.com/matt-dz/foodgram/internal/config"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/filestore"
	"github.com/matt-dz/foodgram/internal/password"
)

const defaultAdminUsername = "admin"

// HashParams are the argon2id parameters used for the bootstrapped admin.
var HashParams = argon2id.DefaultParams

// ConnString builds the Postgres connection URL for conf.
func ConnString(conf config.Database) (string, error) {
	if conf.Host == "" || conf.Database == "" || conf.User == "" {
		return "", NewMissingConfigError("database")
	}
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(conf.User, conf.Password),
		Host:   conf.Host + ":" + strconv.Itoa(int(conf.Port)),
		Path:   "/" + conf.Database,
	}
	return u.String(), nil
}

// Database connects to Postgres and applies pending migrations.
func Database(ctx context.Context, conf config.Database) (*database.Database, error) {
	dbString, err := ConnString(conf)
	if err != nil {
		return nil, err
	}

	// Creating DB connection
	pool, err := pgxpool.New(ctx, dbString)
	if err != nil {
		return nil, fmt.Errorf("creating database pool: %w", err)
	}

	if err := database.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	return database.NewDatabase(pool), nil
}

// FileStore returns the object store when one is configured and the local
// file server volume otherwise.
func FileStore(ctx context.Context, conf config.Config) (filestore.FileStore, error) {
	if conf.ObjectStore.Enabled() {
		store, err := filestore.NewObjectStore(ctx, conf.ObjectStore)
		if err != nil {
			return nil, fmt.Errorf("creating object store: %w", err)
		}
		return store, nil
	}

	if conf.Fileserver.Volume == "" {
		return nil, NewMissingConfigError("fileserver.volume")
	}
	fileserverPath, err := filepath.Abs(conf.Fileserver.Volume)
	if err != nil {
		return nil, fmt.Errorf("creating fileserver path: %w", err)
	}
	urlPrefix := conf.Fileserver.URLPrefix
	if urlPrefix == "" {
		urlPrefix = filestore.DefaultURLPrefix
	}
	return filestore.New(fileserverPath, urlPrefix, conf.HostOrigin), nil
}

// Admin creates the configured admin account unless an admin already
// exists. Requires env.Database.
func Admin(ctx context.Context, env *env.Env) error {
	conf := env.Config.Admin
	if !conf.Enabled() {
		env.Logger.InfoContext(ctx, "admin email and password not configured, skipping admin setup")
		return nil
	}

	// Validate email and password
	adminEmail := strings.ToLower(strings.TrimSpace(conf.Email))
	if _, err := mail.ParseAddress(adminEmail); err != nil {
		return fmt.Errorf("parsing admin email: %w", err)
	}
	if err := password.ValidatePassword(string(conf.Password), adminEmail, conf.Username); err != nil {
		return fmt.Errorf("validating admin password: %w", err)
	}

	// Check admin count
	count, err := env.Database.GetAdminCount(ctx)
	if err != nil {
		return fmt.Errorf("getting admin count: %w", err)
	}
	if count > 0 {
		env.Logger.InfoContext(ctx, "admin already setup, skipping setup")
		return nil
	}

	hashedPassword, err := argon2id.EncodeHash(string(conf.Password), HashParams)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	username := conf.Username
	if username == "" {
		username = defaultAdminUsername
	}

	// Create admin
	_, err = env.Database.CreateAdmin(ctx, database.CreateAdminParams{
		Email:        adminEmail,
		Username:     username,
		FirstName:    conf.FirstName,
		LastName:     conf.LastName,
		PasswordHash: hashedPassword,
	})
	if database.IsUniqueViolation(err, database.ConstraintUserEmail, database.ConstraintUserUsername) {
		return fmt.Errorf("creating admin: a user with this email or username exists: %w", err)
	} else if err != nil {
		return fmt.Errorf("creating admin: %w", err)
	}
	env.Logger.InfoContext(ctx, "successfully setup admin!")

	return nil
}

// ReadIngredients parses ingredient rows of the form name,measurement_unit.
// Blank lines are skipped and surrounding whitespace is trimmed.
func ReadIngredients(r io.Reader) ([]database.CreateIngredientParams, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var ingredients []database.CreateIngredientParams
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if len(record) != 2 {
			return nil, InvalidRowError{Line: line, Reason: fmt.Sprintf("expected 2 fields, got %d", len(record))}
		}
		name, unit := strings.TrimSpace(record[0]), strings.TrimSpace(record[1])
		if name == "" || unit == "" {
			return nil, InvalidRowError{Line: line, Reason: "name and measurement unit are required"}
		}
		ingredients = append(ingredients, database.CreateIngredientParams{Name: name, MeasurementUnit: unit})
	}
	return ingredients, nil
}

// ImportIngredients loads ingredients from a CSV stream into the database
// and returns how many were inserted.
func ImportIngredients(ctx context.Context, env *env.Env, r io.Reader) (int64, error) {
	ingredients, err := ReadIngredients(r)
	if err != nil {
		return 0, err
	}
	if len(ingredients) == 0 {
		env.Logger.InfoContext(ctx, "no ingredients to import")
		return 0, nil
	}

	inserted, err := env.Database.ImportIngredients(ctx, ingredients)
	if err != nil {
		return 0, fmt.Errorf("importing ingredients: %w", err)
	}
	env.Logger.InfoContext(ctx, "imported ingredients",
		slog.Int("read", len(ingredients)), slog.Int64("inserted", inserted))
	return inserted, nil
}
