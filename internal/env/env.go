// Package env provides a structure for managing application-wide dependencies.
package env

import (
	"context"
	"log/slog"

	"github.com/matt-dz/foodgram/internal/config"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/filestore"
	"github.com/matt-dz/foodgram/internal/log"
)

type Env struct {
	Logger    *slog.Logger
	Database  database.Querier
	FileStore filestore.FileStore
	Config    config.Config
}

type envKeyType struct{}

var envKey envKeyType

// New builds an Env around conf. A nil conf leaves the zero config.
func New(conf *config.Config) *Env {
	e := &Env{
		Logger: log.NullLogger(),
	}
	if conf != nil {
		e.Config = *conf
	}
	return e
}

func Null() *Env {
	return &Env{
		Logger: log.NullLogger(),
	}
}

func WithCtx(ctx context.Context, env *Env) context.Context {
	return context.WithValue(ctx, envKey, env)
}

// EnvFromCtx returns the Env stored in ctx, or a null Env if there is none.
func EnvFromCtx(ctx context.Context) *Env {
	if env, ok := ctx.Value(envKey).(*Env); ok && env != nil {
		return env
	}
	return Null()
}

// AppSecret returns the signing secret and its key id.
func (e *Env) AppSecret() (secret []byte, version string) {
	if e.Config.AppSecret.Value != nil {
		secret = []byte(*e.Config.AppSecret.Value)
	}
	return secret, e.Config.AppSecret.Version
}
