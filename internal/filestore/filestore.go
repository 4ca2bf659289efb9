// Package filestore wraps the storage backends behind a small interface
// keyed by object names such as "recipes/images/<id>.png".
package filestore

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/matt-dz/foodgram/internal/fileserver"
)

const (
	recipeImagesDir = "recipes/images"
	avatarImagesDir = "users/images"
)

const (
	DefaultURLPrefix = "/media"
)

var ErrNotExist = errors.New("file does not exist")

type FileStore interface {
	WriteRecipeImage(ctx context.Context, suffix string, data []byte) (key string, err error)
	WriteAvatarImage(ctx context.Context, suffix string, data []byte) (key string, err error)

	DeleteKey(ctx context.Context, key string) error

	// FileURL returns the absolute URL a client can fetch key from.
	FileURL(key string) string
}

func newKey(dir, suffix string) string {
	return path.Join(dir, ulid.Make().String()+suffix)
}

// LocalStore keeps files on the local volume and serves them below
// host + urlPrefix.
type LocalStore struct {
	urlPrefix string
	host      string
	fs        *fileserver.FileServer
}

var _ FileStore = (*LocalStore)(nil)

func New(baseDirectory, urlPrefix, host string) *LocalStore {
	return &LocalStore{
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
		host:      strings.TrimRight(host, "/"),
		fs:        fileserver.New(baseDirectory),
	}
}

func (f *LocalStore) URLPrefix() string {
	return f.urlPrefix
}

func (f *LocalStore) BaseDirectory() string {
	return f.fs.BaseDirectory()
}

func (f *LocalStore) WriteRecipeImage(_ context.Context, suffix string, data []byte) (string, error) {
	return f.write(recipeImagesDir, suffix, data)
}

func (f *LocalStore) WriteAvatarImage(_ context.Context, suffix string, data []byte) (string, error) {
	return f.write(avatarImagesDir, suffix, data)
}

func (f *LocalStore) write(dir, suffix string, data []byte) (string, error) {
	key := newKey(dir, suffix)
	if _, err := f.fs.Write(key, data); err != nil {
		return "", err
	}
	return key, nil
}

func (f *LocalStore) DeleteKey(_ context.Context, key string) error {
	err := f.fs.Delete(strings.Trim(key, "/"))
	if errors.Is(err, fileserver.ErrNotExist) {
		return errors.Join(ErrNotExist, err)
	}
	return err
}

func (f *LocalStore) FileURL(key string) string {
	return f.host + f.urlPrefix + "/" + strings.TrimLeft(key, "/")
}
