package filestore

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/matt-dz/foodgram/internal/config"
)

// ObjectStore keeps files in an S3-compatible bucket.
type ObjectStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

var _ FileStore = (*ObjectStore)(nil)

// NewObjectStore connects to the bucket described by conf, creating it if
// it does not exist yet.
func NewObjectStore(ctx context.Context, conf config.ObjectStore) (*ObjectStore, error) {
	client, err := minio.New(conf.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(conf.AccessKey, conf.SecretKey, ""),
		Secure: conf.UseSSL,
		Region: conf.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("creating object store client: %w", err)
	}

	exists, err := client.BucketExists(ctx, conf.Bucket)
	if err != nil {
		return nil, fmt.Errorf("checking bucket %q: %w", conf.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, conf.Bucket, minio.MakeBucketOptions{Region: conf.Region}); err != nil {
			return nil, fmt.Errorf("creating bucket %q: %w", conf.Bucket, err)
		}
	}

	return &ObjectStore{
		client:    client,
		bucket:    conf.Bucket,
		publicURL: publicURL(conf),
	}, nil
}

func publicURL(conf config.ObjectStore) string {
	if conf.PublicURL != "" {
		return strings.TrimRight(conf.PublicURL, "/")
	}
	scheme := "http"
	if conf.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, strings.TrimRight(conf.Endpoint, "/"), conf.Bucket)
}

func (o *ObjectStore) WriteRecipeImage(ctx context.Context, suffix string, data []byte) (string, error) {
	return o.write(ctx, recipeImagesDir, suffix, data)
}

func (o *ObjectStore) WriteAvatarImage(ctx context.Context, suffix string, data []byte) (string, error) {
	return o.write(ctx, avatarImagesDir, suffix, data)
}

func (o *ObjectStore) write(ctx context.Context, dir, suffix string, data []byte) (string, error) {
	key := newKey(dir, suffix)
	_, err := o.client.PutObject(ctx, o.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: mime.TypeByExtension(suffix)})
	if err != nil {
		return "", fmt.Errorf("putting object %q: %w", key, err)
	}
	return key, nil
}

func (o *ObjectStore) DeleteKey(ctx context.Context, key string) error {
	key = strings.Trim(key, "/")
	if _, err := o.client.StatObject(ctx, o.bucket, key, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return fmt.Errorf("stat object %q: %w", key, ErrNotExist)
		}
		return fmt.Errorf("stat object %q: %w", key, err)
	}
	if err := o.client.RemoveObject(ctx, o.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("removing object %q: %w", key, err)
	}
	return nil
}

func (o *ObjectStore) FileURL(key string) string {
	return o.publicURL + "/" + strings.TrimLeft(key, "/")
}
