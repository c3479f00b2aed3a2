package s3client

import (
	"bytes"
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
)

// Provider операции с объектами одного бакета
type Provider interface {
	MakeBucket(ctx context.Context) error
	PutObject(ctx context.Context, key, contentType string, body []byte) error
	GetObject(ctx context.Context, key string) ([]byte, error)
	RemoveObject(ctx context.Context, key string) error
}

func NewInstance(client *minio.Client, bucketName string) Provider {
	return &s3client{
		minioClient: client,
		bucketName:  bucketName,
	}
}

type s3client struct {
	minioClient *minio.Client
	bucketName  string
}

func (s s3client) MakeBucket(ctx context.Context) error {
	location := "us-east-1"
	exists, err := s.minioClient.BucketExists(ctx, s.bucketName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = s.minioClient.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{Region: location})
	if err != nil {
		return err
	}
	return nil
}

func (s s3client) PutObject(ctx context.Context, key, contentType string, body []byte) error {
	_, err := s.minioClient.PutObject(ctx, s.bucketName, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{ContentType: contentType})
	return err
}

func (s s3client) GetObject(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.minioClient.GetObject(ctx, s.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	body, err := io.ReadAll(obj)
	if err != nil {
		return nil, errors.Wrapf(err, "ошибка чтения объекта %s", key)
	}
	return body, nil
}

func (s s3client) RemoveObject(ctx context.Context, key string) error {
	return s.minioClient.RemoveObject(ctx, s.bucketName, key, minio.RemoveObjectOptions{})
}
