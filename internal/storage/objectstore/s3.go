package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

var ErrObjectNotFound = errors.New("object not found")

type Store struct {
	bucket    string
	client    *s3.Client
	presigner *s3.PresignClient
}

func New(bucket string, client *s3.Client, presigner *s3.PresignClient) *Store {
	return &Store{bucket: bucket, client: client, presigner: presigner}
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	const op = "storage.objectstore.Exists"

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})

	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return false, nil
		}
		return false, fmt.Errorf("%s: head object: %w", op, err)
	}

	return true, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	const op = "storage.objectstore.Get"

	obj, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})

	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("%s: get object: %w", op, err)
	}
	defer obj.Body.Close()

	data, err := io.ReadAll(obj.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", op, err)
	}

	return data, nil
}

// Put overwrites any existing object at key. Content-addressed keys make this
// idempotent: a racing writer stores identical bytes.
func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) error {
	const op = "storage.objectstore.Put"

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})

	if err != nil {
		return fmt.Errorf("%s: put object: %w", op, err)
	}

	return nil
}

func (s *Store) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	const op = "storage.objectstore.PresignGet"

	ps, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(po *s3.PresignOptions) {
		po.Expires = ttl
	})

	if err != nil {
		return "", fmt.Errorf("%s: presign get: %w", op, err)
	}

	return ps.URL, nil
}
