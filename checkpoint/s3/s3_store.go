// Package s3 implements a checkpoint sink backed by Amazon S3, with an
// optional DynamoDB item tracking the latest snapshot uploaded through the
// store.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// DDBClient is the interface for the DynamoDB operations the pointer
// table needs.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Store implements checkpoint.Sink for S3.
//
// When a commit table is configured, every upload also upserts an item
// keyed by the store's base URI recording the object key and upload time,
// so an operator can find the freshest snapshot of a fleet of runs with
// one query instead of listing buckets.
//
// Table schema: partition key base_uri (string).
type Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	prefix   string

	ddb       DDBClient
	tableName string
}

// Option configures a Store.
type Option func(*Store)

// WithCommitTable enables the DynamoDB latest-snapshot pointer.
func WithCommitTable(client DDBClient, tableName string) Option {
	return func(s *Store) {
		s.ddb = client
		s.tableName = tableName
	}
}

// NewStore creates a new S3 checkpoint store. rootPrefix is prepended to
// all keys (e.g. "flipgraph/").
func NewStore(client *s3.Client, bucket, rootPrefix string, opts ...Option) *Store {
	s := &Store{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		prefix:   rootPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(name string) string {
	return path.Join(s.prefix, name)
}

func (s *Store) baseURI() string {
	return "s3://" + path.Join(s.bucket, s.prefix)
}

// Put uploads the snapshot and, if configured, commits the pointer item.
func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	key := s.key(name)
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("text/plain"),
	})
	if err != nil {
		return fmt.Errorf("checkpoint/s3: upload %s: %w", key, err)
	}
	if s.ddb == nil {
		return nil
	}
	_, err = s.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item: map[string]ddbtypes.AttributeValue{
			"base_uri":    &ddbtypes.AttributeValueMemberS{Value: s.baseURI()},
			"latest_key":  &ddbtypes.AttributeValueMemberS{Value: key},
			"uploaded_at": &ddbtypes.AttributeValueMemberN{Value: strconv.FormatInt(time.Now().Unix(), 10)},
		},
	})
	if err != nil {
		return fmt.Errorf("checkpoint/s3: commit pointer for %s: %w", key, err)
	}
	return nil
}
