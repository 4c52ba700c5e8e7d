package snapshot

import (
	"bytes"
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vtree-dev/vtree/internal/errors"
	"github.com/vtree-dev/vtree/pkg/vtree"
)

// S3Store stores document snapshots in AWS S3, one object per document ID
// under prefix, always overwritten in place (unlike the teacher's
// upload.S3Store, which mints a fresh temp ID per upload and deletes the
// object on Claim — a document snapshot has a stable identity and gets
// updated, not consumed).
type S3Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Store creates an S3-backed Store.
//
// Example usage:
//
//	awsCfg, _ := config.LoadDefaultConfig(context.Background())
//	client := s3.NewFromConfig(awsCfg)
//	store := snapshot.NewS3Store(client, "my-docs", "snapshots/")
func NewS3Store(client *s3.Client, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

func (s *S3Store) key(docID string) string {
	return s.prefix + docID + ".json"
}

// Get implements Store.
func (s *S3Store) Get(ctx context.Context, docID string) (*vtree.Node, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(docID)),
	})
	if err != nil {
		return nil, errors.New("E060").WithDetail("no snapshot for document " + docID).Wrap(err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, errors.New("E061").Wrap(err)
	}
	return unmarshalTree(data)
}

// Put implements Store.
func (s *S3Store) Put(ctx context.Context, docID string, tree *vtree.Node) error {
	data, err := marshalTree(tree)
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(docID)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return errors.New("E061").Wrap(err)
	}
	return nil
}
