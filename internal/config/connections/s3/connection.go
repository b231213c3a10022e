package s3

import (
	"context"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type ConnectionInfo struct {
	Endpoint       string
	AccessKey      string
	SecretKey      string
	Region         string
	UploadBucket   string
	ArtifactBucket string
	UseSSL         bool
}

// S3 holds the object-store client plus the two buckets the service uses:
// uploaded spreadsheets land in UploadBucket, generated archives in
// ArtifactBucket.
type S3 struct {
	Client         *minio.Client
	UploadBucket   string
	ArtifactBucket string
}

func NewConnection(info ConnectionInfo) (*S3, error) {
	client, err := minio.New(info.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(info.AccessKey, info.SecretKey, ""),
		Secure: info.UseSSL,
		Region: info.Region,
	})
	if err != nil {
		return nil, err
	}

	return &S3{
		Client:         client,
		UploadBucket:   info.UploadBucket,
		ArtifactBucket: info.ArtifactBucket,
	}, nil
}

func (s *S3) EnsureBuckets(ctx context.Context) error {
	for _, bucket := range []string{s.UploadBucket, s.ArtifactBucket} {
		exists, err := s.Client.BucketExists(ctx, bucket)
		if err != nil {
			return err
		}
		if !exists {
			if err := s.Client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
				return err
			}
		}
	}
	return nil
}
