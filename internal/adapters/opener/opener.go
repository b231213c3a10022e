package opener

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"path"
	"strings"

	"versement_export/internal/ports"

	"github.com/minio/minio-go/v7"
)

// S3Client is the slice of minio the opener needs; tests can fake it.
type S3Client interface {
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
}

// Opener resolves spreadsheet locations against S3 or plain HTTP.
// Bare keys go to the default bucket.
type Opener struct {
	HTTP          *http.Client
	S3            S3Client
	DefaultBucket string
}

func New(httpClient *http.Client, s3 S3Client, defaultBucket string) *Opener {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Opener{HTTP: httpClient, S3: s3, DefaultBucket: defaultBucket}
}

func (o *Opener) Open(ctx context.Context, location string) (io.ReadCloser, ports.SourceMeta, error) {
	loc := strings.TrimSpace(location)

	switch {
	case strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://"):
		return o.openHTTP(ctx, loc)

	case strings.HasPrefix(loc, "s3://"):
		bucket, key, err := splitS3URL(loc)
		if err != nil {
			return nil, ports.SourceMeta{}, err
		}
		return o.openS3(ctx, bucket, key)

	default:
		if o.S3 == nil || o.DefaultBucket == "" {
			return nil, ports.SourceMeta{}, errors.New("missing bucket: pass s3://bucket/key or an https url")
		}
		return o.openS3(ctx, o.DefaultBucket, loc)
	}
}

func (o *Opener) openHTTP(ctx context.Context, rawURL string) (io.ReadCloser, ports.SourceMeta, error) {
	log.Printf("[SRC][HTTP] url=%q", rawURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, ports.SourceMeta{}, err
	}
	resp, err := o.HTTP.Do(req)
	if err != nil {
		log.Printf("[SRC][HTTP][ERR] %v", err)
		return nil, ports.SourceMeta{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		log.Printf("[SRC][HTTP][ERR] status=%d", resp.StatusCode)
		return nil, ports.SourceMeta{}, fmt.Errorf("http status %d", resp.StatusCode)
	}
	return resp.Body, ports.SourceMeta{
		Origin:      resp.Request.URL.Scheme,
		ContentType: resp.Header.Get("Content-Type"),
		Size:        resp.ContentLength,
	}, nil
}

func (o *Opener) openS3(ctx context.Context, bucket, key string) (io.ReadCloser, ports.SourceMeta, error) {
	if o.S3 == nil {
		return nil, ports.SourceMeta{}, errors.New("s3 opener not configured")
	}
	log.Printf("[SRC][S3] bucket=%q key=%q", bucket, key)
	st, err := o.S3.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, ports.SourceMeta{}, fmt.Errorf("s3 stat: %w", err)
	}
	obj, err := o.S3.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, ports.SourceMeta{}, fmt.Errorf("s3 get: %w", err)
	}
	return obj, ports.SourceMeta{
		Origin:      "s3",
		ContentType: st.ContentType,
		Size:        st.Size,
		Bucket:      bucket,
		Key:         key,
	}, nil
}

func splitS3URL(raw string) (bucket, key string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", err
	}
	if u.Scheme != "s3" {
		return "", "", errors.New("scheme must be s3")
	}
	bucket = u.Host
	key = path.Clean(strings.TrimPrefix(u.Path, "/"))
	if bucket == "" || key == "" || key == "." || key == "/" {
		return "", "", errors.New("empty bucket or key")
	}
	return bucket, key, nil
}
