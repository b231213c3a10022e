package ports

import (
	"context"
	"io"
)

// SourceMeta describes where an uploaded spreadsheet came from.
type SourceMeta struct {
	Origin      string
	ContentType string
	Size        int64
	Bucket      string
	Key         string
}

// SourceOpener resolves a spreadsheet location (s3://bucket/key, an https
// URL, or a bare object key in the default bucket) into a byte stream.
type SourceOpener interface {
	Open(ctx context.Context, location string) (io.ReadCloser, SourceMeta, error)
}
