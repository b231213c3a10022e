package opener

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSplitS3URL(t *testing.T) {
	bucket, key, err := splitS3URL("s3://deposits/uploads/123-file.xlsx")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if bucket != "deposits" || key != "uploads/123-file.xlsx" {
		t.Fatalf("got bucket=%q key=%q", bucket, key)
	}

	for _, bad := range []string{"s3://", "s3://bucket", "s3://bucket/", "http://x/y"} {
		if _, _, err := splitS3URL(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestOpenHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("a,b\n1,2\n"))
	}))
	defer srv.Close()

	o := New(srv.Client(), nil, "")
	rc, meta, err := o.Open(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer rc.Close()

	if meta.Origin != "http" || meta.ContentType != "text/csv" {
		t.Fatalf("unexpected meta: %+v", meta)
	}
	body, _ := io.ReadAll(rc)
	if string(body) != "a,b\n1,2\n" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestOpenHTTPNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	o := New(srv.Client(), nil, "")
	if _, _, err := o.Open(context.Background(), srv.URL); err == nil {
		t.Fatalf("expected error for 404")
	}
}

func TestOpenBareKeyNeedsBucket(t *testing.T) {
	o := New(nil, nil, "")
	if _, _, err := o.Open(context.Background(), "uploads/file.xlsx"); err == nil {
		t.Fatalf("expected error without default bucket")
	}
}
