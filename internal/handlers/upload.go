package handlers

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"time"

	"versement_export/internal/repository/conversions"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// Upload accepts multipart/form-data with a `file` field, stores the raw
// spreadsheet in S3 and opens a conversion record. The actual conversion
// happens later via /convert with the declaration header fields.
func (h *Handlers) Upload(w http.ResponseWriter, r *http.Request) {
	// CORS preflight support for simple usage from frontend apps
	if r.Method == http.MethodOptions {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if r.Method != http.MethodPost {
		h.JSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "use POST"})
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.Logger.Printf("[UPLOAD][ERR] parse multipart: %v", err)
		h.JSON(w, http.StatusBadRequest, map[string]any{"error": "bad multipart: " + err.Error()})
		return
	}

	f, fh, err := r.FormFile("file")
	if err != nil {
		h.Logger.Printf("[UPLOAD][ERR] missing file: %v", err)
		h.JSON(w, http.StatusBadRequest, map[string]any{"error": "file is required"})
		return
	}
	defer f.Close()

	id := uuid.NewString()
	fname := path.Base(fh.Filename)
	key := fmt.Sprintf("uploads/%d-%s", time.Now().UnixNano(), fname)

	size := fh.Size
	if size <= 0 {
		size = -1
	}

	info, err := h.S3.Client.PutObject(context.Background(), h.S3.UploadBucket, key, f, size,
		minio.PutObjectOptions{ContentType: fh.Header.Get("Content-Type")})
	if err != nil {
		h.Logger.Printf("[UPLOAD][ERR] s3 put: %v", err)
		h.JSON(w, http.StatusInternalServerError, map[string]any{"error": "failed to store file: " + err.Error()})
		return
	}

	s3path := fmt.Sprintf("s3://%s/%s", h.S3.UploadBucket, key)

	rec := conversions.Record{
		ID:               id,
		Status:           "received",
		OriginalFilename: &fname,
		SourcePath:       &s3path,
		SourceBucket:     &h.S3.UploadBucket,
		SourceKey:        &key,
		SourceSizeBytes:  &info.Size,
	}

	if err := conversions.Insert(r.Context(), h.Mongo, rec); err != nil {
		h.Logger.Printf("[UPLOAD][ERR] db insert: %v", err)
		h.JSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}

	w.Header().Set("Access-Control-Allow-Origin", "*")
	h.JSON(w, http.StatusCreated, map[string]any{"conversion_id": id, "path": s3path})
}
