package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"versement_export/internal/repository/conversions"

	"github.com/minio/minio-go/v7"
)

// Conversions lists conversion records, newest first.
func (h *Handlers) Conversions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.JSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "use GET"})
		return
	}

	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	skip, _ := strconv.ParseInt(r.URL.Query().Get("skip"), 10, 64)
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	recs, total, err := conversions.List(r.Context(), h.Mongo, nil, limit, skip)
	if err != nil {
		h.Logger.Printf("[CONVLIST][ERR] %v", err)
		h.JSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	h.JSON(w, http.StatusOK, map[string]any{"total": total, "items": recs})
}

// Download streams the packaged archive of a ready conversion.
func (h *Handlers) Download(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.JSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "use GET"})
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		h.JSON(w, http.StatusBadRequest, map[string]string{"error": "id is required"})
		return
	}

	rec, err := conversions.FindByID(r.Context(), h.Mongo, id)
	if err != nil {
		h.JSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	if rec.Status != "ready" || rec.ArtifactBucket == nil || rec.ArtifactKey == nil {
		h.JSON(w, http.StatusConflict, map[string]string{
			"error": fmt.Sprintf("conversion is %s, no artifact available", rec.Status),
		})
		return
	}

	obj, err := h.S3.Client.GetObject(r.Context(), *rec.ArtifactBucket, *rec.ArtifactKey, minio.GetObjectOptions{})
	if err != nil {
		h.Logger.Printf("[DOWNLOAD][ERR] s3 get: %v", err)
		h.JSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	defer obj.Close()

	filename := "versement.zip"
	if rec.ArtifactFilename != nil {
		filename = *rec.ArtifactFilename
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if st, err := obj.Stat(); err == nil && st.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(st.Size, 10))
	}

	if _, err := io.Copy(w, obj); err != nil {
		h.Logger.Printf("[DOWNLOAD][ERR] stream: %v", err)
	}
}
