package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"versement_export/internal/adapters/opener"
	"versement_export/internal/repository/conversions"
	"versement_export/internal/services/ingest"
	"versement_export/internal/services/pipeline"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

type convertRequest struct {
	ConversionID      string `json:"conversion_id,omitempty"`
	FilePath          string `json:"file_path"`
	IdentifiantFiscal string `json:"identifiant_fiscal"`
	ExerciceDu        string `json:"exercice_du"`
	ExerciceAu        string `json:"exercice_au"`
	AnneeVersement    int    `json:"annee_versement"`
	LenientDates      bool   `json:"lenient_dates,omitempty"`
}

// Convert runs one deposit generation synchronously: open the spreadsheet,
// map and validate the rows, build the VersementAvocatsRAF document, zip it
// and store the archive. A validation failure returns the full aggregated
// report; nothing is retried and no partial artifact is ever stored.
func (h *Handlers) Convert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.JSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "use POST"})
		return
	}

	var req convertRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(&req); err != nil {
		h.Logger.Printf("[CONV][REQ][ERR] bad JSON: %v", err)
		h.JSON(w, http.StatusBadRequest, map[string]string{"error": "bad JSON: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.FilePath) == "" {
		h.JSON(w, http.StatusBadRequest, map[string]string{"error": "file_path is required"})
		return
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	id := req.ConversionID
	if id == "" {
		id = uuid.NewString()
		if err := conversions.Insert(ctx, h.Mongo, conversions.Record{
			ID:         id,
			Status:     "received",
			SourcePath: &req.FilePath,
		}); err != nil {
			h.Logger.Printf("[CONV][ERR] db insert: %v", err)
			h.JSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
	}

	src := opener.New(h.HTTP, h.S3.Client, h.S3.UploadBucket)
	rc, meta, err := src.Open(ctx, req.FilePath)
	if err != nil {
		h.Logger.Printf("[CONV][ERR] open source: %v", err)
		h.failState(ctx, id, "ouverture du fichier impossible: "+err.Error())
		h.JSON(w, http.StatusBadGateway, map[string]string{"error": "open source: " + err.Error()})
		return
	}
	defer rc.Close()

	rows, format, err := ingest.ReadRows(rc, req.FilePath, meta.ContentType)
	if err != nil {
		h.Logger.Printf("[CONV][ERR] read rows: %v", err)
		h.failState(ctx, id, "lecture du fichier impossible: "+err.Error())
		h.JSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "read rows: " + err.Error()})
		return
	}
	h.Logger.Printf("[CONV] conversion_id=%s source=%s format=%s rows=%d", id, meta.Origin, format, len(rows))

	svc := pipeline.NewService(h.Catalogues, nil, func(ctx context.Context, id string, st pipeline.State, msg string) {
		if err := conversions.SetState(ctx, h.Mongo, id, string(st), msg); err != nil {
			h.Logger.Printf("[CONV][WARN] set state %s: %v", st, err)
		}
	})

	res, err := svc.Convert(ctx, pipeline.Request{
		ConversionID: id,
		FiscalID:     req.IdentifiantFiscal,
		PeriodStart:  req.ExerciceDu,
		PeriodEnd:    req.ExerciceAu,
		PaymentYear:  req.AnneeVersement,
		Rows:         rows,
		LenientDates: req.LenientDates,
	})
	if err != nil {
		var verr *pipeline.ValidationError
		if errors.As(err, &verr) {
			h.JSON(w, http.StatusUnprocessableEntity, map[string]any{
				"conversion_id": id,
				"error":         "validation failed",
				"report":        verr.Error(),
				"violations":    len(verr.Violations),
			})
			return
		}
		h.JSON(w, http.StatusUnprocessableEntity, map[string]any{
			"conversion_id": id,
			"error":         err.Error(),
		})
		return
	}

	key := fmt.Sprintf("conversions/%s/%s", id, res.Artifact.Filename)
	_, err = h.S3.Client.PutObject(ctx, h.S3.ArtifactBucket, key,
		bytes.NewReader(res.Artifact.Content), int64(len(res.Artifact.Content)),
		minio.PutObjectOptions{ContentType: "application/zip"})
	if err != nil {
		h.Logger.Printf("[CONV][ERR] artifact put: %v", err)
		h.failState(ctx, id, "stockage de l'archive impossible: "+err.Error())
		h.JSON(w, http.StatusInternalServerError, map[string]string{"error": "store artifact: " + err.Error()})
		return
	}

	if err := conversions.SetArtifact(ctx, h.Mongo, id, h.S3.ArtifactBucket, key, res.Artifact.Filename, res.Records); err != nil {
		h.Logger.Printf("[CONV][WARN] set artifact: %v", err)
	}

	h.Logger.Printf("[CONV][OK] conversion_id=%s records=%d artifact=%s took=%s",
		id, res.Records, key, time.Since(start))

	h.JSON(w, http.StatusOK, map[string]any{
		"conversion_id": id,
		"records":       res.Records,
		"xml_filename":  res.XMLFilename,
		"artifact":      fmt.Sprintf("s3://%s/%s", h.S3.ArtifactBucket, key),
		"filename":      res.Artifact.Filename,
	})
}

func (h *Handlers) failState(ctx context.Context, id, msg string) {
	if err := conversions.SetState(ctx, h.Mongo, id, string(pipeline.StateFailed), msg); err != nil {
		h.Logger.Printf("[CONV][WARN] set failed state: %v", err)
	}
}
