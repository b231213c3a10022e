package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"versement_export/internal/config/connections/mongo"
	"versement_export/internal/config/connections/postgres"
	"versement_export/internal/config/connections/s3"
	"versement_export/internal/refdata"
)

type Handlers struct {
	Postgres *postgres.Postgres
	Mongo    *mongo.Mongo
	S3       *s3.S3
	HTTP     *http.Client

	Catalogues *refdata.Catalogues

	Logger *log.Logger
}

func New(pg *postgres.Postgres, mg *mongo.Mongo, s3c *s3.S3, cat *refdata.Catalogues) *Handlers {
	if cat == nil {
		cat = refdata.Builtin()
	}

	return &Handlers{
		Postgres:   pg,
		Mongo:      mg,
		S3:         s3c,
		HTTP:       &http.Client{},
		Catalogues: cat,
		Logger:     log.Default(),
	}
}

func (h *Handlers) JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
