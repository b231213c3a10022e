package pipeline

import (
	"context"
	"log"
	"time"

	"versement_export/internal/refdata"

	"github.com/google/uuid"
)

// State is the lifecycle of one conversion request.
type State string

const (
	StateReceived    State = "received"
	StateNormalizing State = "normalizing"
	StateValidating  State = "validating"
	StateBuilding    State = "building"
	StatePackaging   State = "packaging"
	StateFailed      State = "failed"
	StateReady       State = "ready"
)

// Request is one conversion: the declaration header plus the raw rows from
// the spreadsheet boundary.
type Request struct {
	ConversionID string
	FiscalID     string
	PeriodStart  string
	PeriodEnd    string
	PaymentYear  int
	Rows         []map[string]string
	LenientDates bool
}

// Result carries the artifact of a successful conversion.
type Result struct {
	ConversionID string
	XMLFilename  string
	Artifact     *Artifact
	Records      int
}

// StateFunc observes lifecycle transitions, e.g. to update the conversion
// record. The message is non-empty only for StateFailed.
type StateFunc func(ctx context.Context, id string, state State, message string)

// Service runs the conversion pipeline: map → normalize+validate → build →
// package. One declaration in, one artifact or one aggregated error out.
// The service holds no per-request state; concurrent conversions are
// independent.
type Service struct {
	Catalogues *refdata.Catalogues
	Now        func() time.Time
	OnState    StateFunc
}

func NewService(cat *refdata.Catalogues, now func() time.Time, onState StateFunc) *Service {
	if cat == nil {
		cat = refdata.Builtin()
	}
	if now == nil {
		now = time.Now
	}
	return &Service{Catalogues: cat, Now: now, OnState: onState}
}

func (s *Service) Convert(ctx context.Context, req Request) (Result, error) {
	t0 := time.Now()
	id := req.ConversionID
	if id == "" {
		id = uuid.NewString()
	}
	log.Printf("[PIPE][START] conversion_id=%s rows=%d lenient_dates=%v", id, len(req.Rows), req.LenientDates)

	s.setState(ctx, id, StateNormalizing, "")
	records, mapViolations := MapRows(req.Rows)
	if len(mapViolations) > 0 {
		err := &ValidationError{Violations: mapViolations}
		log.Printf("[PIPE][ERR] conversion_id=%s mapping violations=%d", id, len(mapViolations))
		s.setState(ctx, id, StateFailed, err.Error())
		return Result{ConversionID: id}, err
	}

	decl := &Declaration{
		FiscalID:    req.FiscalID,
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
		PaymentYear: req.PaymentYear,
		Records:     records,
	}

	s.setState(ctx, id, StateValidating, "")
	validator := NewValidator(s.Catalogues, NewNormalizer(req.LenientDates, s.Now))
	if err := validator.ValidateDeclaration(decl); err != nil {
		log.Printf("[PIPE][ERR] conversion_id=%s validation failed", id)
		s.setState(ctx, id, StateFailed, err.Error())
		return Result{ConversionID: id}, err
	}

	s.setState(ctx, id, StateBuilding, "")
	doc, err := NewBuilder(s.Now).Build(decl)
	if err != nil {
		log.Printf("[PIPE][ERR] conversion_id=%s build: %v", id, err)
		s.setState(ctx, id, StateFailed, err.Error())
		return Result{ConversionID: id}, err
	}

	s.setState(ctx, id, StatePackaging, "")
	art, err := Package(doc)
	if err != nil {
		log.Printf("[PIPE][ERR] conversion_id=%s package: %v", id, err)
		s.setState(ctx, id, StateFailed, err.Error())
		return Result{ConversionID: id}, err
	}

	s.setState(ctx, id, StateReady, "")
	log.Printf("[PIPE][DONE] conversion_id=%s records=%d artifact=%s size=%d duration=%s",
		id, len(decl.Records), art.Filename, len(art.Content), time.Since(t0))

	return Result{
		ConversionID: id,
		XMLFilename:  doc.Filename,
		Artifact:     art,
		Records:      len(decl.Records),
	}, nil
}

func (s *Service) setState(ctx context.Context, id string, st State, msg string) {
	if s.OnState != nil {
		s.OnState(ctx, id, st, msg)
	}
}
