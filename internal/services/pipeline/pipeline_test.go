package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"versement_export/internal/refdata"
)

func rowFor(numDossier, code, dateEnreg, dateEncais string) map[string]string {
	return map[string]string{
		"anneeNumDossier":           "2024",
		"numDossier":                numDossier,
		"codeNumDossier":            code,
		"dateEnregistrement":        dateEnreg,
		"dateEncaissement":          dateEncais,
		"referencePaiement":         "REF-" + numDossier,
		"refNatureAffaireJuridique": "COMMERC",
		"refTribunal":               "TR_COM_PIN_2",
	}
}

func TestConvertEndToEnd(t *testing.T) {
	var states []State
	svc := NewService(refdata.Builtin(), fixedClock, func(_ context.Context, _ string, st State, msg string) {
		states = append(states, st)
		if st == StateFailed && msg == "" {
			t.Fatalf("failed state without message")
		}
	})

	res, err := svc.Convert(context.Background(), Request{
		ConversionID: "conv-1",
		FiscalID:     "123456789",
		PeriodStart:  "2024-01-01",
		PeriodEnd:    "2024-12-31",
		PaymentYear:  2024,
		Rows: []map[string]string{
			rowFor("1002", "7102", "05/03/2024", "10/03/2024"),
			rowFor("1001", "7101", "10/01/2024", "20/01/2024"),
		},
	})
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if res.ConversionID != "conv-1" || res.Records != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.XMLFilename != "VersementAvocats_123456789_20240315103000.xml" {
		t.Fatalf("unexpected xml filename %q", res.XMLFilename)
	}

	want := []State{StateNormalizing, StateValidating, StateBuilding, StatePackaging, StateReady}
	if len(states) != len(want) {
		t.Fatalf("state transitions %v, expected %v", states, want)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Fatalf("state %d = %s, expected %s", i, states[i], want[i])
		}
	}

	zr, err := zip.NewReader(bytes.NewReader(res.Artifact.Content), int64(len(res.Artifact.Content)))
	if err != nil {
		t.Fatalf("artifact unreadable: %v", err)
	}
	if len(zr.File) != 1 {
		t.Fatalf("expected 1 zip entry, got %d", len(zr.File))
	}
}

func TestConvertAggregatesValidationFailure(t *testing.T) {
	var last State
	svc := NewService(refdata.Builtin(), fixedClock, func(_ context.Context, _ string, st State, _ string) {
		last = st
	})

	badDates := rowFor("1001", "7101", "2024-02-01", "2024-01-15")
	badNature := rowFor("1002", "7102", "2024-01-10", "2024-01-20")
	badNature["refNatureAffaireJuridique"] = "FOO"

	res, err := svc.Convert(context.Background(), Request{
		ConversionID: "conv-2",
		FiscalID:     "12A456",
		PeriodStart:  "2024-01-01",
		PeriodEnd:    "2024-12-31",
		PaymentYear:  2024,
		Rows:         []map[string]string{badDates, badNature},
	})
	if res.Artifact != nil {
		t.Fatalf("no artifact on validation failure")
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Violations) != 3 {
		t.Fatalf("expected 3 violations, got %d: %v", len(verr.Violations), verr)
	}
	if !strings.Contains(verr.Error(), "ligne 1") || !strings.Contains(verr.Error(), "ligne 2") {
		t.Fatalf("report should carry row indexes: %q", verr.Error())
	}
	if last != StateFailed {
		t.Fatalf("terminal state %s, expected failed", last)
	}
}

func TestConvertFailsOnMissingColumns(t *testing.T) {
	svc := NewService(refdata.Builtin(), fixedClock, nil)

	row := rowFor("1001", "7101", "2024-01-10", "2024-01-20")
	delete(row, "refTribunal")

	_, err := svc.Convert(context.Background(), Request{
		FiscalID:    "123456789",
		PeriodStart: "2024-01-01",
		PeriodEnd:   "2024-12-31",
		PaymentYear: 2024,
		Rows:        []map[string]string{row},
	})
	var verr *ValidationError
	if !errors.As(err, &verr) || !verr.Has(MissingField) {
		t.Fatalf("expected MissingField for absent column, got %v", err)
	}
}

func TestConvertLenientDates(t *testing.T) {
	svc := NewService(refdata.Builtin(), fixedClock, nil)

	row := rowFor("1001", "7101", "", "")
	res, err := svc.Convert(context.Background(), Request{
		FiscalID:     "123456789",
		PeriodStart:  "2024-01-01",
		PeriodEnd:    "2024-12-31",
		PaymentYear:  2024,
		Rows:         []map[string]string{row},
		LenientDates: true,
	})
	if err != nil {
		t.Fatalf("lenient conversion failed: %v", err)
	}
	if res.Records != 1 {
		t.Fatalf("expected 1 record, got %d", res.Records)
	}
}
