package pipeline

import "testing"

func camelRow() map[string]string {
	return map[string]string{
		"anneeNumDossier":           "2024",
		"numDossier":                "1001",
		"codeNumDossier":            "7101",
		"dateEnregistrement":        "2024-01-10",
		"dateEncaissement":          "2024-01-20",
		"referencePaiement":         "REF-1",
		"refNatureAffaireJuridique": "CIVIL",
		"refTribunal":               "TR_PIN_1",
	}
}

func TestMapRowCamelCase(t *testing.T) {
	rec, violations := MapRow(camelRow(), 1)
	if len(violations) != 0 {
		t.Fatalf("unexpected violations: %v", violations)
	}
	if rec.FileNumber != "1001" || rec.FileCode != "7101" || rec.Tribunal != "TR_PIN_1" {
		t.Fatalf("bad mapping: %+v", rec)
	}
}

func TestMapRowSnakeCaseFallback(t *testing.T) {
	row := map[string]string{
		"annee_num_dossier":            "2024",
		"num_dossier":                  "1001",
		"code_num_dossier":             "7101",
		"date_enregistrement":          "2024-01-10",
		"date_encaissement":            "2024-01-20",
		"reference_paiement":           "REF-1",
		"ref_nature_affaire_juridique": "CIVIL",
		"ref_tribunal":                 "TR_PIN_1",
	}
	rec, violations := MapRow(row, 1)
	if len(violations) != 0 {
		t.Fatalf("unexpected violations: %v", violations)
	}
	if rec.FileYear != "2024" || rec.PaymentReference != "REF-1" {
		t.Fatalf("bad mapping: %+v", rec)
	}
}

func TestMapRowPrefersCamelOverSnake(t *testing.T) {
	row := camelRow()
	row["num_dossier"] = "9999"
	rec, violations := MapRow(row, 1)
	if len(violations) != 0 {
		t.Fatalf("unexpected violations: %v", violations)
	}
	if rec.FileNumber != "1001" {
		t.Fatalf("camelCase should win, got %q", rec.FileNumber)
	}
}

func TestMapRowMissingColumn(t *testing.T) {
	row := camelRow()
	delete(row, "refTribunal")

	_, violations := MapRow(row, 3)
	if len(violations) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(violations))
	}
	v := violations[0]
	if v.Kind != MissingField || v.Row != 3 || v.Field != "refTribunal" {
		t.Fatalf("unexpected violation: %+v", v)
	}
}

func TestMapRowsCollectsAllViolations(t *testing.T) {
	bad1 := camelRow()
	delete(bad1, "numDossier")
	bad2 := camelRow()
	delete(bad2, "refNatureAffaireJuridique")

	records, violations := MapRows([]map[string]string{bad1, camelRow(), bad2})
	if len(records) != 1 {
		t.Fatalf("expected 1 good record, got %d", len(records))
	}
	if len(violations) != 2 {
		t.Fatalf("expected 2 violations, got %d", len(violations))
	}
	if violations[0].Row != 1 || violations[1].Row != 3 {
		t.Fatalf("violation rows wrong: %+v", violations)
	}
}

func TestMapRowEmptyCellPassesThrough(t *testing.T) {
	row := camelRow()
	row["referencePaiement"] = "  "

	rec, violations := MapRow(row, 1)
	if len(violations) != 0 {
		t.Fatalf("present-but-empty cell should map, got %v", violations)
	}
	if rec.PaymentReference != "" {
		t.Fatalf("expected empty reference, got %q", rec.PaymentReference)
	}
}
