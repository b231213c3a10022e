package pipeline

import (
	"fmt"
	"strings"
)

// Source spreadsheets arrive with headers in either camelCase or snake_case
// depending on which template the cabinet used. Each field resolves through
// a fixed alias order, camelCase first.
var fieldAliases = []struct {
	field   string
	aliases []string
}{
	{"anneeNumDossier", []string{"anneeNumDossier", "annee_num_dossier"}},
	{"numDossier", []string{"numDossier", "num_dossier"}},
	{"codeNumDossier", []string{"codeNumDossier", "code_num_dossier"}},
	{"dateEnregistrement", []string{"dateEnregistrement", "date_enregistrement"}},
	{"dateEncaissement", []string{"dateEncaissement", "date_encaissement"}},
	{"referencePaiement", []string{"referencePaiement", "reference_paiement"}},
	{"refNatureAffaireJuridique", []string{"refNatureAffaireJuridique", "ref_nature_affaire_juridique"}},
	{"refTribunal", []string{"refTribunal", "ref_tribunal"}},
}

// MapRow resolves one loose spreadsheet row into a CaseRecord. row index is
// 1-based for error messages. A row where no recognized header exists for a
// required field is rejected here; empty-but-present values fall through to
// the validator.
func MapRow(row map[string]string, index int) (CaseRecord, []Violation) {
	var violations []Violation

	resolved := make(map[string]string, len(fieldAliases))
	for _, fa := range fieldAliases {
		v, found := pick(row, fa.aliases)
		if !found {
			violations = append(violations, Violation{
				Kind:    MissingField,
				Row:     index,
				Field:   fa.field,
				Message: fmt.Sprintf("colonne %s absente (ni camelCase ni snake_case)", fa.field),
			})
			continue
		}
		resolved[fa.field] = v
	}

	if len(violations) > 0 {
		return CaseRecord{}, violations
	}

	return CaseRecord{
		FileYear:         resolved["anneeNumDossier"],
		FileNumber:       resolved["numDossier"],
		FileCode:         resolved["codeNumDossier"],
		RegistrationDate: resolved["dateEnregistrement"],
		CollectionDate:   resolved["dateEncaissement"],
		PaymentReference: resolved["referencePaiement"],
		CaseNature:       resolved["refNatureAffaireJuridique"],
		Tribunal:         resolved["refTribunal"],
	}, nil
}

// MapRows maps a whole sheet, collecting every violation instead of
// stopping at the first bad row.
func MapRows(rows []map[string]string) ([]CaseRecord, []Violation) {
	records := make([]CaseRecord, 0, len(rows))
	var violations []Violation
	for i, row := range rows {
		rec, v := MapRow(row, i+1)
		if len(v) > 0 {
			violations = append(violations, v...)
			continue
		}
		records = append(records, rec)
	}
	return records, violations
}

// pick returns the first non-empty value among the aliases. found reports
// whether any alias column exists at all, even with an empty cell.
func pick(row map[string]string, aliases []string) (string, bool) {
	found := false
	for _, k := range aliases {
		if v, ok := row[k]; ok {
			found = true
			if s := strings.TrimSpace(v); s != "" {
				return s, true
			}
		}
	}
	return "", found
}
