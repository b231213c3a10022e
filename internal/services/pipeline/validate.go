package pipeline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"versement_export/internal/refdata"
)

var (
	digitsOnly = regexp.MustCompile(`^\d+$`)
	code4      = regexp.MustCompile(`^\d{4}$`)
)

// Validator checks declarations against the deposit schema. Catalogues are
// injected so tests can run with reduced code sets.
type Validator struct {
	Catalogues *refdata.Catalogues
	Norm       *Normalizer
	Now        func() time.Time
}

func NewValidator(cat *refdata.Catalogues, norm *Normalizer) *Validator {
	if norm == nil {
		norm = NewNormalizer(false, nil)
	}
	return &Validator{Catalogues: cat, Norm: norm, Now: norm.Now}
}

// ValidateRecord normalizes a record in place and returns every violation
// found. index is 1-based and appears in the messages. Violations are
// collected, never short-circuited.
func (v *Validator) ValidateRecord(rec *CaseRecord, index int) []Violation {
	var out []Violation
	add := func(k Kind, field, msg string) {
		out = append(out, Violation{Kind: k, Row: index, Field: field, Message: msg})
	}

	rec.FileYear = strings.TrimSpace(rec.FileYear)
	if n, err := strconv.Atoi(rec.FileYear); err != nil || n <= 0 {
		add(InvalidNumber, "anneeNumDossier", "année du dossier invalide")
	}

	rec.FileNumber = strings.TrimSpace(rec.FileNumber)
	if n, err := strconv.Atoi(rec.FileNumber); err != nil || n <= 0 {
		add(InvalidNumber, "numDossier", "numéro de dossier invalide")
	}

	rec.FileCode = NormalizeCode(rec.FileCode)
	if !code4.MatchString(rec.FileCode) {
		add(InvalidFormat, "codeNumDossier", "code dossier invalide (doit être un nombre à 4 chiffres)")
	}

	var regOK, colOK bool
	if d, err := v.Norm.NormalizeDate(rec.RegistrationDate); err != nil {
		add(InvalidFormat, "dateEnregistrement", "date d'enregistrement invalide: "+err.Error())
	} else {
		rec.RegistrationDate = d
		regOK = true
	}
	if d, err := v.Norm.NormalizeDate(rec.CollectionDate); err != nil {
		add(InvalidFormat, "dateEncaissement", "date d'encaissement invalide: "+err.Error())
	} else {
		rec.CollectionDate = d
		colOK = true
	}
	// canonical dates are fixed-width, so string order is date order
	if regOK && colOK && rec.CollectionDate < rec.RegistrationDate {
		add(DateOrderViolation, "dateEncaissement",
			"la date d'encaissement doit être postérieure ou égale à la date d'enregistrement")
	}

	rec.PaymentReference = strings.TrimSpace(rec.PaymentReference)
	if rec.PaymentReference == "" {
		add(MissingField, "referencePaiement", "référence de paiement manquante")
	}

	rec.CaseNature = NormalizeEnum(rec.CaseNature)
	if !v.Catalogues.ValidNature(rec.CaseNature) {
		add(UnknownEnum, "refNatureAffaireJuridique",
			fmt.Sprintf("nature d'affaire invalide. Valeurs possibles: %s",
				strings.Join(v.Catalogues.Natures(), ", ")))
	}

	rec.Tribunal = NormalizeEnum(rec.Tribunal)
	if !v.Catalogues.ValidTribunal(rec.Tribunal) {
		add(UnknownEnum, "refTribunal", "code tribunal invalide")
	}

	return out
}

// ValidateDeclaration normalizes and validates the whole submission.
// Either the declaration comes back fully canonical with a nil error, or
// every record- and declaration-level violation is aggregated into a single
// ValidationError. No partial state exists.
func (v *Validator) ValidateDeclaration(d *Declaration) error {
	var all []Violation
	add := func(k Kind, field, msg string) {
		all = append(all, Violation{Kind: k, Field: field, Message: msg})
	}

	d.FiscalID = strings.TrimSpace(d.FiscalID)
	switch {
	case d.FiscalID == "":
		add(MissingField, "identifiantFiscal", "l'identifiant fiscal est requis")
	case !digitsOnly.MatchString(d.FiscalID):
		add(InvalidFormat, "identifiantFiscal", "l'identifiant fiscal doit contenir uniquement des chiffres")
	}

	var startOK, endOK bool
	if s, err := v.Norm.NormalizeDate(d.PeriodStart); err != nil {
		add(InvalidFormat, "exerciceFiscalDu", "date de début d'exercice invalide: "+err.Error())
	} else {
		d.PeriodStart = s
		startOK = true
	}
	if e, err := v.Norm.NormalizeDate(d.PeriodEnd); err != nil {
		add(InvalidFormat, "exerciceFiscalAu", "date de fin d'exercice invalide: "+err.Error())
	} else {
		d.PeriodEnd = e
		endOK = true
	}
	if startOK && endOK && d.PeriodEnd < d.PeriodStart {
		add(DateOrderViolation, "exerciceFiscalAu", "la date de fin doit être postérieure à la date de début")
	}

	maxYear := v.Now().Year() + 1
	if d.PaymentYear < 2020 || d.PaymentYear > maxYear {
		add(OutOfRange, "anneeVersement",
			fmt.Sprintf("l'année de versement doit être comprise entre 2020 et %d", maxYear))
	}

	if len(d.Records) == 0 {
		add(EmptyCollection, "records", "la liste des affaires juridiques est vide")
	}

	for i := range d.Records {
		all = append(all, v.ValidateRecord(&d.Records[i], i+1)...)
	}

	if len(all) > 0 {
		return &ValidationError{Violations: all}
	}
	return nil
}
