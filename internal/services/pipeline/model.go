package pipeline

// CaseRecord is one row of the deposit ("affaire juridique"). Field values
// are the canonical post-normalization strings; a record is never mutated
// after validation.
type CaseRecord struct {
	FileYear         string
	FileNumber       string
	FileCode         string
	RegistrationDate string
	CollectionDate   string
	PaymentReference string
	CaseNature       string
	Tribunal         string
}

// Declaration is one whole submission. It exclusively owns its record slice
// and lives only for the duration of a conversion request.
type Declaration struct {
	FiscalID    string
	PeriodStart string
	PeriodEnd   string
	PaymentYear int
	Records     []CaseRecord
}
