package pipeline

import (
	"encoding/xml"
	"fmt"
	"sort"
	"time"
)

// Builder serializes a validated declaration into the VersementAvocatsRAF
// document. The clock is injected because the output filename carries a
// generation timestamp.
type Builder struct {
	Now func() time.Time
}

func NewBuilder(now func() time.Time) *Builder {
	if now == nil {
		now = time.Now
	}
	return &Builder{Now: now}
}

// Document is the generated XML file, ready for packaging.
type Document struct {
	Filename string
	Content  []byte
}

type xmlRefCode struct {
	Code string `xml:"code"`
}

type xmlDetail struct {
	XMLName          xml.Name   `xml:"DetailAffaireJuridiqueRAF"`
	AnneeNumDossier  string     `xml:"anneeNumDossier"`
	NumDossier       string     `xml:"numDossier"`
	CodeNumDossier   string     `xml:"codeNumDossier"`
	DateEnreg        string     `xml:"dateEnregistrement"`
	DateEncaissement string     `xml:"dateEncaissement"`
	RefPaiement      string     `xml:"referencePaiement"`
	RefNature        xmlRefCode `xml:"refNatureAffaireJuridique"`
	RefTribunal      xmlRefCode `xml:"refTribunal"`
}

type xmlVersement struct {
	XMLName     xml.Name    `xml:"VersementAvocatsRAF"`
	XmlnsXSI    string      `xml:"xmlns:xsi,attr"`
	SchemaLoc   string      `xml:"xsi:noNamespaceSchemaLocation,attr"`
	Fiscal      string      `xml:"identifiantFiscal"`
	ExerciceDu  string      `xml:"exerciceFiscalDu"`
	ExerciceAu  string      `xml:"exerciceFiscalAu"`
	AnneeVers   int         `xml:"anneeVersement"`
	ListDetails []xmlDetail `xml:"listDetailAffaireJuridique>DetailAffaireJuridiqueRAF"`
}

// Build produces the deposit document. Precondition: the declaration passed
// ValidateDeclaration, so every field is already canonical.
func (b *Builder) Build(d *Declaration) (*Document, error) {
	// deterministic output ordering required by the deposit format;
	// stable so equal dates keep their sheet order
	records := make([]CaseRecord, len(d.Records))
	copy(records, d.Records)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].RegistrationDate < records[j].RegistrationDate
	})

	doc := xmlVersement{
		XmlnsXSI:   "http://www.w3.org/2001/XMLSchema-instance",
		SchemaLoc:  "VersementAvocatsRAF.xsd",
		Fiscal:     d.FiscalID,
		ExerciceDu: d.PeriodStart,
		ExerciceAu: d.PeriodEnd,
		AnneeVers:  d.PaymentYear,
	}
	for _, r := range records {
		doc.ListDetails = append(doc.ListDetails, xmlDetail{
			AnneeNumDossier:  r.FileYear,
			NumDossier:       r.FileNumber,
			CodeNumDossier:   r.FileCode,
			DateEnreg:        r.RegistrationDate,
			DateEncaissement: r.CollectionDate,
			RefPaiement:      r.PaymentReference,
			RefNature:        xmlRefCode{Code: r.CaseNature},
			RefTribunal:      xmlRefCode{Code: r.Tribunal},
		})
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal versement: %w", err)
	}

	return &Document{
		Filename: b.filename(d.FiscalID),
		Content:  append([]byte(xml.Header), body...),
	}, nil
}

// filename is VersementAvocats_<fiscalId>_<ts>.xml where ts is the digits
// of the ISO instant truncated to 14 characters (YYYYMMDDhhmmss, UTC).
// Unique per generation, not reproducible across calls.
func (b *Builder) filename(fiscalID string) string {
	ts := b.Now().UTC().Format("20060102150405")
	return fmt.Sprintf("VersementAvocats_%s_%s.xml", fiscalID, ts)
}
