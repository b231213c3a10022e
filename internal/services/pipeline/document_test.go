package pipeline

import (
	"encoding/xml"
	"strings"
	"testing"
)

func twoRecordDeclaration() Declaration {
	first := validRecord()
	first.FileCode = "7102"
	first.FileNumber = "1002"
	first.RegistrationDate = "2024-03-05"
	first.CollectionDate = "2024-03-10"

	second := validRecord()
	second.FileCode = "7101"
	second.FileNumber = "1001"
	second.RegistrationDate = "2024-01-10"
	second.CollectionDate = "2024-01-20"

	d := validDeclaration()
	// deliberately unsorted: builder must order by registration date
	d.Records = []CaseRecord{first, second}
	return d
}

func TestBuildTwoRecordDeposit(t *testing.T) {
	d := twoRecordDeclaration()
	doc, err := NewBuilder(fixedClock).Build(&d)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	content := string(doc.Content)

	if !strings.HasPrefix(content, xml.Header) {
		t.Fatalf("missing XML declaration header")
	}
	root := `<VersementAvocatsRAF xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xsi:noNamespaceSchemaLocation="VersementAvocatsRAF.xsd">`
	if !strings.Contains(content, root) {
		t.Fatalf("root element wrong:\n%s", content)
	}

	for _, tag := range []string{
		"<identifiantFiscal>123456789</identifiantFiscal>",
		"<exerciceFiscalDu>2024-01-01</exerciceFiscalDu>",
		"<exerciceFiscalAu>2024-12-31</exerciceFiscalAu>",
		"<anneeVersement>2024</anneeVersement>",
		"<listDetailAffaireJuridique>",
		"<referencePaiement>REF-1</referencePaiement>",
		"<code>CIVIL</code>",
		"<code>TR_PIN_1</code>",
	} {
		if !strings.Contains(content, tag) {
			t.Fatalf("missing %q in:\n%s", tag, content)
		}
	}

	if got := strings.Count(content, "<DetailAffaireJuridiqueRAF>"); got != 2 {
		t.Fatalf("expected 2 details, got %d", got)
	}
}

func TestBuildSortsByRegistrationDate(t *testing.T) {
	d := twoRecordDeclaration()
	doc, err := NewBuilder(fixedClock).Build(&d)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	content := string(doc.Content)
	early := strings.Index(content, "<dateEnregistrement>2024-01-10</dateEnregistrement>")
	late := strings.Index(content, "<dateEnregistrement>2024-03-05</dateEnregistrement>")
	if early == -1 || late == -1 || early > late {
		t.Fatalf("records not in ascending registration order (early=%d late=%d)", early, late)
	}

	// input order preserved in the declaration itself
	if d.Records[0].FileNumber != "1002" {
		t.Fatalf("builder must not mutate the declaration record order")
	}
}

func TestBuildStableSortKeepsTieOrder(t *testing.T) {
	a := validRecord()
	a.FileNumber = "1001"
	b := validRecord()
	b.FileNumber = "1002"

	d := validDeclaration()
	d.Records = []CaseRecord{a, b}

	doc, err := NewBuilder(fixedClock).Build(&d)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	content := string(doc.Content)
	first := strings.Index(content, "<numDossier>1001</numDossier>")
	second := strings.Index(content, "<numDossier>1002</numDossier>")
	if first == -1 || second == -1 || first > second {
		t.Fatalf("tie order not preserved (first=%d second=%d)", first, second)
	}
}

func TestBuildFilename(t *testing.T) {
	d := validDeclaration()
	doc, err := NewBuilder(fixedClock).Build(&d)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if doc.Filename != "VersementAvocats_123456789_20240315103000.xml" {
		t.Fatalf("unexpected filename %q", doc.Filename)
	}
}
