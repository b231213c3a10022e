package refdata

import "testing"

func TestBuiltinCatalogues(t *testing.T) {
	c := Builtin()

	if got := len(c.Natures()); got != 4 {
		t.Fatalf("expected 4 nature codes, got %d", got)
	}
	if got := len(c.Tribunals()); got != 123 {
		t.Fatalf("expected 123 tribunal codes, got %d", got)
	}

	for _, code := range []string{"PENAL", "COMMERC", "CIVIL", "ADM"} {
		if !c.ValidNature(code) {
			t.Fatalf("nature %s should be valid", code)
		}
	}
	if c.ValidNature("FOO") {
		t.Fatalf("FOO must not be a valid nature")
	}

	if !c.ValidTribunal("TR_CASS_1") || !c.ValidTribunal("TR_PIN_83") {
		t.Fatalf("expected builtin tribunal codes to validate")
	}
	// holes in the numbering are not valid codes
	for _, code := range []string{"TR_PIN_35", "TR_PIN_81", "TR_PIN_82"} {
		if c.ValidTribunal(code) {
			t.Fatalf("%s is a gap in the catalogue and must be invalid", code)
		}
	}
}

func TestCustomCatalogues(t *testing.T) {
	c := New([]string{"CIVIL"}, []string{"TR_TEST_1"}, nil)

	if !c.ValidNature("CIVIL") || c.ValidNature("PENAL") {
		t.Fatalf("custom nature set not honored")
	}
	if !c.ValidTribunal("TR_TEST_1") || c.ValidTribunal("TR_PIN_1") {
		t.Fatalf("custom tribunal set not honored")
	}
	if got := c.Tribunals(); len(got) != 1 || got[0] != "TR_TEST_1" {
		t.Fatalf("unexpected tribunal listing: %v", got)
	}
}
