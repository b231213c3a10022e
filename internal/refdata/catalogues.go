package refdata

import "sort"

// Reference catalogues consumed by declaration validation. The builtin sets
// mirror annex 2 of the EDI-TDFC deposit format; Postgres may override them
// at startup (see repository/refdata).

var natureAffaireCodes = []string{"PENAL", "COMMERC", "CIVIL", "ADM"}

// tribunalCodes is the fixed court catalogue. The numbering has holes
// (no TR_PIN_35, TR_PIN_81, TR_PIN_82), so the list is spelled out rather
// than generated.
var tribunalCodes = []string{
	// administrative courts
	"TR_ADM_APPL_1", "TR_ADM_APPL_2",
	"TR_ADM_PIN_1", "TR_ADM_PIN_2", "TR_ADM_PIN_3", "TR_ADM_PIN_4",
	"TR_ADM_PIN_5", "TR_ADM_PIN_6", "TR_ADM_PIN_7",
	// commercial courts
	"TR_COM_APPL_1", "TR_COM_APPL_2", "TR_COM_APPL_3",
	"TR_COM_PIN_1", "TR_COM_PIN_2", "TR_COM_PIN_3", "TR_COM_PIN_4",
	"TR_COM_PIN_5", "TR_COM_PIN_6", "TR_COM_PIN_7", "TR_COM_PIN_8",
	// appellate courts
	"TR_APPL_1", "TR_APPL_2", "TR_APPL_3", "TR_APPL_4", "TR_APPL_5",
	"TR_APPL_6", "TR_APPL_7", "TR_APPL_8", "TR_APPL_9", "TR_APPL_10",
	"TR_APPL_11", "TR_APPL_12", "TR_APPL_13", "TR_APPL_14", "TR_APPL_15",
	"TR_APPL_16", "TR_APPL_17", "TR_APPL_18", "TR_APPL_19", "TR_APPL_20",
	"TR_APPL_21", "TR_APPL_22",
	// first-instance courts
	"TR_PIN_1", "TR_PIN_2", "TR_PIN_3", "TR_PIN_4", "TR_PIN_5",
	"TR_PIN_6", "TR_PIN_7", "TR_PIN_8", "TR_PIN_9", "TR_PIN_10",
	"TR_PIN_11", "TR_PIN_12", "TR_PIN_13", "TR_PIN_14", "TR_PIN_15",
	"TR_PIN_16", "TR_PIN_17", "TR_PIN_18", "TR_PIN_19", "TR_PIN_20",
	"TR_PIN_21", "TR_PIN_22", "TR_PIN_23", "TR_PIN_24", "TR_PIN_25",
	"TR_PIN_26", "TR_PIN_27", "TR_PIN_28", "TR_PIN_29", "TR_PIN_30",
	"TR_PIN_31", "TR_PIN_32", "TR_PIN_33", "TR_PIN_34", "TR_PIN_36",
	"TR_PIN_37", "TR_PIN_38", "TR_PIN_39", "TR_PIN_40", "TR_PIN_41",
	"TR_PIN_42", "TR_PIN_43", "TR_PIN_44", "TR_PIN_45", "TR_PIN_46",
	"TR_PIN_47", "TR_PIN_48", "TR_PIN_49", "TR_PIN_50", "TR_PIN_51",
	"TR_PIN_52", "TR_PIN_53", "TR_PIN_54", "TR_PIN_55", "TR_PIN_56",
	"TR_PIN_57", "TR_PIN_58", "TR_PIN_59", "TR_PIN_60", "TR_PIN_61",
	"TR_PIN_62", "TR_PIN_63", "TR_PIN_64", "TR_PIN_65", "TR_PIN_66",
	"TR_PIN_67", "TR_PIN_68", "TR_PIN_69", "TR_PIN_70", "TR_PIN_71",
	"TR_PIN_72", "TR_PIN_73", "TR_PIN_74", "TR_PIN_75", "TR_PIN_76",
	"TR_PIN_77", "TR_PIN_78", "TR_PIN_79", "TR_PIN_80", "TR_PIN_83",
	// court of cassation
	"TR_CASS_1",
}

// dossierCodes is the 4-digit case-code catalogue (annex 3). It is served
// through /catalogues for operator reference; the record validator only
// checks the 4-digit format.
var dossierCodes = []string{
	"7101", "7102", "7103", "7104", "7105", "7106", "7107", "7108",
	"7109", "7110", "7111", "7112", "7113", "7114", "7115", "7116",
	"7129", "7130",
	"7201", "7202", "7203", "7204", "7205", "7206", "7207", "7208",
	"7209", "7210", "7211", "7212", "7213", "7214", "7215",
}

// Catalogues is an immutable lookup of valid reference codes. Validators
// receive it at construction, so tests can pass trimmed-down sets.
type Catalogues struct {
	natures   map[string]struct{}
	tribunals map[string]struct{}
	dossiers  map[string]struct{}
}

func New(natures, tribunals, dossiers []string) *Catalogues {
	return &Catalogues{
		natures:   toSet(natures),
		tribunals: toSet(tribunals),
		dossiers:  toSet(dossiers),
	}
}

// Builtin returns the catalogues baked into the binary.
func Builtin() *Catalogues {
	return New(natureAffaireCodes, tribunalCodes, dossierCodes)
}

func (c *Catalogues) ValidNature(code string) bool {
	_, ok := c.natures[code]
	return ok
}

func (c *Catalogues) ValidTribunal(code string) bool {
	_, ok := c.tribunals[code]
	return ok
}

func (c *Catalogues) Natures() []string   { return keys(c.natures, natureAffaireCodes) }
func (c *Catalogues) Tribunals() []string { return keys(c.tribunals, tribunalCodes) }
func (c *Catalogues) Dossiers() []string  { return keys(c.dossiers, dossierCodes) }

func toSet(codes []string) map[string]struct{} {
	s := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		s[c] = struct{}{}
	}
	return s
}

// keys returns the set contents, preserving the builtin order for codes that
// come from the builtin lists and appending the rest sorted by insertion-
// independent comparison.
func keys(set map[string]struct{}, builtinOrder []string) []string {
	out := make([]string, 0, len(set))
	seen := make(map[string]struct{}, len(set))
	for _, c := range builtinOrder {
		if _, ok := set[c]; ok {
			out = append(out, c)
			seen[c] = struct{}{}
		}
	}
	extra := make([]string, 0)
	for c := range set {
		if _, ok := seen[c]; !ok {
			extra = append(extra, c)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}
