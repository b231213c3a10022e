package pipeline

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var isoDatePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// Normalizer turns free-form cell values into canonical field values.
// Strict by default: a date that matches no known layout is an error.
// Lenient restores the legacy behavior of substituting the current date,
// which callers opt into per request.
type Normalizer struct {
	Lenient bool
	Now     func() time.Time
}

func NewNormalizer(lenient bool, now func() time.Time) *Normalizer {
	if now == nil {
		now = time.Now
	}
	return &Normalizer{Lenient: lenient, Now: now}
}

// NormalizeDate produces a canonical YYYY-MM-DD string. Accepted inputs:
// ISO dates with or without a time component (truncated to the date part)
// and DD/MM/YYYY. Already-canonical input comes back unchanged.
func (n *Normalizer) NormalizeDate(v string) (string, error) {
	v = strings.TrimSpace(v)

	if v == "" {
		if n.Lenient {
			return n.today(), nil
		}
		return "", fmt.Errorf("date manquante")
	}

	if isoDatePrefix.MatchString(v) {
		return v[:10], nil
	}

	if parts := strings.Split(v, "/"); len(parts) == 3 {
		day, month, year := parts[0], parts[1], parts[2]
		return fmt.Sprintf("%s-%s-%s", year, pad2(month), pad2(day)), nil
	}

	if n.Lenient {
		return n.today(), nil
	}
	return "", fmt.Errorf("format de date non reconnu: %q", v)
}

// NormalizeCode left-pads a dossier code to 4 digits.
func NormalizeCode(v string) string {
	v = strings.TrimSpace(v)
	for len(v) < 4 {
		v = "0" + v
	}
	return v
}

// NormalizeEnum canonicalizes enum cells before catalogue lookup.
func NormalizeEnum(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}

func (n *Normalizer) today() string {
	return n.Now().UTC().Format("2006-01-02")
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
