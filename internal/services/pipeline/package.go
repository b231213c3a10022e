package pipeline

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/flate"
)

// MaxArtifactSize is the hard ceiling on packaged payloads. Downstream
// submission channels reject anything bigger, so exceeding it fails the
// conversion instead of producing a truncated archive.
const MaxArtifactSize = 10 << 20

// Artifact is the downloadable result of a conversion.
type Artifact struct {
	Filename string
	Content  []byte
}

// Package wraps the generated XML as the single entry of a zip archive,
// deflated at the maximum level.
func Package(doc *Document) (*Artifact, error) {
	if len(doc.Content) > MaxArtifactSize {
		return nil, Violation{
			Kind:  ArtifactTooLarge,
			Field: doc.Filename,
			Message: fmt.Sprintf("le fichier généré dépasse la taille maximale (%d > %d octets)",
				len(doc.Content), MaxArtifactSize),
		}
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	entry, err := zw.Create(doc.Filename)
	if err != nil {
		return nil, fmt.Errorf("create zip entry: %w", err)
	}
	if _, err := entry.Write(doc.Content); err != nil {
		return nil, fmt.Errorf("write zip entry: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}

	return &Artifact{
		Filename: swapExt(doc.Filename, ".zip"),
		Content:  buf.Bytes(),
	}, nil
}

func swapExt(name, ext string) string {
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}
	return name + ext
}
