package pipeline

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestPackageSingleEntryRoundTrip(t *testing.T) {
	d := twoRecordDeclaration()
	doc, err := NewBuilder(fixedClock).Build(&d)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	art, err := Package(doc)
	if err != nil {
		t.Fatalf("package failed: %v", err)
	}
	if art.Filename != "VersementAvocats_123456789_20240315103000.zip" {
		t.Fatalf("unexpected archive name %q", art.Filename)
	}
	if len(art.Content) > MaxArtifactSize {
		t.Fatalf("archive exceeds ceiling: %d", len(art.Content))
	}

	zr, err := zip.NewReader(bytes.NewReader(art.Content), int64(len(art.Content)))
	if err != nil {
		t.Fatalf("archive unreadable: %v", err)
	}
	if len(zr.File) != 1 {
		t.Fatalf("expected exactly 1 entry, got %d", len(zr.File))
	}
	entry := zr.File[0]
	if entry.Name != doc.Filename {
		t.Fatalf("entry name %q, expected %q", entry.Name, doc.Filename)
	}

	rc, err := entry.Open()
	if err != nil {
		t.Fatalf("open entry: %v", err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read entry: %v", err)
	}
	if !bytes.Equal(got, doc.Content) {
		t.Fatalf("entry content does not round-trip")
	}
}

func TestPackageRejectsOversizedPayload(t *testing.T) {
	doc := &Document{
		Filename: "VersementAvocats_123456789_20240315103000.xml",
		Content:  make([]byte, MaxArtifactSize+1),
	}

	art, err := Package(doc)
	if art != nil {
		t.Fatalf("no archive must be produced for oversized payloads")
	}
	var v Violation
	if !errors.As(err, &v) || v.Kind != ArtifactTooLarge {
		t.Fatalf("expected ArtifactTooLarge, got %v", err)
	}
}
