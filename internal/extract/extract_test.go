package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"

	"outreach-backend/internal/shared/storage/object/local"
)

func buildDocx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var body strings.Builder
	body.WriteString(`<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString("<w:p><w:r><w:t>" + p + "</w:t></w:r></w:p>")
	}
	body.WriteString("</w:body></w:document>")

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(body.String())); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractTextFromBytes_ZipDocxNormalizes(t *testing.T) {
	data := buildDocx(t, "Jane Doe", "Staff Engineer at Acme")

	got, err := ExtractTextFromBytes(context.Background(), data, "application/zip", "profile.docx")
	if err != nil {
		t.Fatalf("expected docx to extract from zip mime, got error: %v", err)
	}
	if got != "Jane Doe\nStaff Engineer at Acme" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestExtractTextFromBytes_RealZipRejected(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("notes.txt")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	_, err = ExtractTextFromBytes(context.Background(), buf.Bytes(), "application/zip", "notes.zip")
	if err == nil {
		t.Fatal("expected unsupported mime error for zip")
	}
	if !strings.Contains(err.Error(), "unsupported mime type: application/zip") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExtractTextFromBytes_PlainText(t *testing.T) {
	got, err := ExtractTextFromBytes(context.Background(), []byte("  Jane Doe\nCTO  "), "text/plain; charset=utf-8", "profile.txt")
	if err != nil {
		t.Fatalf("plain text: %v", err)
	}
	if got != "Jane Doe\nCTO" {
		t.Fatalf("unexpected text %q", got)
	}

	if _, err := ExtractTextFromBytes(context.Background(), []byte("hello"), "", "profile.txt"); err != nil {
		t.Fatalf("expected extension inference for .txt: %v", err)
	}
}

func TestExtractTextFromBytes_InvalidPDF(t *testing.T) {
	if _, err := ExtractTextFromBytes(context.Background(), []byte("not a pdf"), "application/pdf", "p.pdf"); err == nil {
		t.Fatalf("expected error for invalid pdf")
	}
}

func TestExtractTextPersistsDerivedCopy(t *testing.T) {
	store := local.New(t.TempDir())
	ctx := context.Background()
	data := buildDocx(t, "Profile body")
	if err := store.Put(ctx, "u/uploads/p.docx", mimeDOCX, data); err != nil {
		t.Fatalf("Put: %v", err)
	}

	text, err := ExtractText(ctx, store, "u/uploads/p.docx", mimeDOCX, "p.docx")
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	derived, err := store.Get(ctx, "u/uploads/p.docx.extracted.txt")
	if err != nil {
		t.Fatalf("Get derived: %v", err)
	}
	if string(derived) != text || text != "Profile body" {
		t.Fatalf("unexpected derived copy %q (text %q)", derived, text)
	}
}
