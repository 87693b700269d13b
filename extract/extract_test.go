package extract

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

const documentXML = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>第一段考试内容</w:t></w:r></w:p>
    <w:p><w:r><w:t>第二段</w:t></w:r><w:r><w:t>续写</w:t></w:r></w:p>
  </w:body>
</w:document>`

func writeDocx(t *testing.T, dir, name, document string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create docx: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create document part: %v", err)
	}
	if _, err := w.Write([]byte(document)); err != nil {
		t.Fatalf("write document part: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return path
}

func TestDocxExtractText(t *testing.T) {
	path := writeDocx(t, t.TempDir(), "paper.docx", documentXML)

	got, err := NewDocxExtractor().ExtractText(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := "第一段考试内容 第二段续写 "
	if got != expected {
		t.Errorf("ExtractText = %q, want %q", got, expected)
	}
}

func TestDocxMissingDocumentPart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.docx")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create file: %v", err)
	}
	zw := zip.NewWriter(f)
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	f.Close()

	if _, err := NewDocxExtractor().ExtractText(path); err == nil {
		t.Error("expected error for docx without document part")
	}
}

func TestDocxCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.docx")
	if err := os.WriteFile(path, []byte("not a zip archive"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if _, err := NewDocxExtractor().ExtractText(path); err == nil {
		t.Error("expected error for corrupt docx")
	}
}

func TestDispatcherUnsupportedExtension(t *testing.T) {
	d := NewDispatcher()
	if _, err := d.ExtractText("/tmp/notes.txt"); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestDispatcherRoutesDocx(t *testing.T) {
	path := writeDocx(t, t.TempDir(), "试卷.docx", documentXML)

	got, err := NewDispatcher().ExtractText(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == "" {
		t.Error("expected extracted text, got empty string")
	}
}
