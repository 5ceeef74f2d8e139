package plan

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/goleak"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadAttachments(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	pdf := writeFile(t, dir, "lei.pdf", []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n%%EOF\n"))
	png := writeFile(t, dir, "pagina", pngHeader)

	got, err := LoadAttachments(context.Background(), []string{pdf, png})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 attachments, got %d", len(got))
	}
	if got[0].Name != "lei.pdf" || !got[0].IsPDF() {
		t.Errorf("first attachment = %s %s, want PDF", got[0].Name, got[0].MIMEType)
	}
	if got[1].MIMEType != "image/png" || !got[1].IsImage() {
		t.Errorf("second attachment mime = %s, want image/png", got[1].MIMEType)
	}
}

func TestLoadAttachments_Unsupported(t *testing.T) {
	dir := t.TempDir()
	txt := writeFile(t, dir, "notas.txt", []byte("apenas texto"))

	_, err := LoadAttachments(context.Background(), []string{txt})
	var unsupported *ErrUnsupportedFile
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected ErrUnsupportedFile, got %v", err)
	}
	if unsupported.MIMEType != "text/plain" {
		t.Errorf("unexpected detected type %q", unsupported.MIMEType)
	}
}

func TestLoadAttachments_Missing(t *testing.T) {
	_, err := LoadAttachments(context.Background(), []string{filepath.Join(t.TempDir(), "nope.pdf")})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLoadAttachments_Empty(t *testing.T) {
	got, err := LoadAttachments(context.Background(), nil)
	if err != nil || len(got) != 0 {
		t.Fatalf("LoadAttachments(nil) = %v, %v", got, err)
	}
}
