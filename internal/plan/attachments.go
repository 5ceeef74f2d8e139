package plan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"

	"github.com/secandoalei/secando/internal/llm"
)

// MaxAttachmentBytes caps a single uploaded file.
const MaxAttachmentBytes = 20 << 20

// ErrUnsupportedFile is returned for files that are neither PDF nor image.
type ErrUnsupportedFile struct {
	Path     string
	MIMEType string
}

func (e *ErrUnsupportedFile) Error() string {
	return fmt.Sprintf("%s: unsupported file type %s (use PDF or image)", e.Path, e.MIMEType)
}

// LoadAttachments reads PDFs and images from disk, detecting their type by
// content. Order follows paths.
func LoadAttachments(ctx context.Context, paths []string) ([]llm.Attachment, error) {
	out := make([]llm.Attachment, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			a, err := loadAttachment(path)
			if err != nil {
				return err
			}
			out[i] = a
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func loadAttachment(path string) (llm.Attachment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return llm.Attachment{}, err
	}
	if info.IsDir() {
		return llm.Attachment{}, fmt.Errorf("%s: is a directory", path)
	}
	if info.Size() > MaxAttachmentBytes {
		return llm.Attachment{}, fmt.Errorf("%s: file too large (%d bytes)", path, info.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return llm.Attachment{}, err
	}

	mt := mimetype.Detect(data)
	mime := mt.String()
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	if !mt.Is("application/pdf") && !strings.HasPrefix(mime, "image/") {
		return llm.Attachment{}, &ErrUnsupportedFile{Path: path, MIMEType: mime}
	}

	return llm.Attachment{
		Name:     filepath.Base(path),
		MIMEType: mime,
		Data:     data,
	}, nil
}
