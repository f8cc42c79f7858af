package intake

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const docxType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

func TestStageAcceptsSupportedTypes(t *testing.T) {
	s := NewStager(Limits{}, nil)

	for _, sel := range []Selection{
		FromBytes("a.pdf", "application/pdf", []byte("%PDF")),
		FromBytes("b.doc", "application/msword; charset=binary", []byte("doc")),
		FromBytes("c.docx", docxType, []byte("PK")),
		FromBytes("d.PDF", "", []byte("%PDF")),
	} {
		f, err := s.Stage(sel)
		if err != nil {
			t.Fatalf("stage %s: %v", sel.Name, err)
		}
		if f.Status != StatusPending || f.ID == "" {
			t.Fatalf("unexpected staged file: %+v", f)
		}
	}

	files := s.Files()
	if len(files) != 4 {
		t.Fatalf("expected 4 staged files, got %d", len(files))
	}
	if files[1].MimeType != "application/msword" {
		t.Fatalf("expected parameters stripped, got %q", files[1].MimeType)
	}
	if files[3].MimeType != "application/pdf" {
		t.Fatalf("expected type derived from extension, got %q", files[3].MimeType)
	}
	if files[0].ID == files[3].ID {
		t.Fatal("staged ids must be unique")
	}
}

func TestStageRejections(t *testing.T) {
	tests := []struct {
		name   string
		limits Limits
		prior  int
		sel    Selection
		reason Reason
	}{
		{
			name:   "text file",
			sel:    FromBytes("notes.txt", "text/plain", []byte("hi")),
			reason: ReasonUnsupportedType,
		},
		{
			name:   "unknown extension",
			sel:    FromBytes("photo.bmp", "", []byte("BM")),
			reason: ReasonUnsupportedType,
		},
		{
			name:   "too large",
			sel:    Selection{Name: "big.pdf", MimeType: "application/pdf", Size: DefaultMaxFileSize + 1},
			reason: ReasonTooLarge,
		},
		{
			name:   "batch full",
			limits: Limits{MaxFiles: 2},
			prior:  2,
			sel:    FromBytes("third.pdf", "application/pdf", []byte("%PDF")),
			reason: ReasonLimitReached,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStager(tt.limits, nil)
			for range tt.prior {
				if _, err := s.Stage(FromBytes("x.pdf", "application/pdf", []byte("%PDF"))); err != nil {
					t.Fatalf("prior stage: %v", err)
				}
			}

			f, err := s.Stage(tt.sel)

			var rej *RejectionError
			if !errors.As(err, &rej) {
				t.Fatalf("expected rejection error, got %v", err)
			}
			if rej.Reason != tt.reason {
				t.Fatalf("expected reason %q, got %q", tt.reason, rej.Reason)
			}
			if f.Status != StatusRejected {
				t.Fatalf("expected rejected status, got %q", f.Status)
			}
			if s.Len() != tt.prior {
				t.Fatalf("rejected file must not be staged: len=%d", s.Len())
			}
		})
	}
}

func TestStageExactSizeLimitAccepted(t *testing.T) {
	s := NewStager(Limits{}, nil)

	if _, err := s.Stage(Selection{Name: "edge.pdf", MimeType: "application/pdf", Size: DefaultMaxFileSize}); err != nil {
		t.Fatalf("file of exactly the limit must be accepted: %v", err)
	}
}

func TestUnstageAndClear(t *testing.T) {
	s := NewStager(Limits{}, nil)

	a, _ := s.Stage(FromBytes("a.pdf", "application/pdf", nil))
	b, _ := s.Stage(FromBytes("b.pdf", "application/pdf", nil))
	c, _ := s.Stage(FromBytes("c.pdf", "application/pdf", nil))

	s.Unstage(b.ID)
	s.Unstage("missing")

	files := s.Files()
	if len(files) != 2 || files[0].ID != a.ID || files[1].ID != c.ID {
		t.Fatalf("unexpected files after unstage: %+v", files)
	}

	files[0].Name = "mutated"
	if s.Files()[0].Name != "a.pdf" {
		t.Fatal("Files must return a copy")
	}

	s.Clear()
	if s.Len() != 0 {
		t.Fatalf("expected empty stager, got %d", s.Len())
	}
}

func TestFromPathUploadsContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.docx")
	if err := os.WriteFile(path, []byte("resume body"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	sel, err := FromPath(path)
	if err != nil {
		t.Fatalf("from path: %v", err)
	}
	if sel.Name != "cv.docx" || sel.MimeType != docxType || sel.Size != 11 {
		t.Fatalf("unexpected selection: %+v", sel)
	}

	s := NewStager(Limits{}, nil)
	f, err := s.Stage(sel)
	if err != nil {
		t.Fatalf("stage: %v", err)
	}

	up := f.Upload()
	rc, err := up.Open()
	if err != nil {
		t.Fatalf("open upload: %v", err)
	}
	defer rc.Close()

	data, _ := io.ReadAll(rc)
	if string(data) != "resume body" {
		t.Fatalf("unexpected upload content: %q", data)
	}

	if _, err := FromPath(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestStageLogsRejection(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	s := NewStager(Limits{}, zap.New(core))

	_, _ = s.Stage(FromBytes("notes.txt", "text/plain", nil))

	entries := logs.FilterMessage("file rejected").All()
	if len(entries) != 1 {
		t.Fatalf("expected one rejection log, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["reason"]; got != string(ReasonUnsupportedType) {
		t.Fatalf("unexpected reason field: %v", got)
	}
}
