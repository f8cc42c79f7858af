package intake

import (
	"io"
	"mime"
	"strconv"
	"strings"
	"sync"

	"github.com/Rikcr7/ResuMATE/internal/metrics"
	"github.com/Rikcr7/ResuMATE/pkg/analysis"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultMaxFiles    = 100
	DefaultMaxFileSize = 10 << 20
)

// Accepted resume content types.
var supportedTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusRejected Status = "rejected"
)

// StagedFile is a resume waiting to be submitted.
type StagedFile struct {
	ID        string
	Name      string
	SizeBytes int64
	MimeType  string
	Status    Status

	open func() (io.ReadCloser, error)
}

// Upload returns the multipart part for the file.
func (f StagedFile) Upload() analysis.Upload {
	return analysis.Upload{Name: f.Name, MimeType: f.MimeType, Open: f.open}
}

type Limits struct {
	MaxFiles    int
	MaxFileSize int64
}

func (l Limits) withDefaults() Limits {
	if l.MaxFiles <= 0 {
		l.MaxFiles = DefaultMaxFiles
	}
	if l.MaxFileSize <= 0 {
		l.MaxFileSize = DefaultMaxFileSize
	}
	return l
}

// Stager holds the ordered collection of accepted files.
type Stager struct {
	mu     sync.Mutex
	files  []StagedFile
	limits Limits
	logger *zap.Logger
}

func NewStager(limits Limits, log *zap.Logger) *Stager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Stager{limits: limits.withDefaults(), logger: log}
}

func (s *Stager) Limits() Limits {
	return s.limits
}

// Stage validates sel and appends it when accepted. Rejected selections are
// returned with StatusRejected together with a *RejectionError and never stored.
func (s *Stager) Stage(sel Selection) (StagedFile, error) {
	file := StagedFile{
		ID:        uuid.NewString(),
		Name:      sel.Name,
		SizeBytes: sel.Size,
		MimeType:  baseMediaType(sel.MimeType),
		Status:    StatusPending,
		open:      sel.Open,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if rej := s.check(file); rej != nil {
		file.Status = StatusRejected
		metrics.IncFileStaged(string(rej.Reason))
		s.logger.Debug("file rejected",
			zap.String("file", file.Name),
			zap.String("reason", string(rej.Reason)),
		)
		return file, rej
	}

	s.files = append(s.files, file)
	metrics.IncFileStaged("accepted")
	s.logger.Debug("file staged",
		zap.String("file", file.Name),
		zap.String("file_id", file.ID),
		zap.Int64("size", file.SizeBytes),
	)

	return file, nil
}

func (s *Stager) check(f StagedFile) *RejectionError {
	if _, ok := supportedTypes[f.MimeType]; !ok {
		detail := f.MimeType
		if detail == "" {
			detail = "(unknown)"
		}
		return &RejectionError{Reason: ReasonUnsupportedType, Name: f.Name, Detail: detail}
	}
	if f.SizeBytes > s.limits.MaxFileSize {
		return &RejectionError{Reason: ReasonTooLarge, Name: f.Name, Detail: humanBytes(s.limits.MaxFileSize)}
	}
	if len(s.files) >= s.limits.MaxFiles {
		return &RejectionError{Reason: ReasonLimitReached, Name: f.Name, Detail: strconv.Itoa(s.limits.MaxFiles)}
	}
	return nil
}

// Unstage removes the file with the given id. Unknown ids are ignored.
func (s *Stager) Unstage(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, f := range s.files {
		if f.ID == id {
			s.files = append(s.files[:i], s.files[i+1:]...)
			return
		}
	}
}

func (s *Stager) Clear() {
	s.mu.Lock()
	s.files = nil
	s.mu.Unlock()
}

// Files returns a copy of the staged files in staging order.
func (s *Stager) Files() []StagedFile {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]StagedFile, len(s.files))
	copy(out, s.files)
	return out
}

func (s *Stager) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

func baseMediaType(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(v)
	if err != nil {
		mt, _, _ = strings.Cut(v, ";")
	}
	return strings.ToLower(strings.TrimSpace(mt))
}

func humanBytes(n int64) string {
	if n >= 1<<20 && n%(1<<20) == 0 {
		return strconv.FormatInt(n>>20, 10) + " MiB"
	}
	return strconv.FormatInt(n, 10) + " bytes"
}
