package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/echoscribe/echoscribe-backend/internal/logger"
	"github.com/echoscribe/echoscribe-backend/internal/repos"
	"github.com/echoscribe/echoscribe-backend/internal/transcript"
)

// ErrNoTranscript is returned when an export is requested for a record
// that carries no transcript content; exporting nothing is a guarded
// no-op, not a crash.
var ErrNoTranscript = errors.New("no transcript to export")

// ExportResult is one downloadable artifact.
type ExportResult struct {
	Filename    string
	ContentType string
	Content     []byte
}

type ExportService interface {
	ExportRecord(ctx context.Context, id uuid.UUID, format transcript.Format) (*ExportResult, error)
	ExportTranscript(filename string, t *transcript.Transcript, format transcript.Format) (*ExportResult, error)
}

type exportService struct {
	db             *gorm.DB
	log            *logger.Logger
	transcriptRepo repos.TranscriptRecordRepo
}

func NewExportService(db *gorm.DB, baseLog *logger.Logger, transcriptRepo repos.TranscriptRecordRepo) ExportService {
	serviceLog := baseLog.With("service", "ExportService")
	return &exportService{db: db, log: serviceLog, transcriptRepo: transcriptRepo}
}

func (es *exportService) ExportRecord(ctx context.Context, id uuid.UUID, format transcript.Format) (*ExportResult, error) {
	record, err := es.transcriptRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	t, err := record.Transcript()
	if err != nil {
		return nil, err
	}
	return es.ExportTranscript(record.Filename, t, format)
}

func (es *exportService) ExportTranscript(filename string, t *transcript.Transcript, format transcript.Format) (*ExportResult, error) {
	if t.Empty() {
		return nil, ErrNoTranscript
	}
	content, err := transcript.Export(t, format)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		Filename:    transcript.ExportFilename(filename, format),
		ContentType: contentTypeFor(format),
		Content:     content,
	}, nil
}

func contentTypeFor(format transcript.Format) string {
	switch format {
	case transcript.FormatJSON:
		return "application/json; charset=utf-8"
	case transcript.FormatSRT:
		return "application/x-subrip; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}
