package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/echoscribe/echoscribe-backend/internal/clients/elevenlabs"
	"github.com/echoscribe/echoscribe-backend/internal/fileutil"
	"github.com/echoscribe/echoscribe-backend/internal/logger"
	"github.com/echoscribe/echoscribe-backend/internal/repos"
	"github.com/echoscribe/echoscribe-backend/internal/transcript"
	"github.com/echoscribe/echoscribe-backend/internal/types"
)

var (
	ErrMissingAPIKey    = errors.New("api key required")
	ErrNoFile           = errors.New("no file provided")
	ErrUnsupportedMedia = errors.New("unsupported media type")
)

// ProgressChannel names the SSE channel carrying events for one media
// file's transcription.
func ProgressChannel(filename string) string {
	return "transcription:" + fileutil.Stem(filename)
}

type TranscriptionService interface {
	// Transcribe validates the upload, forwards it to the provider and,
	// on success, stores the media and persists the transcript. Media
	// storage and persistence are best-effort: their failures are logged
	// and never fail the call.
	Transcribe(ctx context.Context, apiKey, filename string, media io.Reader, opts elevenlabs.ConvertOptions) (*transcript.Transcript, error)

	// SaveTranscript persists a transcript for a media filename,
	// replacing any previous generation for the same file.
	SaveTranscript(ctx context.Context, filename string, t *transcript.Transcript) (*types.TranscriptRecord, error)
}

type transcriptionService struct {
	db             *gorm.DB
	log            *logger.Logger
	sttClient      *elevenlabs.Client
	storage        MediaStorageService
	progress       ProgressService
	transcriptRepo repos.TranscriptRecordRepo
	mediaFileRepo  repos.MediaFileRepo
}

func NewTranscriptionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	sttClient *elevenlabs.Client,
	storage MediaStorageService,
	progress ProgressService,
	transcriptRepo repos.TranscriptRecordRepo,
	mediaFileRepo repos.MediaFileRepo,
) TranscriptionService {
	serviceLog := baseLog.With("service", "TranscriptionService")
	return &transcriptionService{
		db:             db,
		log:            serviceLog,
		sttClient:      sttClient,
		storage:        storage,
		progress:       progress,
		transcriptRepo: transcriptRepo,
		mediaFileRepo:  mediaFileRepo,
	}
}

func (ts *transcriptionService) Transcribe(ctx context.Context, apiKey, filename string, media io.Reader, opts elevenlabs.ConvertOptions) (*transcript.Transcript, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if filename == "" || media == nil {
		return nil, ErrNoFile
	}
	if !fileutil.IsSupportedMedia(filename) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMedia, filename)
	}

	// Spool the upload so it can be sent to the provider first and
	// stored afterwards, the way a browser re-reads the file object.
	tmp, err := os.CreateTemp("", "echoscribe-upload-*")
	if err != nil {
		return nil, fmt.Errorf("spooling upload: %w", err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()
	size, err := io.Copy(tmp, media)
	if err != nil {
		return nil, fmt.Errorf("spooling upload: %w", err)
	}
	if size == 0 {
		return nil, ErrNoFile
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	handle := ts.progress.Start(ctx, ProgressChannel(filename))

	result, err := ts.sttClient.ConvertFile(ctx, apiKey, filename, tmp, opts)
	if err != nil {
		handle.Fail(userMessage(err))
		return nil, err
	}

	// Persist media and transcript fire-and-forget: a storage or DB
	// hiccup must not cost the user their finished transcript.
	if _, err := tmp.Seek(0, io.SeekStart); err == nil {
		ts.storeMedia(filename, size, tmp)
	}
	ts.persistTranscript(filename, result)

	handle.Complete(map[string]any{
		"filename":      filename,
		"language_code": result.LanguageCode,
	})
	return result, nil
}

func (ts *transcriptionService) storeMedia(filename string, size int64, media io.Reader) {
	key := filename
	if err := ts.storage.Save(context.Background(), key, media); err != nil {
		ts.log.Warn("Failed to store media file", "filename", filename, "error", err)
		return
	}
	mf := &types.MediaFile{
		ID:           uuid.New(),
		OriginalName: filename,
		SizeBytes:    size,
		StorageKey:   key,
		FileURL:      ts.storage.PublicURL(key),
		Status:       "uploaded",
	}
	if _, err := ts.mediaFileRepo.Create(context.Background(), nil, mf); err != nil {
		ts.log.Warn("Failed to record media file", "filename", filename, "error", err)
	}
}

func (ts *transcriptionService) persistTranscript(filename string, t *transcript.Transcript) {
	record, err := types.NewTranscriptRecord(filename, t)
	if err != nil {
		ts.log.Warn("Failed to encode transcript for persistence", "filename", filename, "error", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := ts.transcriptRepo.UpsertByFilename(ctx, nil, record); err != nil {
		ts.log.Warn("Failed to persist transcript", "filename", filename, "error", err)
	}
}

func (ts *transcriptionService) SaveTranscript(ctx context.Context, filename string, t *transcript.Transcript) (*types.TranscriptRecord, error) {
	if filename == "" {
		return nil, fmt.Errorf("missing filename")
	}
	if t.Empty() {
		return nil, fmt.Errorf("missing transcript")
	}
	record, err := types.NewTranscriptRecord(filename, t)
	if err != nil {
		return nil, fmt.Errorf("encoding transcript: %w", err)
	}
	return ts.transcriptRepo.UpsertByFilename(ctx, nil, record)
}

// userMessage picks the text shown to the user for a failed provider
// call: the structured provider detail verbatim when present, otherwise
// a generic message.
func userMessage(err error) string {
	var apiErr *elevenlabs.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "Transcription failed"
}
