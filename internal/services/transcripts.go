package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/echoscribe/echoscribe-backend/internal/logger"
	"github.com/echoscribe/echoscribe-backend/internal/repos"
	"github.com/echoscribe/echoscribe-backend/internal/transcript"
	"github.com/echoscribe/echoscribe-backend/internal/types"
)

// TranscriptQueryService serves stored transcripts and their derived
// views. Sentences and cues are pure functions of the word array and are
// recomputed on every call rather than cached.
type TranscriptQueryService interface {
	Get(ctx context.Context, id uuid.UUID) (*types.TranscriptRecord, error)
	List(ctx context.Context, limit int) ([]*types.TranscriptRecord, error)
	Sentences(ctx context.Context, id uuid.UUID) ([]transcript.Sentence, error)
	ActiveSentence(ctx context.Context, id uuid.UUID, at float64) (int, error)
	Cues(ctx context.Context, id uuid.UUID) ([]transcript.Cue, error)
}

type transcriptQueryService struct {
	db             *gorm.DB
	log            *logger.Logger
	transcriptRepo repos.TranscriptRecordRepo
}

func NewTranscriptQueryService(db *gorm.DB, baseLog *logger.Logger, transcriptRepo repos.TranscriptRecordRepo) TranscriptQueryService {
	serviceLog := baseLog.With("service", "TranscriptQueryService")
	return &transcriptQueryService{db: db, log: serviceLog, transcriptRepo: transcriptRepo}
}

func (qs *transcriptQueryService) Get(ctx context.Context, id uuid.UUID) (*types.TranscriptRecord, error) {
	return qs.transcriptRepo.GetByID(ctx, nil, id)
}

func (qs *transcriptQueryService) List(ctx context.Context, limit int) ([]*types.TranscriptRecord, error) {
	return qs.transcriptRepo.List(ctx, nil, limit)
}

func (qs *transcriptQueryService) words(ctx context.Context, id uuid.UUID) ([]transcript.Word, error) {
	record, err := qs.transcriptRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	t, err := record.Transcript()
	if err != nil {
		return nil, err
	}
	return t.Words, nil
}

func (qs *transcriptQueryService) Sentences(ctx context.Context, id uuid.UUID) ([]transcript.Sentence, error) {
	words, err := qs.words(ctx, id)
	if err != nil {
		return nil, err
	}
	return transcript.Sentences(words), nil
}

func (qs *transcriptQueryService) ActiveSentence(ctx context.Context, id uuid.UUID, at float64) (int, error) {
	sentences, err := qs.Sentences(ctx, id)
	if err != nil {
		return -1, err
	}
	return transcript.ActiveSentence(sentences, at), nil
}

func (qs *transcriptQueryService) Cues(ctx context.Context, id uuid.UUID) ([]transcript.Cue, error) {
	words, err := qs.words(ctx, id)
	if err != nil {
		return nil, err
	}
	return transcript.Cues(words), nil
}
