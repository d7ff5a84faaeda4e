package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/echoscribe/echoscribe-backend/internal/logger"
	"github.com/echoscribe/echoscribe-backend/internal/types"
)

type TranscriptRecordRepo interface {
	Create(ctx context.Context, tx *gorm.DB, record *types.TranscriptRecord) (*types.TranscriptRecord, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.TranscriptRecord, error)
	GetByFilename(ctx context.Context, tx *gorm.DB, filename string) (*types.TranscriptRecord, error)
	List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.TranscriptRecord, error)
	UpsertByFilename(ctx context.Context, tx *gorm.DB, record *types.TranscriptRecord) (*types.TranscriptRecord, error)
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type transcriptRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTranscriptRecordRepo(db *gorm.DB, baseLog *logger.Logger) TranscriptRecordRepo {
	repoLog := baseLog.With("repo", "TranscriptRecordRepo")
	return &transcriptRecordRepo{db: db, log: repoLog}
}

func (r *transcriptRecordRepo) Create(ctx context.Context, tx *gorm.DB, record *types.TranscriptRecord) (*types.TranscriptRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (r *transcriptRecordRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.TranscriptRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.TranscriptRecord
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *transcriptRecordRepo) GetByFilename(ctx context.Context, tx *gorm.DB, filename string) (*types.TranscriptRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.TranscriptRecord
	if err := transaction.WithContext(ctx).
		Where("filename = ?", filename).
		Order("created_at DESC").
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *transcriptRecordRepo) List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.TranscriptRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 100
	}

	var results []*types.TranscriptRecord
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// UpsertByFilename replaces any prior transcript for the same media file.
// A new generation discards the previous one wholesale. Delete and create
// run in one transaction so a failure between them cannot lose the prior
// generation without writing the new one.
func (r *transcriptRecordRepo) UpsertByFilename(ctx context.Context, tx *gorm.DB, record *types.TranscriptRecord) (*types.TranscriptRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	err := transaction.WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		if err := txn.
			Where("filename = ?", record.Filename).
			Delete(&types.TranscriptRecord{}).Error; err != nil {
			return err
		}
		return txn.Create(record).Error
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *transcriptRecordRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.TranscriptRecord{}).Error; err != nil {
		return err
	}
	return nil
}
