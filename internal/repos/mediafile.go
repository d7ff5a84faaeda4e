package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/echoscribe/echoscribe-backend/internal/logger"
	"github.com/echoscribe/echoscribe-backend/internal/types"
)

type MediaFileRepo interface {
	Create(ctx context.Context, tx *gorm.DB, file *types.MediaFile) (*types.MediaFile, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.MediaFile, error)
	List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.MediaFile, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type mediaFileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMediaFileRepo(db *gorm.DB, baseLog *logger.Logger) MediaFileRepo {
	repoLog := baseLog.With("repo", "MediaFileRepo")
	return &mediaFileRepo{db: db, log: repoLog}
}

func (r *mediaFileRepo) Create(ctx context.Context, tx *gorm.DB, file *types.MediaFile) (*types.MediaFile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(file).Error; err != nil {
		return nil, err
	}
	return file, nil
}

func (r *mediaFileRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.MediaFile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.MediaFile
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *mediaFileRepo) List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.MediaFile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 100
	}

	var results []*types.MediaFile
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *mediaFileRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(&types.MediaFile{}).
		Where("id = ?", id).
		Update("status", status).Error; err != nil {
		return err
	}
	return nil
}

func (r *mediaFileRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.MediaFile{}).Error; err != nil {
		return err
	}
	return nil
}
