package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/echoscribe/echoscribe-backend/internal/transcript"
)

// TranscriptRecord is the persisted form of one provider transcript,
// keyed by the media filename it was generated from. The word-timing
// array is stored verbatim as JSON so derived views (sentences, cues)
// can be recomputed on read.
type TranscriptRecord struct {
	ID                  uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	MediaFileID         *uuid.UUID     `gorm:"type:uuid;index" json:"media_file_id,omitempty"`
	Filename            string         `gorm:"column:filename;not null;index" json:"filename"`
	LanguageCode        string         `gorm:"column:language_code" json:"language_code"`
	LanguageProbability float64        `gorm:"column:language_probability" json:"language_probability"`
	Text                string         `gorm:"column:text;type:text" json:"text"`
	Words               datatypes.JSON `gorm:"column:words;type:jsonb" json:"words"`
	CreatedAt           time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (TranscriptRecord) TableName() string { return "transcript_record" }

// NewTranscriptRecord builds a record from a provider transcript.
func NewTranscriptRecord(filename string, t *transcript.Transcript) (*TranscriptRecord, error) {
	words, err := json.Marshal(t.Words)
	if err != nil {
		return nil, err
	}
	return &TranscriptRecord{
		ID:                  uuid.New(),
		Filename:            filename,
		LanguageCode:        t.LanguageCode,
		LanguageProbability: t.LanguageProbability,
		Text:                t.Text,
		Words:               datatypes.JSON(words),
	}, nil
}

// Transcript reconstructs the provider transcript from the stored row.
func (r *TranscriptRecord) Transcript() (*transcript.Transcript, error) {
	t := &transcript.Transcript{
		LanguageCode:        r.LanguageCode,
		LanguageProbability: r.LanguageProbability,
		Text:                r.Text,
	}
	if len(r.Words) > 0 {
		if err := json.Unmarshal(r.Words, &t.Words); err != nil {
			return nil, err
		}
	}
	return t, nil
}
