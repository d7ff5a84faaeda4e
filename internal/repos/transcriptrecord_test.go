package repos

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"github.com/echoscribe/echoscribe-backend/internal/logger"
	"github.com/echoscribe/echoscribe-backend/internal/transcript"
	"github.com/echoscribe/echoscribe-backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

// openTestDB creates the transcript_record schema by hand: the model's
// uuid_generate_v4 default is postgres-only, and ids are assigned in Go
// here anyway.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "repos.db")), &gorm.Config{
		Logger: glogger.Discard,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Exec(`CREATE TABLE transcript_record (
		id text PRIMARY KEY,
		media_file_id text,
		filename text NOT NULL,
		language_code text,
		language_probability real,
		text text,
		words text,
		created_at datetime,
		updated_at datetime,
		deleted_at datetime
	)`).Error; err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}

func record(t *testing.T, filename, text string) *types.TranscriptRecord {
	t.Helper()
	r, err := types.NewTranscriptRecord(filename, &transcript.Transcript{
		LanguageCode: "en",
		Text:         text,
		Words: []transcript.Word{
			{Text: text, Start: 0, End: 1, Type: "word"},
		},
	})
	if err != nil {
		t.Fatalf("NewTranscriptRecord: %v", err)
	}
	return r
}

func TestUpsertByFilenameReplacesPriorGeneration(t *testing.T) {
	db := openTestDB(t)
	repo := NewTranscriptRecordRepo(db, testLogger(t))
	ctx := context.Background()

	first := record(t, "talk.mp3", "first pass.")
	if _, err := repo.Create(ctx, nil, first); err != nil {
		t.Fatalf("Create: %v", err)
	}

	second := record(t, "talk.mp3", "second pass.")
	if _, err := repo.UpsertByFilename(ctx, nil, second); err != nil {
		t.Fatalf("UpsertByFilename: %v", err)
	}

	got, err := repo.GetByFilename(ctx, nil, "talk.mp3")
	if err != nil {
		t.Fatalf("GetByFilename: %v", err)
	}
	if got.ID != second.ID || got.Text != "second pass." {
		t.Fatalf("got record %s %q, want the new generation", got.ID, got.Text)
	}

	var live int64
	if err := db.Model(&types.TranscriptRecord{}).Where("filename = ?", "talk.mp3").Count(&live).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if live != 1 {
		t.Fatalf("%d live records for talk.mp3, want 1", live)
	}
}

func TestUpsertByFilenameKeepsPriorOnFailure(t *testing.T) {
	db := openTestDB(t)
	repo := NewTranscriptRecordRepo(db, testLogger(t))
	ctx := context.Background()

	first := record(t, "talk.mp3", "first pass.")
	if _, err := repo.Create(ctx, nil, first); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// The soft-deleted row keeps its primary key, so reusing the id makes
	// the create step fail after the delete step succeeded.
	second := record(t, "talk.mp3", "second pass.")
	second.ID = first.ID
	if _, err := repo.UpsertByFilename(ctx, nil, second); err == nil {
		t.Fatalf("expected primary key conflict")
	}

	got, err := repo.GetByFilename(ctx, nil, "talk.mp3")
	if err != nil {
		t.Fatalf("prior generation lost after failed upsert: %v", err)
	}
	if got.ID != first.ID || got.Text != "first pass." {
		t.Fatalf("got record %s %q, want the prior generation intact", got.ID, got.Text)
	}
}

func TestGetByFilenameMissing(t *testing.T) {
	repo := NewTranscriptRecordRepo(openTestDB(t), testLogger(t))
	if _, err := repo.GetByFilename(context.Background(), nil, "nope.mp3"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("err = %v, want gorm.ErrRecordNotFound", err)
	}
}
