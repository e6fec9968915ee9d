package storage

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSourceRepo_GetByCollection_NotFound(t *testing.T) {
	repo := NewSourceRepo(newTestDB(t))

	source, err := repo.GetByCollection(context.Background(), "personal_info")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByCollection() error = %v, want ErrNotFound", err)
	}
	if source != nil {
		t.Errorf("GetByCollection() = %+v, want nil", source)
	}
}

func TestSourceRepo_Upsert(t *testing.T) {
	ctx := context.Background()
	repo := NewSourceRepo(newTestDB(t))

	first := &SourceRecord{
		Collection: "personal_info",
		Path:       "aboutme.txt",
		Name:       "aboutme.txt",
		Hash:       "hash-1",
		ChunkCount: 3,
	}
	if err := repo.Upsert(ctx, first); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if first.IngestedAt.IsZero() {
		t.Error("Upsert() should set IngestedAt")
	}

	got, err := repo.GetByCollection(ctx, "personal_info")
	if err != nil {
		t.Fatalf("GetByCollection() error = %v", err)
	}
	if got.Hash != "hash-1" || got.ChunkCount != 3 || got.Name != "aboutme.txt" {
		t.Errorf("GetByCollection() = %+v", got)
	}
	if !got.IngestedAt.Equal(first.IngestedAt) {
		t.Errorf("IngestedAt = %v, want %v", got.IngestedAt, first.IngestedAt)
	}

	second := &SourceRecord{
		Collection: "personal_info",
		Path:       "docs/me.md",
		Name:       "me.md",
		Hash:       "hash-2",
		ChunkCount: 5,
		IngestedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	if err := repo.Upsert(ctx, second); err != nil {
		t.Fatalf("Upsert() second error = %v", err)
	}

	got, err = repo.GetByCollection(ctx, "personal_info")
	if err != nil {
		t.Fatalf("GetByCollection() error = %v", err)
	}
	if got.Path != "docs/me.md" || got.Hash != "hash-2" || got.ChunkCount != 5 {
		t.Errorf("GetByCollection() after update = %+v", got)
	}
	if !got.IngestedAt.Equal(second.IngestedAt) {
		t.Errorf("IngestedAt = %v, want %v", got.IngestedAt, second.IngestedAt)
	}
}
