package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/genpass/genpass-go/internal/model"
)

func TestNewEventRepository(t *testing.T) {
	repo := NewEventRepository(nil)
	if repo == nil {
		t.Fatal("expected non-nil EventRepository")
	}
	if repo.db != nil {
		t.Fatal("expected nil db when constructed with nil")
	}
}

func TestEventRepository_NoDatabase(t *testing.T) {
	repo := NewEventRepository(nil)
	ctx := context.Background()

	event := &model.GenerationEvent{Preset: "segmented"}
	if err := repo.Insert(ctx, event); !errors.Is(err, ErrNoDatabase) {
		t.Errorf("Insert() error = %v, want ErrNoDatabase", err)
	}
	if event.ID != "" {
		t.Error("Insert() should not assign an ID when it cannot store the event")
	}

	if _, err := repo.StatsSince(ctx, time.Now()); !errors.Is(err, ErrNoDatabase) {
		t.Errorf("StatsSince() error = %v, want ErrNoDatabase", err)
	}
}

func TestSentinelErrors(t *testing.T) {
	if ErrNoDatabase.Error() != "event store has no database" {
		t.Fatalf("unexpected error message: %s", ErrNoDatabase.Error())
	}
}
