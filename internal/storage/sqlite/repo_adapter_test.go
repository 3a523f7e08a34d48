package sqlite

import (
	"context"
	"errors"
	"testing"

	"bizimport/internal/storage"
)

// Tests here replace the package-level hook and must not run in parallel.

func TestRegistrationUsesHook(t *testing.T) {
	orig := newRepository
	t.Cleanup(func() { newRepository = orig })

	var got Config
	closed := false
	fake := &Repository{}
	newRepository = func(ctx context.Context, cfg Config) (*Repository, func(), error) {
		got = cfg
		return fake, func() { closed = true }, nil
	}

	repo, err := storage.New(context.Background(), storage.Config{Kind: "sqlite", DSN: "a.db", Table: "business_info"})
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	if got.DSN != "a.db" || got.Table != "business_info" {
		t.Fatalf("hook cfg = %+v", got)
	}
	w, ok := repo.(*wrappedRepo)
	if !ok || w.Repository != fake {
		t.Fatalf("repo = %T", repo)
	}
	repo.Close()
	if !closed {
		t.Fatal("Close did not call cleanup")
	}
}

func TestRegistrationPropagatesError(t *testing.T) {
	orig := newRepository
	t.Cleanup(func() { newRepository = orig })

	want := errors.New("locked")
	newRepository = func(context.Context, Config) (*Repository, func(), error) { return nil, nil, want }

	if _, err := storage.New(context.Background(), storage.Config{Kind: "sqlite"}); !errors.Is(err, want) {
		t.Fatalf("err = %v, want %v", err, want)
	}
}
