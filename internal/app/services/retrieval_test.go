package services

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"llm-dashboard/internal/app/repositories"
)

func TestRetrieveStoresURL(t *testing.T) {
	f, api := newFakeRemote(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"url":"https://cdn.example.com/F/X.png"}`)
	})
	repo := repositories.NewMemorySessionRepository()
	svc := NewRetrievalService(api, repo)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		url, err := svc.Retrieve(ctx, "s1", "F", "X")
		if err != nil {
			t.Fatalf("retrieve: %v", err)
		}
		if url != "https://cdn.example.com/F/X.png" {
			t.Fatalf("unexpected url %q", url)
		}
	}
	reqs := f.recorded()
	if len(reqs) != 2 {
		t.Fatalf("every retrieve must hit the remote, got %d requests", len(reqs))
	}
	if reqs[0].Path != "/retrieve/retrieve/F/X" {
		t.Fatalf("unexpected path %s", reqs[0].Path)
	}
	sess, _ := repo.Get(ctx, "s1")
	if sess.RetrievedFileURL != "https://cdn.example.com/F/X.png" {
		t.Fatalf("url not stored: %q", sess.RetrievedFileURL)
	}
}

func TestRetrieveFailureKeepsPreviousURL(t *testing.T) {
	var fail atomic.Bool
	_, api := newFakeRemote(t, func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			writeJSON(w, http.StatusNotFound, `{"error":"not found"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"url":"https://cdn.example.com/a.png"}`)
	})
	repo := repositories.NewMemorySessionRepository()
	svc := NewRetrievalService(api, repo)
	ctx := context.Background()

	if _, err := svc.Retrieve(ctx, "s1", "F", "a"); err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	fail.Store(true)
	if _, err := svc.Retrieve(ctx, "s1", "F", "missing"); !errors.Is(err, ErrRetrieveFailed) {
		t.Fatalf("expected ErrRetrieveFailed, got %v", err)
	}
	sess, _ := repo.Get(ctx, "s1")
	if sess.RetrievedFileURL != "https://cdn.example.com/a.png" {
		t.Fatalf("failed retrieve must keep previous url, got %q", sess.RetrievedFileURL)
	}
}

func TestRetrieveRejectsParentSegment(t *testing.T) {
	f, api := newFakeRemote(t, nil)
	svc := NewRetrievalService(api, repositories.NewMemorySessionRepository())
	_, err := svc.Retrieve(context.Background(), "s1", "..", "..")
	if !errors.Is(err, ErrRetrieveFailed) || !errors.Is(err, ErrInvalidTitle) {
		t.Fatalf("expected ErrRetrieveFailed wrapping ErrInvalidTitle, got %v", err)
	}
	if len(f.recorded()) != 0 {
		t.Fatalf("no request expected")
	}
}
