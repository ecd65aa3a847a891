package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"llm-dashboard/internal/app/models"
	"llm-dashboard/internal/app/repositories"
)

func TestGenerateEmbeddings(t *testing.T) {
	f, api := newFakeRemote(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"embeddings":[[0.1,0.2],[0.3,0.4],[0.5,0.6]]}`)
	})
	repo := repositories.NewMemorySessionRepository()
	svc := NewEmbeddingService(api, repo)
	ctx := context.Background()

	got, err := svc.Generate(ctx, "s1", " hello world ", models.EmbeddingBERT)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	words := []string{"hello", "world", "Word 3"}
	if len(got) != len(words) {
		t.Fatalf("expected %d points, got %+v", len(words), got)
	}
	for i, w := range words {
		if got[i].Word != w {
			t.Fatalf("point %d: expected %q, got %q", i, w, got[i].Word)
		}
	}

	req := f.recorded()[0]
	if req.Path != "/embeddings/generate" {
		t.Fatalf("unexpected path %s", req.Path)
	}
	var body map[string]string
	_ = json.Unmarshal(req.Body, &body)
	if body["model"] != string(models.EmbeddingBERT) {
		t.Fatalf("unexpected body %s", req.Body)
	}

	sess, _ := repo.Get(ctx, "s1")
	if sess.EmbeddingModel != models.EmbeddingBERT || len(sess.Embeddings) != 3 {
		t.Fatalf("embeddings not recorded: %+v", sess)
	}
}

func TestGenerateEmbeddingsValidation(t *testing.T) {
	f, api := newFakeRemote(t, nil)
	svc := NewEmbeddingService(api, repositories.NewMemorySessionRepository())
	ctx := context.Background()

	if _, err := svc.Generate(ctx, "s1", "  ", ""); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
	if _, err := svc.Generate(ctx, "s1", "hello", models.EmbeddingModel("ELMo")); !errors.Is(err, ErrUnknownEmbeddingModel) {
		t.Fatalf("expected ErrUnknownEmbeddingModel, got %v", err)
	}
	if len(f.recorded()) != 0 {
		t.Fatalf("invalid input must not reach the remote")
	}
}

func TestVisualizeFewerWordsThanVectors(t *testing.T) {
	out := Visualize("one", [][]float64{{1}, {2}})
	if len(out) != 2 || out[0].Word != "one" || out[1].Word != "Word 2" {
		t.Fatalf("unexpected visualization %+v", out)
	}
}
