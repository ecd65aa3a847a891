package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"llm-dashboard/internal/app/models"
	"llm-dashboard/internal/app/repositories"
	"llm-dashboard/internal/pkg/code"
)

func TestUploadChatFileRenamesAndRecords(t *testing.T) {
	f, api := newFakeRemote(t, nil)
	repo := repositories.NewMemorySessionRepository()
	svc := NewFileTransferService(api, repo)
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	ctx := context.Background()

	res, err := svc.UploadChatFile(ctx, "s1", &models.UploadFile{Name: "report.pdf", Reader: strings.NewReader("x")})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	const want = "uploaded_1700000000000_report.pdf"
	if res.NewFileName != want || res.FileName != "report.pdf" {
		t.Fatalf("unexpected result %+v", res)
	}
	if got := f.recorded()[0].Form[uploadNameField]; len(got) != 1 || got[0] != want {
		t.Fatalf("unexpected newFileName %v", got)
	}
	sess, _ := repo.Get(ctx, "s1")
	if len(sess.Messages) != 1 || sess.Messages[0] != (models.Message{Sender: models.SenderUser, Content: "Uploaded file: " + want}) {
		t.Fatalf("unexpected messages %+v", sess.Messages)
	}
}

func TestUploadChatFileFailure(t *testing.T) {
	_, api := newFakeRemote(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusRequestEntityTooLarge, `{}`)
	})
	repo := repositories.NewMemorySessionRepository()
	svc := NewFileTransferService(api, repo)
	ctx := context.Background()

	if _, err := svc.UploadChatFile(ctx, "s1", &models.UploadFile{Name: "big.bin", Reader: strings.NewReader("x")}); err == nil {
		t.Fatalf("expected upload error")
	}
	sess, _ := repo.Get(ctx, "s1")
	if len(sess.Messages) != 1 || sess.Messages[0] != (models.Message{Sender: models.SenderBot, Content: code.MsgUploadErr}) {
		t.Fatalf("unexpected messages %+v", sess.Messages)
	}
}

func TestUploadWithoutFile(t *testing.T) {
	f, api := newFakeRemote(t, nil)
	svc := NewFileTransferService(api, repositories.NewMemorySessionRepository())
	if _, err := svc.UploadChatFile(context.Background(), "s1", nil); !errors.Is(err, ErrNoFileChosen) {
		t.Fatalf("expected ErrNoFileChosen, got %v", err)
	}
	if _, err := svc.UploadTrainingFile(context.Background(), "s1", nil); !errors.Is(err, ErrNoFileChosen) {
		t.Fatalf("expected ErrNoFileChosen, got %v", err)
	}
	if len(f.recorded()) != 0 {
		t.Fatalf("no request expected without a file")
	}
}

func TestUploadTrainingFile(t *testing.T) {
	f, api := newFakeRemote(t, nil)
	repo := repositories.NewMemorySessionRepository()
	svc := NewFileTransferService(api, repo)
	ctx := context.Background()

	tf, err := svc.UploadTrainingFile(ctx, "s1", &models.UploadFile{Name: "train.jsonl", Reader: strings.NewReader("{}")})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !tf.Uploaded || tf.Name != "train.jsonl" {
		t.Fatalf("unexpected training file %+v", tf)
	}
	if _, ok := f.recorded()[0].Form[uploadNameField]; ok {
		t.Fatalf("training upload must not rename")
	}
	sess, _ := repo.Get(ctx, "s1")
	if len(sess.Messages) != 0 {
		t.Fatalf("training upload must not touch the message log, got %+v", sess.Messages)
	}
	if sess.TrainingFile == nil || !sess.TrainingFile.Uploaded {
		t.Fatalf("training file not recorded: %+v", sess.TrainingFile)
	}
}

func TestUploadTrainingFileFailureIsRecorded(t *testing.T) {
	_, api := newFakeRemote(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, `{}`)
	})
	repo := repositories.NewMemorySessionRepository()
	svc := NewFileTransferService(api, repo)
	ctx := context.Background()

	tf, err := svc.UploadTrainingFile(ctx, "s1", &models.UploadFile{Name: "train.jsonl", Reader: strings.NewReader("{}")})
	if err == nil {
		t.Fatalf("expected upload error")
	}
	if tf == nil || tf.Uploaded || tf.UploadError == "" {
		t.Fatalf("unexpected training file %+v", tf)
	}
	sess, _ := repo.Get(ctx, "s1")
	if sess.TrainingFile == nil || sess.TrainingFile.Uploaded {
		t.Fatalf("failed upload must be recorded, got %+v", sess.TrainingFile)
	}
}
