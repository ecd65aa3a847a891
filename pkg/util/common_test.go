package util

import (
	"regexp"
	"testing"
	"time"
)

func TestUploadName(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	if got := UploadName("cat.png", now); got != "uploaded_1700000000123_cat.png" {
		t.Fatalf("unexpected name %q", got)
	}
}

func TestUploadNameStripsDirectories(t *testing.T) {
	got := UploadName("../../etc/passwd", time.Now())
	if !regexp.MustCompile(`^uploaded_\d+_passwd$`).MatchString(got) {
		t.Fatalf("unexpected name %q", got)
	}
}
