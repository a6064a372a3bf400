package generation

import (
	"context"
	"errors"
	"testing"

	"github.com/inkwell-app/core/internal/models"
)

func TestStartRejectsInvalidInput(t *testing.T) {
	docs := newFakeDocStore()
	svc := newTestService(docs, newFakeObjectStore(), scriptedCaller(new(int)))

	cases := []struct {
		name                    string
		prompt, docType, format string
	}{
		{"empty prompt", "   ", models.DocTypeBookSmall, models.FormatPDF},
		{"unknown type", "a topic", "novel", models.FormatPDF},
		{"bad format", "a topic", models.DocTypeBookSmall, "epub"},
	}
	for _, tc := range cases {
		_, _, err := svc.Start(context.Background(), "u1", tc.prompt, tc.docType, tc.format)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: err = %v, want ErrInvalidInput", tc.name, err)
		}
	}
}

func TestStartFailsRowWhenEnqueueFails(t *testing.T) {
	docs := newFakeDocStore()
	// newTestService points the task queue at an unreachable Redis, so
	// Enqueue always errors.
	svc := newTestService(docs, newFakeObjectStore(), scriptedCaller(new(int)))

	_, _, err := svc.Start(context.Background(), "u1", "a topic", models.DocTypeBookSmall, models.FormatPDF)
	if err == nil {
		t.Fatal("expected enqueue error")
	}
	if errors.Is(err, ErrInvalidInput) {
		t.Fatalf("enqueue failure reported as invalid input: %v", err)
	}

	got := docs.snapshot()
	if got.status != models.StatusFailed {
		t.Fatalf("status = %q, want failed", got.status)
	}
}
