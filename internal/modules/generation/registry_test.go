package generation

import (
	"context"
	"testing"
)

func TestRegistryCancel(t *testing.T) {
	r := newRunRegistry()
	ctx := r.register(context.Background(), "d1")

	if ctx.Err() != nil {
		t.Fatal("fresh context already done")
	}
	if !r.cancel("d1") {
		t.Fatal("cancel reported no run")
	}
	if ctx.Err() == nil {
		t.Fatal("context not cancelled")
	}
}

func TestRegistryCancelUnknown(t *testing.T) {
	r := newRunRegistry()
	if r.cancel("nope") {
		t.Fatal("cancel reported a run that was never registered")
	}
}

func TestRegistryRelease(t *testing.T) {
	r := newRunRegistry()
	ctx := r.register(context.Background(), "d1")
	r.release("d1")

	if ctx.Err() == nil {
		t.Fatal("release should cancel the context")
	}
	if r.cancel("d1") {
		t.Fatal("run still registered after release")
	}
	// Double release is a no-op.
	r.release("d1")
}
