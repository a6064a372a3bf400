package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func findJob(items []ListItem, name string) *ListItem {
	for i := range items {
		if items[i].Name == name {
			return &items[i]
		}
	}
	return nil
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestRegisterAndList(t *testing.T) {
	s := New()
	s.Register(Job{Name: "a", Description: "job a", Interval: time.Hour, Fn: func(context.Context) error { return nil }})
	s.Register(Job{Name: "b", Interval: time.Hour, Fn: func(context.Context) error { return nil }})

	items := s.List()
	if len(items) != 2 {
		t.Fatalf("got %d jobs", len(items))
	}
	job := findJob(items, "a")
	if job == nil || job.Status != StatusIdle || job.Description != "job a" {
		t.Fatalf("job = %+v", job)
	}
}

func TestManualRun(t *testing.T) {
	var ran atomic.Int32
	s := New()
	s.Register(Job{Name: "ok", Interval: time.Hour, Fn: func(context.Context) error {
		ran.Add(1)
		return nil
	}})
	s.Register(Job{Name: "bad", Interval: time.Hour, Fn: func(context.Context) error {
		return errors.New("boom")
	}})

	if err := s.Run(context.Background(), "ok"); err != nil {
		t.Fatal(err)
	}
	if err := s.Run(context.Background(), "bad"); err != nil {
		t.Fatal(err)
	}
	if err := s.Run(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for unknown job")
	}

	waitFor(t, func() bool {
		ok := findJob(s.List(), "ok")
		bad := findJob(s.List(), "bad")
		return ok != nil && ok.Status == StatusFulfill &&
			bad != nil && bad.Status == StatusReject
	})
	if ran.Load() != 1 {
		t.Fatalf("ran %d times", ran.Load())
	}
}

func TestScheduledRun(t *testing.T) {
	var ran atomic.Int32
	s := New()
	s.Register(Job{Name: "tick", Interval: 20 * time.Millisecond, Fn: func(context.Context) error {
		ran.Add(1)
		return nil
	}})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)

	waitFor(t, func() bool { return ran.Load() >= 2 })
}
