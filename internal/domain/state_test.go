package domain

import (
	"errors"
	"testing"
)

func TestStateLifecycle(t *testing.T) {
	s := NewState()
	s.Enqueue(QueueItem{RequestID: 1, Title: "a"})
	s.Enqueue(QueueItem{RequestID: 2, Title: "b"})

	s.Apply(StartedRequest{RequestID: 1})
	if s.Phase().Kind != PhaseAnalyzing {
		t.Fatalf("expected analyzing, got %v", s.Phase().Kind)
	}
	if q := s.Queue(); len(q) != 1 || q[0].RequestID != 2 {
		t.Fatalf("expected started request removed from queue, got %+v", q)
	}

	s.Apply(TitleFound{Title: "ZIB 1"})
	if title, ok := s.Title(); !ok || title != "ZIB 1" {
		t.Fatalf("unexpected title %q", title)
	}

	s.Apply(StartedVideo{VideoNo: 1, TotalVideos: 3})
	s.Apply(Downloaded{Progress: 0.5})
	p := s.Phase()
	if p.Kind != PhaseDownloading || p.VideoNo != 1 || p.TotalVideos != 3 || p.Progress != 0.5 {
		t.Fatalf("unexpected phase %+v", p)
	}

	s.Apply(StartedVideo{VideoNo: 2, TotalVideos: 3})
	if s.Phase().Progress != 0 {
		t.Fatalf("expected progress reset on new video")
	}

	s.Apply(Merging{})
	if s.Phase().Kind != PhaseMerging {
		t.Fatalf("expected merging")
	}

	s.Apply(Finished{RequestID: 1, Path: "/tmp/x.mp4"})
	if s.LastFinished() != "/tmp/x.mp4" {
		t.Fatalf("expected last finished path")
	}

	s.Apply(Idle{})
	if s.Phase().Kind != PhaseIdle {
		t.Fatalf("expected idle")
	}
	if _, ok := s.Title(); ok {
		t.Fatalf("expected title cleared")
	}
}

func TestStateDownloadedIgnoredOutsideDownloading(t *testing.T) {
	s := NewState()
	s.Apply(StartedRequest{RequestID: 1})
	s.Apply(Downloaded{Progress: 0.7})
	if s.Phase().Kind != PhaseAnalyzing || s.Phase().Progress != 0 {
		t.Fatalf("expected Downloaded to be ignored, got %+v", s.Phase())
	}
}

func TestStateErrorClearedOnNextRequest(t *testing.T) {
	s := NewState()
	s.Apply(StartedRequest{RequestID: 1})
	s.Apply(StartedVideo{VideoNo: 1, TotalVideos: 1})
	s.Apply(Failed{Err: errors.New("boom")})

	if !s.HasError() {
		t.Fatalf("expected error")
	}
	if s.Phase().Kind != PhaseDownloading {
		t.Fatalf("expected phase unchanged on failure")
	}

	s.Apply(StartedRequest{RequestID: 1})
	if s.HasError() || s.Err() != nil {
		t.Fatalf("expected error cleared on retry")
	}
}

func TestStateRemoveMissingIsNoop(t *testing.T) {
	s := NewState()
	s.Enqueue(QueueItem{RequestID: 5})
	s.Remove(9)
	if s.QueueIsEmpty() {
		t.Fatalf("expected queue untouched")
	}
	s.Remove(5)
	if !s.QueueIsEmpty() {
		t.Fatalf("expected queue empty")
	}
}

func TestNewDownloadRequestAssignsIncreasingIDs(t *testing.T) {
	u, err := ParseOonURL("https://on.orf.at/video/1")
	if err != nil {
		t.Fatal(err)
	}
	a := NewDownloadRequest(u, QualityHigh, "/tmp")
	b := NewDownloadRequest(u, QualityLow, "/tmp")
	if b.ID <= a.ID {
		t.Fatalf("expected increasing ids, got %d then %d", a.ID, b.ID)
	}
	if a.QueueItem().Title != u.String() {
		t.Fatalf("expected queue item title to be the url")
	}
}
