package pipeline

import (
	"testing"
	"time"
)

func TestStatsSnapshotPercentiles(t *testing.T) {
	stats := NewStats(time.Hour)
	stats.Record("parse", 100)
	stats.Record("parse", 200)
	stats.Record("parse", 300)
	stats.Record("parse", 400)
	stats.Record("parse", 500)

	snap := stats.Snapshot()["parse"]
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.MinMs != 100 {
		t.Fatalf("expected min=100, got %d", snap.MinMs)
	}
	if snap.MaxMs != 500 {
		t.Fatalf("expected max=500, got %d", snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
	if snap.P99Ms != 496 {
		t.Fatalf("expected p99=496, got %f", snap.P99Ms)
	}
}

func TestStatsStagesIsolated(t *testing.T) {
	stats := NewStats(time.Hour)
	stats.Record("parse", 10)
	stats.Record("score", 50)

	snap := stats.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected 2 stages, got %d", len(snap))
	}
	if snap["parse"].MaxMs != 10 || snap["score"].MaxMs != 50 {
		t.Errorf("stage samples mixed: %+v", snap)
	}
}

func TestStatsPrunesExpiredSamples(t *testing.T) {
	stats := NewStats(10 * time.Millisecond)
	stats.Record("segment", 100)
	time.Sleep(25 * time.Millisecond)

	if snap, ok := stats.Snapshot()["segment"]; ok {
		t.Fatalf("expected stage pruned after window, got %+v", snap)
	}

	stats.Record("segment", 200)
	snap := stats.Snapshot()["segment"]
	if snap.Count != 1 {
		t.Fatalf("expected count=1 for fresh sample, got %d", snap.Count)
	}
	if snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("expected min=max=200, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}

func TestStatsRecordClampsNegativeDuration(t *testing.T) {
	stats := NewStats(time.Hour)
	stats.Record("summarize", -10)
	snap := stats.Snapshot()["summarize"]
	if snap.Count != 1 {
		t.Fatalf("expected count=1, got %d", snap.Count)
	}
	if snap.MinMs != 0 || snap.MaxMs != 0 {
		t.Fatalf("expected clamped duration=0, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}
