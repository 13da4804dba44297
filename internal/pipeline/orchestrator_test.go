package pipeline

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgallion1/docrank/internal/config"
)

func testOrchestrator(t *testing.T, queueSize int) *Orchestrator {
	t.Helper()
	cfg := config.Config{
		WorkerCount:  2,
		MaxQueueSize: queueSize,
		JobTTL:       time.Hour,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewOrchestrator(cfg, testAnalyzer(t), log)
}

func waitForJob(t *testing.T, o *Orchestrator, id string) *Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job := o.GetJob(id)
		switch job.Snapshot().Status {
		case StatusCompleted, StatusPartial, StatusFailed:
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish in time", id)
	return nil
}

func TestOrchestrator_ProcessesQueuedJob(t *testing.T) {
	o := testOrchestrator(t, 10)
	o.Start(context.Background())
	defer o.Stop()

	job := NewJob(revenueInput())
	if err := o.Submit(job); err != nil {
		t.Fatalf("submit: %v", err)
	}

	done := waitForJob(t, o, job.ID)
	// One document in the fixture set is undecodable, so the job lands
	// in partial rather than completed.
	if got := done.Snapshot().Status; got != StatusPartial {
		t.Fatalf("expected partial status, got %s", got)
	}
	result := done.Result()
	if result == nil {
		t.Fatalf("expected a stored result")
	}
	if len(result.ExtractedSections) == 0 {
		t.Errorf("expected ranked sections in the result")
	}
	if done.Snapshot().Progress.FailedDocuments != 1 {
		t.Errorf("expected 1 failed document, got %d", done.Snapshot().Progress.FailedDocuments)
	}
}

func TestOrchestrator_CleanInputCompletes(t *testing.T) {
	o := testOrchestrator(t, 10)
	o.Start(context.Background())
	defer o.Stop()

	in := revenueInput()
	in.Documents = in.Documents[:2] // drop the undecodable fixture

	job := NewJob(in)
	if err := o.Submit(job); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := waitForJob(t, o, job.ID).Snapshot().Status; got != StatusCompleted {
		t.Fatalf("expected completed status, got %s", got)
	}
}

func TestOrchestrator_WritesArtifactWhenConfigured(t *testing.T) {
	outDir := t.TempDir()
	cfg := config.Config{
		WorkerCount:  1,
		MaxQueueSize: 10,
		JobTTL:       time.Hour,
		OutputDir:    outDir,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	o := NewOrchestrator(cfg, testAnalyzer(t), log)
	o.Start(context.Background())
	defer o.Stop()

	job := NewJob(revenueInput())
	if err := o.Submit(job); err != nil {
		t.Fatalf("submit: %v", err)
	}
	waitForJob(t, o, job.ID)

	if _, err := os.Stat(filepath.Join(outDir, job.ID+".json")); err != nil {
		t.Errorf("expected result artifact on disk: %v", err)
	}
}

func TestOrchestrator_QueueFull(t *testing.T) {
	// No workers started, so the queue never drains.
	o := testOrchestrator(t, 1)

	first := NewJob(revenueInput())
	if err := o.Submit(first); err != nil {
		t.Fatalf("first submit should fit the queue: %v", err)
	}

	second := NewJob(revenueInput())
	if err := o.Submit(second); err == nil {
		t.Fatalf("expected queue-full error")
	}
	if got := second.Snapshot().Status; got != StatusFailed {
		t.Errorf("expected rejected job marked failed, got %s", got)
	}
	// The rejected job stays queryable so clients see the failure.
	if o.GetJob(second.ID) == nil {
		t.Errorf("expected rejected job retrievable by id")
	}
}
