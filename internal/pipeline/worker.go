package pipeline

import (
	"context"
	"log/slog"

	"github.com/dgallion1/docrank/internal/artifact"
)

// Worker processes collection jobs from the queue.
type Worker struct {
	analyzer  *Analyzer
	log       *slog.Logger
	artifacts *artifact.Writer // nil when no output dir is configured
}

func NewWorker(analyzer *Analyzer, log *slog.Logger, artifacts *artifact.Writer) *Worker {
	return &Worker{analyzer: analyzer, log: log, artifacts: artifacts}
}

// Process runs the full analysis for one job. Per-document decode
// failures are recorded in the result metadata, not fatal; a job only
// fails outright when the whole run cannot proceed.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "persona", job.Persona)

	job.SetStatus(StatusExtracting, "extracting")
	in := job.Input()

	result, err := w.analyzer.AnalyzeCollection(ctx, in)
	if err != nil {
		log.Error("analysis failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "scoring")
		return
	}

	job.SetResult(result)
	if w.artifacts != nil {
		if path, err := w.artifacts.WriteJSON(job.ID+".json", result); err != nil {
			log.Error("artifact write failed", "error", err)
		} else {
			log.Info("artifact written", "path", path)
		}
	}
	if len(result.Metadata.FailedDocuments) > 0 {
		for _, name := range result.Metadata.FailedDocuments {
			job.AddError("decode failed: " + name)
		}
		log.Info("job completed with failed documents",
			"failed", len(result.Metadata.FailedDocuments))
		job.SetStatus(StatusPartial, "done")
		return
	}

	log.Info("job completed", "ranked_sections", len(result.ExtractedSections))
	job.SetStatus(StatusCompleted, "done")
}
