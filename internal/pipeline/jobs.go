package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/dgallion1/docrank/internal/document"
)

// JobStatus represents the state of an analysis job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusExtracting JobStatus = "extracting"
	StatusScoring    JobStatus = "scoring"
	StatusCompleted  JobStatus = "completed"
	StatusPartial    JobStatus = "partial"
	StatusFailed     JobStatus = "failed"
)

// Job tracks the state of one collection analysis.
type Job struct {
	mu sync.Mutex

	ID      string    `json:"job_id"`
	Status  JobStatus `json:"status"`
	Phase   string    `json:"phase"`
	Persona string    `json:"persona"`
	JobText string    `json:"job_to_be_done"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	input  CollectionInput
	result *document.CollectionResult
	errors []string
}

// Progress tracks processing progress.
type Progress struct {
	TotalDocuments  int      `json:"total_documents"`
	FailedDocuments int      `json:"failed_documents"`
	RankedSections  int      `json:"ranked_sections"`
	Errors          []string `json:"errors"`
}

// NewJob creates a queued job for a collection input.
func NewJob(in CollectionInput) *Job {
	now := time.Now()
	return &Job{
		ID:      generateULID(),
		Status:  StatusQueued,
		Phase:   "queued",
		Persona: in.Persona,
		JobText: in.Job,
		Progress: Progress{
			TotalDocuments: len(in.Documents),
		},
		CreatedAt: now,
		UpdatedAt: now,
		input:     in,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetResult stores the finished record and progress counters.
func (j *Job) SetResult(r *document.CollectionResult) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = r
	j.Progress.FailedDocuments = len(r.Metadata.FailedDocuments)
	j.Progress.RankedSections = len(r.ExtractedSections)
	j.UpdatedAt = time.Now()
}

// Result returns the finished record, nil while processing.
func (j *Job) Result() *document.CollectionResult {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// Input returns the collection input for processing.
func (j *Job) Input() CollectionInput {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.input
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string    `json:"job_id"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Persona  string    `json:"persona"`
	Progress Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:      j.ID,
		Status:  j.Status,
		Phase:   j.Phase,
		Persona: j.Persona,
		Progress: Progress{
			TotalDocuments:  j.Progress.TotalDocuments,
			FailedDocuments: j.Progress.FailedDocuments,
			RankedSections:  j.Progress.RankedSections,
			Errors:          errs,
		},
	}
}

// ContentHashHex computes SHA-256 of content and returns a hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
