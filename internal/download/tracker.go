package download

import (
	"sync"

	"github.com/google/uuid"

	"coursegrabber/internal/model"
)

// JobStatus is the aggregate view of one job plus its per-URL detail.
type JobStatus struct {
	Total       int                      `json:"total"`
	Completed   int                      `json:"completed"`
	Failed      int                      `json:"failed"`
	Downloading int                      `json:"downloading"`
	Overall     string                   `json:"status"`
	Progress    []model.DownloadProgress `json:"progress"`
}

// Tracker keeps the latest per-URL progress for each active job, keyed
// by the submitting project's id. It is purely in-memory; state is gone
// on restart.
type Tracker struct {
	mu   sync.Mutex
	jobs map[uuid.UUID][]model.DownloadProgress
}

func NewTracker() *Tracker {
	return &Tracker{jobs: make(map[uuid.UUID][]model.DownloadProgress)}
}

// Init starts tracking a job, replacing any prior state under the same
// id.
func (t *Tracker) Init(jobID uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.jobs[jobID] = []model.DownloadProgress{}
}

// Record upserts one URL's progress, last write wins. Records for jobs
// that are not tracked (cancelled, or never started) are dropped
// silently: a transfer that outlives its cancelled job still reports
// events, and those must go nowhere.
func (t *Tracker) Record(jobID uuid.UUID, p model.DownloadProgress) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entries, ok := t.jobs[jobID]
	if !ok {
		return
	}
	for i := range entries {
		if entries[i].URLID == p.URLID {
			entries[i] = p
			return
		}
	}
	t.jobs[jobID] = append(entries, p)
}

// Status computes the aggregate for a job. The bool reports whether the
// job is tracked at all.
func (t *Tracker) Status(jobID uuid.UUID) (JobStatus, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entries, ok := t.jobs[jobID]
	if !ok {
		return JobStatus{}, false
	}

	st := JobStatus{
		Total:    len(entries),
		Progress: append([]model.DownloadProgress(nil), entries...),
	}
	for _, p := range entries {
		switch p.Status {
		case model.StatusCompleted:
			st.Completed++
		case model.StatusFailed:
			st.Failed++
		case model.StatusDownloading:
			st.Downloading++
		}
	}

	switch {
	case st.Total == 0:
		st.Overall = "pending"
	case st.Downloading > 0:
		st.Overall = "downloading"
	case st.Completed == st.Total:
		st.Overall = "completed"
	case st.Failed == st.Total:
		st.Overall = "failed"
	default:
		st.Overall = "partial"
	}
	return st, true
}

// Clear drops all state for a job. Clearing an unknown job is a no-op.
func (t *Tracker) Clear(jobID uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.jobs, jobID)
}
