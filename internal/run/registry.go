// Package run tracks extraction runs: the single active run plus a bounded
// history of finished ones for status polling.
package run

import (
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tamerhisham/autoboq/pkg/boq"
	apperrors "github.com/tamerhisham/autoboq/pkg/common/errors"
)

// Status of an extraction run.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusComplete   Status = "complete"
	StatusError      Status = "error"

	// MaxFinishedRuns bounds the retained history.
	MaxFinishedRuns = 32
)

// Completion records one module's outcome within a run. Items themselves go
// to the BOQ store; the run only keeps the per-module tally for progress.
type Completion struct {
	ModuleID  int `json:"moduleId"`
	ItemCount int `json:"itemCount"`
}

// Run is the mutable record of one extraction run.
type Run struct {
	ID         string        `json:"id"`
	Model      boq.ModelName `json:"model"`
	StartedAt  time.Time     `json:"startedAt"`
	FinishedAt *time.Time    `json:"finishedAt,omitempty"`

	mu          sync.Mutex
	status      Status
	failure     string
	logs        []boq.LogEntry
	completions []Completion
}

// AppendLog records one progress event on the run.
func (r *Run) AppendLog(entry boq.LogEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, entry)
}

// AddCompletion records a module completion.
func (r *Run) AddCompletion(moduleID, itemCount int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completions = append(r.completions, Completion{ModuleID: moduleID, ItemCount: itemCount})
}

func (r *Run) finish(status Status, failure string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = status
	r.failure = failure
	r.FinishedAt = &at
}

// View is an immutable snapshot of a run, safe to serialize.
type View struct {
	ID          string         `json:"id"`
	Model       boq.ModelName  `json:"model"`
	Status      Status         `json:"status"`
	Failure     string         `json:"failure,omitempty"`
	StartedAt   time.Time      `json:"startedAt"`
	FinishedAt  *time.Time     `json:"finishedAt,omitempty"`
	Logs        []boq.LogEntry `json:"logs"`
	Completions []Completion   `json:"completions"`
}

// Snapshot copies the run's current state.
func (r *Run) Snapshot() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := View{
		ID:          r.ID,
		Model:       r.Model,
		Status:      r.status,
		Failure:     r.failure,
		StartedAt:   r.StartedAt,
		FinishedAt:  r.FinishedAt,
		Logs:        make([]boq.LogEntry, len(r.logs)),
		Completions: make([]Completion, len(r.completions)),
	}
	copy(v.Logs, r.logs)
	copy(v.Completions, r.completions)
	return v
}

// Registry hands out run records and keeps finished ones in an LRU so old
// runs age out instead of growing without bound.
type Registry struct {
	mu       sync.Mutex
	active   *Run
	finished *lru.Cache[string, *Run]
}

// NewRegistry creates a Registry retaining up to capacity finished runs.
func NewRegistry(capacity int) *Registry {
	if capacity <= 0 {
		capacity = MaxFinishedRuns
	}
	cache, _ := lru.New[string, *Run](capacity)
	return &Registry{finished: cache}
}

// Start opens a new active run. Only one run may be active at a time.
func (reg *Registry) Start(model boq.ModelName) (*Run, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.active != nil {
		return nil, apperrors.ErrRunActive
	}
	r := &Run{
		ID:        uuid.NewString(),
		Model:     model,
		StartedAt: time.Now(),
		status:    StatusProcessing,
	}
	reg.active = r
	return r, nil
}

// Finish closes the active run with the given outcome and moves it to the
// finished history.
func (reg *Registry) Finish(r *Run, status Status, failure string) {
	r.finish(status, failure, time.Now())
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.active == r {
		reg.active = nil
	}
	reg.finished.Add(r.ID, r)
}

// Get looks up a run by id, active or finished.
func (reg *Registry) Get(id string) (*Run, bool) {
	reg.mu.Lock()
	active := reg.active
	reg.mu.Unlock()
	if active != nil && active.ID == id {
		return active, true
	}
	return reg.finished.Get(id)
}

// Active returns the currently running extraction, if any.
func (reg *Registry) Active() (*Run, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return reg.active, reg.active != nil
}
