// Package service wires the extraction pipeline, the chat patch engine, and
// the shared BOQ store behind one façade used by the REST and MCP surfaces.
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/tamerhisham/autoboq/internal/run"
	"github.com/tamerhisham/autoboq/internal/store"
	"github.com/tamerhisham/autoboq/pkg/boq"
	"github.com/tamerhisham/autoboq/pkg/chat"
	apperrors "github.com/tamerhisham/autoboq/pkg/common/errors"
	"github.com/tamerhisham/autoboq/pkg/encode"
	"github.com/tamerhisham/autoboq/pkg/extract"
	"github.com/tamerhisham/autoboq/pkg/llm"
)

// FileInput is one uploaded drawing to analyze.
type FileInput struct {
	Name     string
	MIMEType string
	Reader   io.Reader
}

// AnalysisService owns the lifecycle of extraction runs and chat exchanges
// over a single BOQ store.
type AnalysisService struct {
	gen       llm.Generator
	store     *store.BOQStore
	runs      *run.Registry
	engine    *chat.Engine
	cfg       extract.Config
	simulated bool

	mu     sync.Mutex
	cancel context.CancelFunc

	chatMu sync.Mutex
}

// NewAnalysisService builds the façade. simulated marks a keyless deployment
// so runs announce simulation mode up front.
func NewAnalysisService(gen llm.Generator, sessions chat.SessionFactory, cfg extract.Config, simulated bool) *AnalysisService {
	return &AnalysisService{
		gen:       gen,
		store:     store.New(),
		runs:      run.NewRegistry(run.MaxFinishedRuns),
		engine:    chat.NewEngine(sessions),
		cfg:       cfg,
		simulated: simulated,
	}
}

// StartAnalysis encodes the uploaded files and launches the extraction
// protocol in the background, returning the run id for polling. An encoding
// failure is fatal: the run is recorded as failed before any model call.
func (s *AnalysisService) StartAnalysis(model boq.ModelName, files []FileInput) (run.View, error) {
	if !model.Valid() {
		return run.View{}, fmt.Errorf("%w: unknown model %q", apperrors.ErrInvalidInput, model)
	}
	if len(files) == 0 {
		return run.View{}, fmt.Errorf("%w: no files uploaded", apperrors.ErrInvalidInput)
	}

	if err := s.store.BeginRun(); err != nil {
		return run.View{}, err
	}
	r, err := s.runs.Start(model)
	if err != nil {
		s.store.EndRun()
		return run.View{}, err
	}

	log := func(entry boq.LogEntry) {
		r.AppendLog(entry)
		s.store.AppendLog(entry)
	}

	artifacts := make([]encode.Artifact, 0, len(files))
	for _, f := range files {
		art, encErr := encode.FromReader(f.Reader, f.Name, f.MIMEType)
		if encErr != nil {
			log(boq.LogEntry{Kind: boq.LogError, Message: "Critical System Failure.", Timestamp: time.Now()})
			s.runs.Finish(r, run.StatusError, encErr.Error())
			s.store.EndRun()
			return run.View{}, encErr
		}
		artifacts = append(artifacts, art)
	}

	if s.simulated {
		log(boq.LogEntry{Kind: boq.LogProcess, Message: "SIMULATION MODE: Processing modules sequentially...", Timestamp: time.Now()})
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	go s.execute(ctx, cancel, r, model, artifacts, log)

	return r.Snapshot(), nil
}

func (s *AnalysisService) execute(ctx context.Context, cancel context.CancelFunc, r *run.Run, model boq.ModelName, artifacts []encode.Artifact, log extract.LogFunc) {
	defer func() {
		cancel()
		s.mu.Lock()
		s.cancel = nil
		s.mu.Unlock()
		s.store.EndRun()
	}()

	orch := extract.New(s.gen, s.cfg)
	err := orch.Run(ctx, model, artifacts, log, func(moduleID int, items []boq.Item) {
		r.AddCompletion(moduleID, len(items))
		s.store.AppendItems(items)
	})
	if err != nil {
		slog.Error("extraction run failed", "run", r.ID, "err", err)
		s.runs.Finish(r, run.StatusError, err.Error())
		return
	}
	s.runs.Finish(r, run.StatusComplete, "")
}

// CancelActive aborts the in-flight run, if any. The loop stops at its next
// sleep or call boundary without emitting further completions.
func (s *AnalysisService) CancelActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel == nil {
		return false
	}
	s.cancel()
	return true
}

// Running reports whether an extraction run is in flight.
func (s *AnalysisService) Running() bool {
	return s.store.Running()
}

// Run returns a snapshot of the given run.
func (s *AnalysisService) Run(id string) (run.View, error) {
	r, ok := s.runs.Get(id)
	if !ok {
		return run.View{}, fmt.Errorf("%w: run %s", apperrors.ErrNotFound, id)
	}
	return r.Snapshot(), nil
}

// Items returns the accumulated BOQ.
func (s *AnalysisService) Items() []boq.Item {
	return s.store.Items()
}

// Logs returns the progress log of the latest run.
func (s *AnalysisService) Logs() []boq.LogEntry {
	return s.store.Logs()
}

// SetPrice records a unit price on one item.
func (s *AnalysisService) SetPrice(id int, price float64) error {
	return s.store.SetPrice(id, price)
}

// Catalog exposes the fixed module catalog.
func (s *AnalysisService) Catalog() []boq.Module {
	return boq.Catalog()
}

// Chat runs one conversational exchange against the current BOQ. Exchanges
// are serialized, and rejected while an extraction run owns the store.
func (s *AnalysisService) Chat(ctx context.Context, model boq.ModelName, message string) (chat.Result, error) {
	if !model.Valid() {
		return chat.Result{}, fmt.Errorf("%w: unknown model %q", apperrors.ErrInvalidInput, model)
	}
	if s.store.Running() {
		return chat.Result{}, apperrors.ErrRunActive
	}

	s.chatMu.Lock()
	defer s.chatMu.Unlock()

	result := s.engine.Submit(ctx, model, message, s.store.Items())
	if result.Updated {
		s.store.Replace(result.Items)
	}
	return result, nil
}
