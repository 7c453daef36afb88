// Package extract drives the sequential multi-module extraction protocol:
// one generative call per catalog phase, with rate-limit cooling between
// phases, a bounded retry budget per call, strict response validation, and
// orchestrator-owned id assignment across the whole run.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tamerhisham/autoboq/pkg/boq"
	"github.com/tamerhisham/autoboq/pkg/encode"
	"github.com/tamerhisham/autoboq/pkg/llm"
	"github.com/tamerhisham/autoboq/pkg/prompt"
)

// LogFunc receives progress events, invoked synchronously from the run loop.
type LogFunc func(boq.LogEntry)

// CompleteFunc receives exactly one completion per module, in catalog
// order. items may be empty for skipped or fruitless modules.
type CompleteFunc func(moduleID int, items []boq.Item)

// Config tunes the run loop. Zero values fall back to the protocol defaults;
// tests shrink the delays and pin the clock.
type Config struct {
	// Catalog is the ordered phase list; defaults to boq.Catalog().
	Catalog []boq.Module
	// Cooling is the unconditional pause before every module but the first.
	Cooling time.Duration
	// MaxAttempts is the total call budget per module.
	MaxAttempts int
	// BackoffBase seeds the exponential rate-limit backoff (2^attempt * base).
	BackoffBase time.Duration
	// RetryDelay is the flat wait after a non-rate-limit failure.
	RetryDelay time.Duration

	// Now and Sleep are injectable for tests.
	Now   func() time.Time
	Sleep func(context.Context, time.Duration) error
}

// DefaultConfig returns the production protocol timings.
func DefaultConfig() Config {
	return Config{
		Catalog:     boq.Catalog(),
		Cooling:     4 * time.Second,
		MaxAttempts: 3,
		BackoffBase: 4 * time.Second,
		RetryDelay:  2 * time.Second,
	}
}

// Orchestrator runs the extraction protocol against a Generator. It holds
// no BOQ state between runs; accumulated items belong to the caller.
type Orchestrator struct {
	gen     llm.Generator
	catalog []boq.Module
	cooling time.Duration
	policy  retryPolicy
	now     func() time.Time
	sleep   func(context.Context, time.Duration) error
}

// New creates an Orchestrator, filling unset config fields with defaults.
func New(gen llm.Generator, cfg Config) *Orchestrator {
	def := DefaultConfig()
	if cfg.Catalog == nil {
		cfg.Catalog = def.Catalog
	}
	if cfg.Cooling == 0 {
		cfg.Cooling = def.Cooling
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.BackoffBase == 0 {
		cfg.BackoffBase = def.BackoffBase
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = def.RetryDelay
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Sleep == nil {
		cfg.Sleep = sleepCtx
	}
	return &Orchestrator{
		gen:     gen,
		catalog: cfg.Catalog,
		cooling: cfg.Cooling,
		policy: retryPolicy{
			maxAttempts: cfg.MaxAttempts,
			backoffBase: cfg.BackoffBase,
			otherDelay:  cfg.RetryDelay,
		},
		now:   cfg.Now,
		sleep: cfg.Sleep,
	}
}

// Run executes the full protocol: every catalog module in order, one
// completion event each, then a final success log. Per-module failures
// degrade to empty completions and never abort the run; only a pre-loop
// misconfiguration or context cancellation returns an error. Partial
// results already delivered through onComplete remain valid either way.
func (o *Orchestrator) Run(ctx context.Context, model boq.ModelName, artifacts []encode.Artifact, onLog LogFunc, onComplete CompleteFunc) error {
	if len(o.catalog) == 0 {
		o.log(onLog, boq.LogError, "Critical System Failure.")
		return fmt.Errorf("extraction catalog is empty")
	}
	if !model.Valid() {
		o.log(onLog, boq.LogError, "Critical System Failure.")
		return fmt.Errorf("unknown model %q", model)
	}

	o.log(onLog, boq.LogProcess, fmt.Sprintf("INITIALIZING DYNAMIC INTELLIGENCE PROTOCOL (Model: %s)...", model))

	cursor := 1
	for i, module := range o.catalog {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Unconditional pause between phases. This is quota management,
		// not error reaction: it runs even on a fast successful protocol.
		if i > 0 {
			o.log(onLog, boq.LogThought, fmt.Sprintf("Cooling down for rate limits (%ds)...", int(o.cooling/time.Second)))
			if err := o.sleep(ctx, o.cooling); err != nil {
				return err
			}
		}

		o.log(onLog, boq.LogProcess, fmt.Sprintf(">>> [SEQUENTIAL PROTOCOL] ACTIVATING MODULE: %s", module.Title))

		req := llm.Request{
			Model:     model,
			Module:    module,
			Artifacts: artifacts,
			Prompt:    prompt.Extraction(module, cursor),
		}

		text, called, err := o.callWithRetry(ctx, req, module, onLog)
		if err != nil {
			return err
		}

		items := o.resolveItems(text, called, module, onLog)
		if n := len(items); n > 0 {
			// Re-base ids from the running cursor no matter what the model
			// returned; models routinely restart counting at 1.
			for j := range items {
				items[j].ID = cursor + j
				items[j].Category = module.ArabicTitle
			}
			cursor += n
			o.log(onLog, boq.LogSuccess, fmt.Sprintf("Analysis Complete for %s: Extracted %d items.", module.Title, n))
		}
		onComplete(module.ID, items)
	}

	o.log(onLog, boq.LogSuccess, "PROTOCOL COMPLETE: All modules processed successfully.")
	return nil
}

// callWithRetry drives one module's attempt budget. called is false when the
// budget was exhausted; a non-nil error only ever means cancellation.
func (o *Orchestrator) callWithRetry(ctx context.Context, req llm.Request, module boq.Module, onLog LogFunc) (text string, called bool, err error) {
	attempt := 0
	for {
		if err := ctx.Err(); err != nil {
			return "", false, err
		}

		text, genErr := o.gen.Generate(ctx, req)
		if genErr == nil {
			return text, true, nil
		}
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}

		attempt++
		d := o.policy.decide(attempt, genErr)
		if !d.retry {
			slog.Error("module exhausted retry budget", "module", module.Title, "attempts", attempt, "err", genErr)
			o.log(onLog, boq.LogError, fmt.Sprintf("Failed to process %s after multiple attempts. Skipping...", module.Title))
			return "", false, nil
		}
		if d.rateLimited {
			o.log(onLog, boq.LogError, fmt.Sprintf("Rate limit hit (429). Retrying in %ds...", int(d.wait/time.Second)))
		} else {
			slog.Warn("module call failed, retrying", "module", module.Title, "attempt", attempt, "err", genErr)
		}
		if err := o.sleep(ctx, d.wait); err != nil {
			return "", false, err
		}
	}
}

// resolveItems maps a call outcome to the module's item list, emitting the
// appropriate log. Parse and shape failures degrade to zero items.
func (o *Orchestrator) resolveItems(text string, called bool, module boq.Module, onLog LogFunc) []boq.Item {
	if !called {
		return nil
	}
	items, err := decodeItems(text)
	if err != nil {
		slog.Warn("unusable module response", "module", module.Title, "err", err)
		o.log(onLog, boq.LogError, fmt.Sprintf("Failed to parse AI response for %s.", module.Title))
		return nil
	}
	if len(items) == 0 {
		o.log(onLog, boq.LogThought, fmt.Sprintf("No items found relevant to %s.", module.Title))
		return nil
	}
	return items
}

func (o *Orchestrator) log(onLog LogFunc, kind boq.LogKind, msg string) {
	if onLog == nil {
		return
	}
	onLog(boq.LogEntry{Kind: kind, Message: msg, Timestamp: o.now()})
}

// sleepCtx blocks for d or until ctx is cancelled. Blocks only the run's
// goroutine, never the hosting process.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
