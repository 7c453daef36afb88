package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"

	"github.com/tamerhisham/autoboq/pkg/boq"
	"github.com/tamerhisham/autoboq/pkg/llm"
)

type reply struct {
	text string
	err  error
}

// scriptedGen plays back canned replies per module id, in order.
type scriptedGen struct {
	replies map[int][]reply
	calls   int
}

func (g *scriptedGen) Generate(ctx context.Context, req llm.Request) (string, error) {
	g.calls++
	queue := g.replies[req.Module.ID]
	if len(queue) == 0 {
		return "", fmt.Errorf("unexpected call for module %d", req.Module.ID)
	}
	next := queue[0]
	g.replies[req.Module.ID] = queue[1:]
	return next.text, next.err
}

type completion struct {
	moduleID int
	items    []boq.Item
}

type harness struct {
	logs        []boq.LogEntry
	completions []completion
	sleeps      []time.Duration
}

func (h *harness) config(catalog []boq.Module) Config {
	return Config{
		Catalog: catalog,
		Now:     func() time.Time { return time.Unix(1700000000, 0) },
		Sleep: func(ctx context.Context, d time.Duration) error {
			h.sleeps = append(h.sleeps, d)
			return ctx.Err()
		},
	}
}

func (h *harness) onLog(entry boq.LogEntry) {
	h.logs = append(h.logs, entry)
}

func (h *harness) onComplete(moduleID int, items []boq.Item) {
	h.completions = append(h.completions, completion{moduleID: moduleID, items: items})
}

func (h *harness) logMessages(kind boq.LogKind) []string {
	var out []string
	for _, l := range h.logs {
		if l.Kind == kind {
			out = append(out, l.Message)
		}
	}
	return out
}

func itemsJSON(t *testing.T, ids ...int) string {
	t.Helper()
	items := make([]boq.Item, 0, len(ids))
	for _, id := range ids {
		items = append(items, boq.Item{
			ID:          id,
			Description: fmt.Sprintf("item-%d", id),
			Unit:        "m2",
			Count:       1,
			Total:       float64(id),
			Confidence:  boq.Confidence{Overall: 0.9, CountAccuracy: 0.9, DimensionExtraction: 0.9},
		})
	}
	raw, err := json.Marshal(map[string][]boq.Item{"items": items})
	assert.NoError(t, err)
	return string(raw)
}

func twoModuleCatalog() []boq.Module {
	return []boq.Module{
		{ID: 1, Title: "A", ArabicTitle: "أ", Instructions: "phase a"},
		{ID: 2, Title: "B", ArabicTitle: "ب", Instructions: "phase b"},
	}
}

func TestRunAllModulesSucceed(t *testing.T) {
	h := &harness{}
	catalog := boq.Catalog()
	gen := &scriptedGen{replies: map[int][]reply{}}
	for _, m := range catalog {
		// The model keeps restarting its ids at 1; re-basing must not care.
		gen.replies[m.ID] = []reply{{text: itemsJSON(t, 1, 2)}}
	}

	orch := New(gen, h.config(catalog))
	err := orch.Run(context.Background(), boq.ModelFlashLatest, nil, h.onLog, h.onComplete)
	assert.NoError(t, err)

	// One completion per module, in ascending catalog order.
	assert.Len(t, h.completions, len(catalog))
	for i, c := range h.completions {
		assert.Equal(t, catalog[i].ID, c.moduleID)
	}

	// Ids across the whole run are a strictly increasing sequence with no
	// gaps, regardless of the ids the model supplied.
	next := 1
	for _, c := range h.completions {
		for _, it := range c.items {
			assert.Equal(t, next, it.ID)
			next++
		}
	}
	assert.Equal(t, 2*len(catalog)+1, next)

	// Categories are normalized to the owning module's localized title.
	for i, c := range h.completions {
		for _, it := range c.items {
			assert.Equal(t, catalog[i].ArabicTitle, it.Category)
		}
	}

	// Cooling before every module except the first.
	assert.Len(t, h.sleeps, len(catalog)-1)
	for _, d := range h.sleeps {
		assert.Equal(t, 4*time.Second, d)
	}

	successes := h.logMessages(boq.LogSuccess)
	assert.Equal(t, "PROTOCOL COMPLETE: All modules processed successfully.", successes[len(successes)-1])
}

func TestRunRateLimitedModuleSkipped(t *testing.T) {
	h := &harness{}
	rateErr := &googleapi.Error{Code: 429, Message: "RESOURCE_EXHAUSTED"}
	gen := &scriptedGen{replies: map[int][]reply{
		1: {{text: itemsJSON(t, 7, 8, 9)}},
		2: {{err: rateErr}, {err: rateErr}, {err: rateErr}},
	}}

	orch := New(gen, h.config(twoModuleCatalog()))
	err := orch.Run(context.Background(), boq.ModelFlashLatest, nil, h.onLog, h.onComplete)
	assert.NoError(t, err)

	// Module 1 re-based to 1,2,3; module 2 exhausted its budget → empty.
	assert.Len(t, h.completions, 2)
	assert.Len(t, h.completions[0].items, 3)
	assert.Equal(t, 1, h.completions[0].items[0].ID)
	assert.Equal(t, 3, h.completions[0].items[2].ID)
	assert.Equal(t, 2, h.completions[1].moduleID)
	assert.Empty(t, h.completions[1].items)

	// Cooling 4s, then exponential backoff 8s and 16s before giving up.
	assert.Equal(t, []time.Duration{4 * time.Second, 8 * time.Second, 16 * time.Second}, h.sleeps)

	errs := h.logMessages(boq.LogError)
	assert.Contains(t, errs, "Rate limit hit (429). Retrying in 8s...")
	assert.Contains(t, errs, "Rate limit hit (429). Retrying in 16s...")
	assert.Contains(t, errs, "Failed to process B after multiple attempts. Skipping...")

	successes := h.logMessages(boq.LogSuccess)
	assert.Equal(t, "PROTOCOL COMPLETE: All modules processed successfully.", successes[len(successes)-1])
}

func TestRunParseFailureDegrades(t *testing.T) {
	h := &harness{}
	gen := &scriptedGen{replies: map[int][]reply{
		1: {{text: "sorry, I can only answer in prose"}},
		2: {{text: itemsJSON(t, 1)}},
	}}

	orch := New(gen, h.config(twoModuleCatalog()))
	err := orch.Run(context.Background(), boq.ModelFlashLatest, nil, h.onLog, h.onComplete)
	assert.NoError(t, err)

	assert.Len(t, h.completions, 2)
	assert.Empty(t, h.completions[0].items)
	assert.Contains(t, h.logMessages(boq.LogError), "Failed to parse AI response for A.")

	// The id cursor did not advance past the failed module.
	assert.Equal(t, 1, h.completions[1].items[0].ID)
}

func TestRunEmptyItemsIsNotAnError(t *testing.T) {
	h := &harness{}
	gen := &scriptedGen{replies: map[int][]reply{
		1: {{text: `{"items":[]}`}},
		2: {{text: itemsJSON(t, 1)}},
	}}

	orch := New(gen, h.config(twoModuleCatalog()))
	err := orch.Run(context.Background(), boq.ModelFlashLatest, nil, h.onLog, h.onComplete)
	assert.NoError(t, err)

	assert.Contains(t, h.logMessages(boq.LogThought), "No items found relevant to A.")
	assert.Empty(t, h.logMessages(boq.LogError))
}

func TestRunOtherFailureRetriesWithFlatDelay(t *testing.T) {
	h := &harness{}
	gen := &scriptedGen{replies: map[int][]reply{
		1: {{err: errors.New("connection reset")}, {text: itemsJSON(t, 1, 2)}},
		2: {{text: itemsJSON(t, 1)}},
	}}

	orch := New(gen, h.config(twoModuleCatalog()))
	err := orch.Run(context.Background(), boq.ModelFlashLatest, nil, h.onLog, h.onComplete)
	assert.NoError(t, err)

	// Flat 2s retry wait, then cooling before module 2.
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, h.sleeps)
	assert.Len(t, h.completions[0].items, 2)
}

func TestRunCancelledDuringCooling(t *testing.T) {
	h := &harness{}
	ctx, cancel := context.WithCancel(context.Background())

	gen := &scriptedGen{replies: map[int][]reply{
		1: {{text: itemsJSON(t, 1)}},
		2: {{text: itemsJSON(t, 1)}},
	}}

	cfg := h.config(twoModuleCatalog())
	cfg.Sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	orch := New(gen, cfg)
	err := orch.Run(ctx, boq.ModelFlashLatest, nil, h.onLog, h.onComplete)
	assert.ErrorIs(t, err, context.Canceled)

	// The first module completed; cancellation stopped the loop before the
	// second call, with no further completion events.
	assert.Len(t, h.completions, 1)
	assert.Equal(t, 1, gen.calls)
}

func TestRunRejectsUnknownModel(t *testing.T) {
	h := &harness{}
	orch := New(&scriptedGen{replies: map[int][]reply{}}, h.config(twoModuleCatalog()))

	err := orch.Run(context.Background(), boq.ModelName("gpt-o9"), nil, h.onLog, h.onComplete)
	assert.Error(t, err)
	assert.Contains(t, h.logMessages(boq.LogError), "Critical System Failure.")
	assert.Empty(t, h.completions)
}

func TestRunSimulatorMatchesLiveEventShape(t *testing.T) {
	h := &harness{}
	catalog := boq.Catalog()

	orch := New(&llm.Simulator{Delay: time.Nanosecond}, h.config(catalog))
	err := orch.Run(context.Background(), boq.ModelFlashLatest, nil, h.onLog, h.onComplete)
	assert.NoError(t, err)

	// Same event sequence shape as a live run: one completion per module in
	// order, cooling N-1 times, trailing complete log.
	assert.Len(t, h.completions, len(catalog))
	assert.Len(t, h.sleeps, len(catalog)-1)
	successes := h.logMessages(boq.LogSuccess)
	assert.Equal(t, "PROTOCOL COMPLETE: All modules processed successfully.", successes[len(successes)-1])

	// Ids re-based exactly as in the live path, categories per module.
	next := 1
	for i, c := range h.completions {
		for _, it := range c.items {
			assert.Equal(t, next, it.ID)
			assert.Equal(t, catalog[i].ArabicTitle, it.Category)
			next++
		}
	}
	assert.Equal(t, len(boq.SampleItems())+1, next)
}
