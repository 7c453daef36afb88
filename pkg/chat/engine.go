// Package chat is the conversational patch engine: it feeds a reduced BOQ
// snapshot plus free-text user instructions to a persistent model session
// and applies the structured modifications that come back.
package chat

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/tamerhisham/autoboq/pkg/boq"
	"github.com/tamerhisham/autoboq/pkg/llm"
	"github.com/tamerhisham/autoboq/pkg/prompt"
)

// ErrorReply is the fixed user-facing text returned on any transport
// failure. Raw errors never reach the user.
const ErrorReply = "Error processing request."

// SessionFactory opens a fresh chat session on the given model.
type SessionFactory func(boq.ModelName) llm.ChatSession

// Result is the outcome of one chat turn. Items is nil unless the model
// returned modifications; when non-nil it is the complete revised BOQ.
type Result struct {
	ResponseText string
	Items        []boq.Item
	Updated      bool
}

// Engine owns the current chat session. The session persists across turns
// so the model keeps conversational context, but is re-created whenever the
// selected model changes: context never carries over a model switch.
type Engine struct {
	mu         sync.Mutex
	newSession SessionFactory
	model      boq.ModelName
	session    llm.ChatSession
}

// NewEngine creates an Engine; sessions are opened lazily on first use.
func NewEngine(factory SessionFactory) *Engine {
	return &Engine{newSession: factory}
}

// Submit runs one chat turn against a snapshot of the current BOQ. The
// snapshot is never mutated; modifications are applied to a copy.
func (e *Engine) Submit(ctx context.Context, model boq.ModelName, userText string, current []boq.Item) Result {
	session := e.sessionFor(model)

	raw, err := session.Send(ctx, prompt.ChatTurn(userText, current))
	if err != nil {
		slog.Error("chat send failed", "model", model, "err", err)
		return Result{ResponseText: ErrorReply}
	}

	text := stripFences(raw)
	env, ok := parseEnvelope(text)
	if !ok {
		// Not JSON at all: pass the model's prose through verbatim.
		return Result{ResponseText: text}
	}

	response := env.Response
	if response == "" {
		response = text
	}
	if env.Modifications == nil {
		return Result{ResponseText: response}
	}
	return Result{
		ResponseText: response,
		Items:        applyModifications(current, *env.Modifications),
		Updated:      true,
	}
}

func (e *Engine) sessionFor(model boq.ModelName) llm.ChatSession {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil || e.model != model {
		e.session = e.newSession(model)
		e.model = model
	}
	return e.session
}

// stripFences removes markdown code-fence markup around the response body.
func stripFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}
