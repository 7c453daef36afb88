// Package llm is the boundary to the external generative model. The rest of
// the pipeline only sees the Generator and ChatSession interfaces, so tests
// and the keyless simulation path can stand in for Gemini.
package llm

import (
	"context"

	"github.com/tamerhisham/autoboq/pkg/boq"
	"github.com/tamerhisham/autoboq/pkg/encode"
)

// Request is one extraction call: the encoded drawings plus the rendered
// phase prompt. Module identifies the phase being extracted so that
// non-network generators can scope their output.
type Request struct {
	Model     boq.ModelName
	Module    boq.Module
	Artifacts []encode.Artifact
	Prompt    string
}

// Generator issues a single generative call and returns the raw response
// text. An empty string with a nil error is a valid (if useless) response
// and is handled downstream as a shape failure.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// ChatSession is a persistent conversational exchange with the model.
// Sessions carry server-side history; a new session must be created when
// the model selection changes.
type ChatSession interface {
	Send(ctx context.Context, message string) (string, error)
}
