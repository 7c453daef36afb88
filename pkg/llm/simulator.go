package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tamerhisham/autoboq/pkg/boq"
)

// simulatorDelay preserves observable pacing for the progress UI when no
// credential is configured.
const simulatorDelay = 1500 * time.Millisecond

// Simulator is the keyless stand-in for the Gemini client. It answers each
// extraction request from the fixed sample dataset, filtered to the
// requested module's category, after a short fixed delay. Because it speaks
// the same Generator contract and the same JSON shape, the orchestrator's
// event sequence is indistinguishable from a live run.
type Simulator struct {
	// Delay overrides the per-request pause; zero means the default.
	// Tests set it to a nanosecond to keep runs fast.
	Delay time.Duration
	// Items overrides the dataset; nil means boq.SampleItems().
	Items []boq.Item
}

// Generate implements Generator.
func (s *Simulator) Generate(ctx context.Context, req Request) (string, error) {
	delay := s.Delay
	if delay == 0 {
		delay = simulatorDelay
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(delay):
	}

	source := s.Items
	if source == nil {
		source = boq.SampleItems()
	}

	matched := make([]boq.Item, 0, len(source))
	for _, it := range source {
		if it.Category == req.Module.ArabicTitle {
			matched = append(matched, it)
		}
	}

	payload, err := json.Marshal(struct {
		Items []boq.Item `json:"items"`
	}{Items: matched})
	if err != nil {
		return "", fmt.Errorf("marshal simulated response: %w", err)
	}
	return string(payload), nil
}

// NewChat returns a canned chat session so the chat surface stays usable
// without a credential.
func (s *Simulator) NewChat() ChatSession {
	return simulatedChat{}
}

type simulatedChat struct{}

func (simulatedChat) Send(ctx context.Context, message string) (string, error) {
	return `{"response":"وضع المحاكاة: لا يتوفر اتصال بالنموذج. لم يتم إجراء أي تعديل."}`, nil
}
