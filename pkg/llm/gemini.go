package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/tamerhisham/autoboq/pkg/boq"
	"github.com/tamerhisham/autoboq/pkg/prompt"
)

// Client wraps the Gemini API client. One Client is shared by the
// extraction pipeline and the chat engine.
type Client struct {
	client *genai.Client
}

// NewClient creates a Gemini-backed client. The key must be non-empty;
// callers decide beforehand whether to fall back to simulation.
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is empty")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Client{client: client}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

func (c *Client) model(name boq.ModelName) *genai.GenerativeModel {
	model := c.client.GenerativeModel(string(name))
	model.SetTemperature(0.2) // low temperature for quantity accuracy

	// generative-ai-go exposes neither search grounding nor a thinking-budget
	// knob; boq.Capabilities records which models support them so the wiring
	// lands here once the SDK catches up.
	// TODO: attach the search tool and GenerationConfig.ThinkingConfig once
	// available upstream.

	return model
}

// Generate sends one extraction request: all encoded drawings as inline
// parts followed by the phase prompt, with a JSON response constraint.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	model := c.model(req.Model)
	model.GenerationConfig.ResponseMIMEType = "application/json"

	parts := make([]genai.Part, 0, len(req.Artifacts)+1)
	for _, art := range req.Artifacts {
		raw, err := art.Decode()
		if err != nil {
			return "", fmt.Errorf("prepare artifact part: %w", err)
		}
		parts = append(parts, genai.Blob{MIMEType: art.MIMEType, Data: raw})
	}
	parts = append(parts, genai.Text(req.Prompt))

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	return responseText(resp), nil
}

// StartChat opens a persistent quantity-surveyor chat session on the given
// model. History lives in the returned session; switching models means
// starting a fresh one.
func (c *Client) StartChat(name boq.ModelName) ChatSession {
	model := c.model(name)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(prompt.ChatSystemInstruction)},
	}
	return &geminiChat{session: model.StartChat()}
}

type geminiChat struct {
	session *genai.ChatSession
}

func (g *geminiChat) Send(ctx context.Context, message string) (string, error) {
	resp, err := g.session.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("chat send failed: %w", err)
	}
	return responseText(resp), nil
}

// responseText flattens the first candidate's text parts. Empty responses
// are legal; downstream treats them as shape failures.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String()
}
