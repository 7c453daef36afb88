package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"

	"github.com/tamerhisham/autoboq/internal/run"
	"github.com/tamerhisham/autoboq/pkg/boq"
	"github.com/tamerhisham/autoboq/pkg/extract"
	"github.com/tamerhisham/autoboq/pkg/llm"
	"github.com/tamerhisham/autoboq/pkg/service"
)

type fixedSession struct {
	reply string
}

func (s *fixedSession) Send(ctx context.Context, message string) (string, error) {
	return s.reply, nil
}

func newTestServer(t *testing.T, chatReply string) *MCPServer {
	t.Helper()
	sim := &llm.Simulator{Delay: time.Nanosecond}
	factory := func(boq.ModelName) llm.ChatSession {
		if chatReply != "" {
			return &fixedSession{reply: chatReply}
		}
		return sim.NewChat()
	}
	cfg := extract.Config{
		Cooling:     time.Millisecond,
		BackoffBase: time.Millisecond,
		RetryDelay:  time.Millisecond,
	}
	return &MCPServer{analysis: service.NewAnalysisService(sim, factory, cfg, true)}
}

// runSimulation drives one full simulated extraction so the store holds
// the sample bill, and returns the finished run id.
func runSimulation(t *testing.T, ms *MCPServer) string {
	t.Helper()
	input := service.FileInput{Name: "plan.pdf", MIMEType: "application/pdf", Reader: strings.NewReader("%PDF-1.4 fake")}
	view, err := ms.analysis.StartAnalysis(boq.ModelFlashLatest, []service.FileInput{input})
	assert.NoError(t, err)

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		v, err := ms.analysis.Run(view.ID)
		assert.NoError(t, err)
		if v.Status != run.StatusProcessing {
			return view.ID
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("simulated run did not finish in time")
	return ""
}

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	assert.False(t, result.IsError)
	assert.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	assert.True(t, ok)
	return text.Text
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func TestCatalogResource(t *testing.T) {
	ms := newTestServer(t, "")

	req := mcp.ReadResourceRequest{}
	req.Params.URI = "autoboq://catalog"
	contents, err := ms.handleCatalog(context.Background(), req)
	assert.NoError(t, err)
	assert.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	assert.True(t, ok)
	assert.Equal(t, "application/json", text.MIMEType)

	var modules []boq.Module
	assert.NoError(t, json.Unmarshal([]byte(text.Text), &modules))
	assert.Len(t, modules, 6)
	assert.Equal(t, 1, modules[0].ID)
}

func TestListItemsTool(t *testing.T) {
	ms := newTestServer(t, "")
	runSimulation(t, ms)

	result, err := ms.handleListItems(context.Background(), callRequest(nil))
	assert.NoError(t, err)

	var items []boq.Item
	assert.NoError(t, json.Unmarshal([]byte(toolText(t, result)), &items))
	assert.Len(t, items, len(boq.SampleItems()))

	category := boq.Catalog()[1].ArabicTitle
	result, err = ms.handleListItems(context.Background(), callRequest(map[string]any{"category": category}))
	assert.NoError(t, err)

	assert.NoError(t, json.Unmarshal([]byte(toolText(t, result)), &items))
	assert.Len(t, items, 2)
	for _, it := range items {
		assert.Equal(t, category, it.Category)
	}
}

func TestRunStatusTool(t *testing.T) {
	ms := newTestServer(t, "")
	id := runSimulation(t, ms)

	result, err := ms.handleRunStatus(context.Background(), callRequest(map[string]any{"run_id": id}))
	assert.NoError(t, err)

	var view run.View
	assert.NoError(t, json.Unmarshal([]byte(toolText(t, result)), &view))
	assert.Equal(t, run.StatusComplete, view.Status)
	assert.Len(t, view.Completions, 6)

	result, err = ms.handleRunStatus(context.Background(), callRequest(nil))
	assert.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestEditBOQTool(t *testing.T) {
	reply := `{"response":"done","modifications":[{"id":1,"field":"total","value":10}]}`
	ms := newTestServer(t, reply)
	runSimulation(t, ms)

	result, err := ms.handleEditBOQ(context.Background(), callRequest(map[string]any{"instruction": "set item 1 total to 10"}))
	assert.NoError(t, err)

	var payload struct {
		Response string     `json:"response"`
		Updated  bool       `json:"updated"`
		Items    []boq.Item `json:"items"`
	}
	assert.NoError(t, json.Unmarshal([]byte(toolText(t, result)), &payload))
	assert.Equal(t, "done", payload.Response)
	assert.True(t, payload.Updated)
	assert.Equal(t, 10.0, payload.Items[0].Total)
	assert.Equal(t, 10.0, ms.analysis.Items()[0].Total)

	result, err = ms.handleEditBOQ(context.Background(), callRequest(nil))
	assert.NoError(t, err)
	assert.True(t, result.IsError)
}
