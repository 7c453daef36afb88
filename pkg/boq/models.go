package boq

// ModelName identifies one of the supported Gemini models.
type ModelName string

const (
	ModelGemini3Pro      ModelName = "gemini-3-pro-preview"
	ModelGemini3Flash    ModelName = "gemini-3-flash-preview"
	ModelFlashThinking   ModelName = "gemini-2.5-flash-thinking-latest"
	ModelFlashLatest     ModelName = "gemini-flash-latest"
	ModelFlashLiteLatest ModelName = "gemini-flash-lite-latest"
	DefaultModel                   = ModelFlashLatest
)

// SupportedModels lists every model the pipeline accepts, in display order.
func SupportedModels() []ModelName {
	return []ModelName{
		ModelGemini3Pro,
		ModelGemini3Flash,
		ModelFlashThinking,
		ModelFlashLatest,
		ModelFlashLiteLatest,
	}
}

// Valid reports whether m is one of the supported models.
func (m ModelName) Valid() bool {
	for _, known := range SupportedModels() {
		if m == known {
			return true
		}
	}
	return false
}

// Capabilities are the auxiliary flags attached to extraction requests for a
// given model. They never change orchestration logic, only request shaping.
type Capabilities struct {
	// SearchGrounding marks models that support the Google Search tool.
	// The client attaches it once the SDK exposes the tool type.
	SearchGrounding bool
	// ThinkingBudget caps the model's internal reasoning tokens; 0 means
	// the flag is not attached. Kept conservative to avoid timeouts.
	ThinkingBudget int32
}

// ModelCapabilities returns the capability flags for a model. Pro and
// explicit thinking variants get search plus a larger budget; Gemini 3
// Flash gets a reduced budget only, to save quota.
func ModelCapabilities(m ModelName) Capabilities {
	switch {
	case m == ModelGemini3Pro, m == ModelFlashThinking:
		return Capabilities{SearchGrounding: true, ThinkingBudget: 4096}
	case m == ModelGemini3Flash:
		return Capabilities{ThinkingBudget: 2048}
	default:
		return Capabilities{}
	}
}
