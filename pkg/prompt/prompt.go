// Package prompt renders the request text sent with extraction and chat
// calls. Everything here is a pure function of its inputs.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tamerhisham/autoboq/pkg/boq"
)

// Extraction renders the per-phase request for a single module. The prompt
// scopes the model to exactly one category, carries the phase instructions
// from the catalog, and pins the starting item id for this phase. The model
// is told to start counting at startID, but the orchestrator re-bases ids
// regardless of what comes back.
func Extraction(module boq.Module, startID int) string {
	var sb strings.Builder

	sb.WriteString("You are the \"Auto-BOQ Architect\", an advanced Quantity Surveying AI.\n\n")
	sb.WriteString("ACTIVATE: Sequential Analysis Protocol.\n")
	fmt.Fprintf(&sb, "CURRENT TARGET: Analyze ONLY the category: %q (%s).\n", module.Title, module.ArabicTitle)
	sb.WriteString("IGNORE all other categories for this specific step.\n\n")

	sb.WriteString("FILES CONTEXT:\n")
	sb.WriteString("- Structural Drawings (S): Priorities for Concrete, Steel, Foundations.\n")
	sb.WriteString("- Architectural Drawings (A): Priorities for Finishes, Masonry, Openings.\n\n")

	sb.WriteString("SPECIFIC INSTRUCTIONS FOR THIS PHASE:\n")
	sb.WriteString(module.Instructions)
	sb.WriteString("\n\n")

	sb.WriteString("GLOBAL REQUIREMENTS:\n")
	sb.WriteString("1. **Mathematical Traceability**: Every item MUST have a \"calculation_breakdown\" showing the formula (e.g., \"Count(5) * L(2) * W(1)\").\n")
	fmt.Fprintf(&sb, "2. **Start Item IDs** at: %d.\n", startID)
	sb.WriteString("3. **Language**: Internal logic in English, Output Description/Category in ARABIC.\n\n")

	sb.WriteString("OUTPUT FORMAT (JSON):\n")
	fmt.Fprintf(&sb, `{
  "items": [
    {
      "id": number,
      "category": %q,
      "description": "Arabic Description including location",
      "unit": "m3/m2/m/No/Item",
      "count": number,
      "dimensions": { "l": number, "w": number, "h": number },
      "deduction": number,
      "total": number,
      "remarks": "Notes on source file or discrepancies (e.g. 'S-01 prioritized')",
      "confidence": { "overall": 0.95, "count_accuracy": 0.95, "dimension_extraction": 0.95 },
      "calculation_breakdown": "Formula string",
      "source_file": "Sheet Name"
    }
  ]
}`, module.ArabicTitle)

	return sb.String()
}

// ChatSystemInstruction is the standing instruction for the quantity-surveyor
// chat assistant: answer in Arabic, and return modification JSON when the
// user asks for a value change.
const ChatSystemInstruction = "أنت مساعد ذكي لمهندس الكميات. قم بالرد باللغة العربية. إذا طلب المستخدم تعديل قيمة، قم بإعادة الحساب وإرجاع JSON يحتوي على التعديلات."

// itemProjection is the reduced view of an item embedded in chat turns.
// Full records would blow the context window for large BOQs.
type itemProjection struct {
	ID    int     `json:"id"`
	Desc  string  `json:"desc"`
	Total float64 `json:"total"`
	Calc  string  `json:"calc,omitempty"`
}

// ChatTurn renders one chat message: the reduced BOQ snapshot, the raw user
// text, and the expected response contract.
func ChatTurn(userText string, items []boq.Item) string {
	projected := make([]itemProjection, 0, len(items))
	for _, it := range items {
		projected = append(projected, itemProjection{
			ID:    it.ID,
			Desc:  it.Description,
			Total: it.Total,
			Calc:  it.Breakdown,
		})
	}
	snapshot, _ := json.Marshal(projected)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Current BOQ Data: %s\n\n", snapshot)
	fmt.Fprintf(&sb, "User Request: %q\n\n", userText)
	sb.WriteString("Return JSON with 'response' and optional 'modifications' array.")
	return sb.String()
}
