package boq

import "time"

// Dimensions holds the measured geometry of an item. A zero value means
// the dimension does not apply (e.g. lump-sum items).
type Dimensions struct {
	Length float64 `json:"l"`
	Width  float64 `json:"w"`
	Height float64 `json:"h"`
}

// Confidence scores the model's certainty about an extracted item, each in [0,1].
type Confidence struct {
	Overall             float64 `json:"overall"`
	CountAccuracy       float64 `json:"count_accuracy"`
	DimensionExtraction float64 `json:"dimension_extraction"`
}

// Item is a single Bill of Quantities line item.
//
// ID is assigned by the orchestrator, never trusted from the model: ids
// are globally unique and strictly increasing across the whole run.
// Total is authoritative as supplied by the model; the engine does not
// re-derive it from count/dimensions/deduction.
type Item struct {
	ID          int        `json:"id"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Unit        string     `json:"unit"`
	Count       float64    `json:"count"`
	Dimensions  Dimensions `json:"dimensions"`
	Deduction   float64    `json:"deduction"`
	Total       float64    `json:"total"`
	Remarks     string     `json:"remarks"`
	Confidence  Confidence `json:"confidence"`
	// Breakdown is the human-readable formula trace, e.g. "Count(5) * L(2) * W(1)".
	Breakdown  string  `json:"calculation_breakdown,omitempty"`
	UnitPrice  float64 `json:"unitPrice,omitempty"`
	SourceFile string  `json:"source_file,omitempty"`
}

// LogKind classifies a pipeline log entry.
type LogKind string

const (
	LogThought LogKind = "thought"
	LogProcess LogKind = "process"
	LogError   LogKind = "error"
	LogSuccess LogKind = "success"
)

// LogEntry is one append-only progress event emitted during orchestration.
type LogEntry struct {
	Kind      LogKind   `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Module is one ordered extraction phase scoped to a single BOQ category.
// The catalog is fixed at process start and never mutated.
type Module struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	ArabicTitle  string `json:"arabicTitle"`
	Instructions string `json:"-"`
}
