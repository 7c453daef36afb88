package chat

import (
	"encoding/json"
	"strings"

	"github.com/agext/levenshtein"

	"github.com/tamerhisham/autoboq/pkg/boq"
)

// Modification is one structured patch instruction from the model.
// Action "delete" removes the item; "add" appends a new one decoded from
// Value; anything else sets Field to Value on the matching item.
type Modification struct {
	ID     int             `json:"id"`
	Action string          `json:"action,omitempty"`
	Field  string          `json:"field,omitempty"`
	Value  json.RawMessage `json:"value,omitempty"`
}

// chatEnvelope is the expected JSON response shape. Modifications is a
// pointer so its absence is distinguishable from an empty array.
type chatEnvelope struct {
	Response      string          `json:"response"`
	Modifications *[]Modification `json:"modifications"`
}

func parseEnvelope(text string) (chatEnvelope, bool) {
	if !strings.HasPrefix(text, "{") {
		return chatEnvelope{}, false
	}
	var env chatEnvelope
	if err := json.Unmarshal([]byte(text), &env); err != nil {
		return chatEnvelope{}, false
	}
	return env, true
}

// applyModifications applies the patch set to a copy of items. The patch is
// best-effort: unknown ids, unknown fields, and undecodable values are
// skipped silently rather than failing the turn.
func applyModifications(items []boq.Item, mods []Modification) []boq.Item {
	updated := make([]boq.Item, len(items))
	copy(updated, items)

	for _, mod := range mods {
		switch {
		case mod.Action == "delete":
			updated = deleteItem(updated, mod.ID)
		case mod.Action == "add":
			updated = addItem(updated, mod.Value)
		case mod.Field != "":
			if idx := indexOf(updated, mod.ID); idx >= 0 {
				setField(&updated[idx], mod.Field, mod.Value)
			}
		}
	}
	return updated
}

func indexOf(items []boq.Item, id int) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func deleteItem(items []boq.Item, id int) []boq.Item {
	out := items[:0]
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}

// addItem decodes a full item from value and appends it with the next free
// id, preserving the global uniqueness invariant regardless of the id the
// model proposed.
func addItem(items []boq.Item, value json.RawMessage) []boq.Item {
	if len(value) == 0 {
		return items
	}
	var item boq.Item
	if err := json.Unmarshal(value, &item); err != nil {
		return items
	}
	next := 0
	for _, it := range items {
		if it.ID > next {
			next = it.ID
		}
	}
	item.ID = next + 1
	return append(items, item)
}

// canonicalFields maps patchable field names to their JSON tags.
var canonicalFields = []string{
	"description",
	"unit",
	"count",
	"dimensions",
	"deduction",
	"total",
	"remarks",
	"category",
	"confidence",
	"calculation_breakdown",
	"unitPrice",
	"source_file",
}

// normalizeField resolves a model-supplied field name to a canonical one.
// Exact match wins; otherwise the closest name above a similarity floor is
// taken, so "dimension" or "unit_price" still land on the right field.
func normalizeField(field string) (string, bool) {
	for _, name := range canonicalFields {
		if field == name {
			return name, true
		}
	}
	best, bestScore := "", 0.0
	for _, name := range canonicalFields {
		score := levenshtein.Match(strings.ToLower(field), strings.ToLower(name), nil)
		if score > bestScore {
			best, bestScore = name, score
		}
	}
	if bestScore >= 0.75 {
		return best, true
	}
	return "", false
}

func setField(item *boq.Item, field string, value json.RawMessage) {
	name, ok := normalizeField(field)
	if !ok {
		return
	}
	switch name {
	case "description":
		decodeInto(value, &item.Description)
	case "unit":
		decodeInto(value, &item.Unit)
	case "count":
		decodeInto(value, &item.Count)
	case "dimensions":
		mergeDimensions(&item.Dimensions, value)
	case "deduction":
		decodeInto(value, &item.Deduction)
	case "total":
		decodeInto(value, &item.Total)
	case "remarks":
		decodeInto(value, &item.Remarks)
	case "category":
		decodeInto(value, &item.Category)
	case "confidence":
		decodeInto(value, &item.Confidence)
	case "calculation_breakdown":
		decodeInto(value, &item.Breakdown)
	case "unitPrice":
		decodeInto(value, &item.UnitPrice)
	case "source_file":
		decodeInto(value, &item.SourceFile)
	}
}

// mergeDimensions updates only the sub-fields present in value; absent ones
// keep their current reading. A wholesale replace would zero dimensions the
// user never mentioned.
func mergeDimensions(dims *boq.Dimensions, value json.RawMessage) {
	var partial struct {
		Length *float64 `json:"l"`
		Width  *float64 `json:"w"`
		Height *float64 `json:"h"`
	}
	if err := json.Unmarshal(value, &partial); err != nil {
		return
	}
	if partial.Length != nil {
		dims.Length = *partial.Length
	}
	if partial.Width != nil {
		dims.Width = *partial.Width
	}
	if partial.Height != nil {
		dims.Height = *partial.Height
	}
}

func decodeInto(value json.RawMessage, dst any) {
	_ = json.Unmarshal(value, dst)
}
