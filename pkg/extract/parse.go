package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tamerhisham/autoboq/pkg/boq"
)

// itemsEnvelope is the required response shape. Items is a pointer so that
// a response missing the key entirely is distinguishable from an empty list.
type itemsEnvelope struct {
	Items *[]boq.Item `json:"items"`
}

// decodeItems parses a raw model response into items, enforcing the
// envelope shape and the per-item field ranges. Any violation is a shape
// error; the caller degrades the module to zero items, never crashes.
func decodeItems(text string) ([]boq.Item, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, fmt.Errorf("empty response")
	}

	var env itemsEnvelope
	if err := json.Unmarshal([]byte(trimmed), &env); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	if env.Items == nil {
		return nil, fmt.Errorf("response lacks items array")
	}

	items := *env.Items
	for i, it := range items {
		if err := validateItem(it); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}
	return items, nil
}

func validateItem(it boq.Item) error {
	if it.Count < 0 {
		return fmt.Errorf("negative count %v", it.Count)
	}
	if it.Deduction < 0 {
		return fmt.Errorf("negative deduction %v", it.Deduction)
	}
	if it.Dimensions.Length < 0 || it.Dimensions.Width < 0 || it.Dimensions.Height < 0 {
		return fmt.Errorf("negative dimension")
	}
	for _, score := range []float64{it.Confidence.Overall, it.Confidence.CountAccuracy, it.Confidence.DimensionExtraction} {
		if score < 0 || score > 1 {
			return fmt.Errorf("confidence %v out of range", score)
		}
	}
	return nil
}
