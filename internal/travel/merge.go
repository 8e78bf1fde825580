package travel

import (
	"encoding/json"
	"fmt"
)

// patchFields is the set of top-level fields a PUT body names.
type patchFields map[string]json.RawMessage

func (f patchFields) has(names ...string) bool {
	for _, n := range names {
		if _, ok := f[n]; ok {
			return true
		}
	}
	return false
}

// mergeDocument overlays the top-level fields of patch onto the JSON form of
// *doc and decodes the result into a fresh T. A named field is replaced whole:
// arrays and nested objects are never merged element by element.
func mergeDocument[T any](doc *T, patch []byte) (patchFields, error) {
	var fields patchFields
	if err := json.Unmarshal(patch, &fields); err != nil || fields == nil {
		return nil, Errorf(KindValidation, "Invalid request body")
	}

	current, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding %T: %w", doc, err)
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(current, &merged); err != nil {
		return nil, fmt.Errorf("decoding %T: %w", doc, err)
	}
	for k, v := range fields {
		merged[k] = v
	}

	b, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("encoding merged %T: %w", doc, err)
	}
	var next T
	if err := json.Unmarshal(b, &next); err != nil {
		return nil, Errorf(KindValidation, "Invalid request body")
	}
	*doc = next
	return fields, nil
}
