package model

import (
	"encoding/json"
	"fmt"
)

// Finding is a single detected finding. Its JSON shape depends on Category:
//
//	cranial nerve: {"cn", "name", "side", "level"}
//	tract:         {"name", "side", "type", "tract"}
//	additional:    {"name", "side", "description"}
type Finding struct {
	Key         string
	Name        string
	Side        Laterality
	Level       Level
	Category    Category
	Type        string // tract modality, motor or sensory
	Description string
}

type cranialNerveJSON struct {
	CN    string     `json:"cn"`
	Name  string     `json:"name"`
	Side  Laterality `json:"side"`
	Level Level      `json:"level"`
}

type tractJSON struct {
	Name  string     `json:"name"`
	Side  Laterality `json:"side"`
	Type  string     `json:"type"`
	Tract string     `json:"tract"`
}

type additionalJSON struct {
	Name        string     `json:"name"`
	Side        Laterality `json:"side"`
	Description string     `json:"description"`
}

// MarshalJSON encodes the finding in its category-specific shape
func (f Finding) MarshalJSON() ([]byte, error) {
	switch f.Category {
	case CategoryCranialNerve:
		return json.Marshal(cranialNerveJSON{CN: f.Key, Name: f.Name, Side: f.Side, Level: f.Level})
	case CategoryTract:
		return json.Marshal(tractJSON{Name: f.Name, Side: f.Side, Type: f.Type, Tract: f.Key})
	case CategoryAdditional:
		return json.Marshal(additionalJSON{Name: f.Name, Side: f.Side, Description: f.Description})
	default:
		return nil, fmt.Errorf("finding %q: unknown category %q", f.Key, f.Category)
	}
}

// UnmarshalJSON decodes any of the category shapes, inferring the category
// from the keys present.
func (f *Finding) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch {
	case raw["cn"] != nil:
		var v cranialNerveJSON
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*f = Finding{Key: v.CN, Name: v.Name, Side: v.Side, Level: v.Level, Category: CategoryCranialNerve}
	case raw["tract"] != nil:
		var v tractJSON
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*f = Finding{Key: v.Tract, Name: v.Name, Side: v.Side, Type: v.Type, Category: CategoryTract}
	case raw["description"] != nil:
		var v additionalJSON
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		// Additional findings are keyed by display name once serialized
		*f = Finding{Key: v.Name, Name: v.Name, Side: v.Side, Description: v.Description, Category: CategoryAdditional}
	default:
		return fmt.Errorf("finding: cannot infer category from %s", string(data))
	}

	return nil
}
