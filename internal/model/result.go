package model

import "encoding/json"

// ParseResult is the structured output of one engine call
type ParseResult struct {
	CranialNerves []Finding        `json:"cranialNerves"`
	Tracts        []Finding        `json:"tracts"`
	Additional    []Finding        `json:"additional"`
	Level         *Level           `json:"level"`
	Syndrome      *SyndromePattern `json:"syndrome"`
}

// NewParseResult returns an empty result whose collections encode as [] rather than null
func NewParseResult() ParseResult {
	return ParseResult{
		CranialNerves: []Finding{},
		Tracts:        []Finding{},
		Additional:    []Finding{},
	}
}

// Empty reports whether no finding of any category was detected
func (r ParseResult) Empty() bool {
	return len(r.CranialNerves) == 0 && len(r.Tracts) == 0 && len(r.Additional) == 0
}

// All returns every finding in category order: cranial nerves, tracts, additional
func (r ParseResult) All() []Finding {
	all := make([]Finding, 0, len(r.CranialNerves)+len(r.Tracts)+len(r.Additional))
	all = append(all, r.CranialNerves...)
	all = append(all, r.Tracts...)
	all = append(all, r.Additional...)
	return all
}

// UnmarshalJSON keeps collections non-nil so a decoded result re-encodes identically
func (r *ParseResult) UnmarshalJSON(data []byte) error {
	type plain ParseResult
	v := plain(NewParseResult())
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.CranialNerves == nil {
		v.CranialNerves = []Finding{}
	}
	if v.Tracts == nil {
		v.Tracts = []Finding{}
	}
	if v.Additional == nil {
		v.Additional = []Finding{}
	}
	*r = ParseResult(v)
	return nil
}

// Turn is one message of an interview transcript. Only string content is
// treated as text; anything else (null, lists, objects) is ignored.
type Turn struct {
	Role    string `json:"role" yaml:"role"`
	Content any    `json:"content" yaml:"content"`
}

// Text returns the turn content and whether it was a string
func (t Turn) Text() (string, bool) {
	s, ok := t.Content.(string)
	return s, ok
}
