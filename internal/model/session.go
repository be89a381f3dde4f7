package model

// SessionFindingState accumulates parse results across the turns of one
// conversation. It is owned by the session, not the engine.
type SessionFindingState struct {
	CranialNerves []Finding `json:"cranialNerves"`
	Tracts        []Finding `json:"tracts"`
	Additional    []Finding `json:"additional"`
	Level         *Level    `json:"level"` // first non-null level wins
	Turns         int       `json:"turns"`
}

// NewSessionFindingState returns an empty state
func NewSessionFindingState() SessionFindingState {
	return SessionFindingState{
		CranialNerves: []Finding{},
		Tracts:        []Finding{},
		Additional:    []Finding{},
	}
}

// Clone returns a deep copy so a snapshot can be handed out while the
// session keeps accumulating.
func (s SessionFindingState) Clone() SessionFindingState {
	out := SessionFindingState{
		CranialNerves: append([]Finding{}, s.CranialNerves...),
		Tracts:        append([]Finding{}, s.Tracts...),
		Additional:    append([]Finding{}, s.Additional...),
		Turns:         s.Turns,
	}
	if s.Level != nil {
		level := *s.Level
		out.Level = &level
	}
	return out
}
