package model

// FindingDefinition describes one catalog entry that can be detected in text.
// Cranial nerves carry a single Level, additional findings carry the subset of
// Levels they can localize to, and tracts carry a Type (motor or sensory).
type FindingDefinition struct {
	Key         string   `yaml:"key" json:"key" validate:"required"`
	Name        string   `yaml:"name" json:"name" validate:"required"`
	Level       Level    `yaml:"level,omitempty" json:"level,omitempty" validate:"omitempty,level"`
	Levels      []Level  `yaml:"levels,omitempty" json:"levels,omitempty" validate:"dive,level"`
	Type        string   `yaml:"type,omitempty" json:"type,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Triggers    []string `yaml:"triggers" json:"findings" validate:"required,min=1,dive,required"`
}

// Territory is a vascular territory and the structures and findings it supplies
type Territory struct {
	Key        string   `yaml:"key" json:"key" validate:"required"`
	Name       string   `yaml:"name" json:"name" validate:"required"`
	Structures []string `yaml:"structures" json:"structures"`
	Findings   []string `yaml:"findings" json:"findings" validate:"required,min=1"`
}
