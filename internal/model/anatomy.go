package model

// Level is a coarse brain-region classification used to localize a lesion
type Level string

const (
	LevelForebrain Level = "forebrain"
	LevelMidbrain  Level = "midbrain"
	LevelPons      Level = "pons"
	LevelMedulla   Level = "medulla"
)

// Levels lists every anatomical level from rostral to caudal
var Levels = []Level{LevelForebrain, LevelMidbrain, LevelPons, LevelMedulla}

// Valid reports whether l is one of the known anatomical levels
func (l Level) Valid() bool {
	switch l {
	case LevelForebrain, LevelMidbrain, LevelPons, LevelMedulla:
		return true
	default:
		return false
	}
}

// Laterality is the body side a finding applies to.
// Exactly one value is computed per processed text.
type Laterality string

const (
	SideLeft      Laterality = "left"
	SideRight     Laterality = "right"
	SideBilateral Laterality = "bilateral"
)

// Category discriminates the kind of definition a finding came from
type Category string

const (
	CategoryCranialNerve Category = "cranialNerve"
	CategoryTract        Category = "tract"
	CategoryAdditional   Category = "additional"
)

// Relation is the side of a syndrome requirement relative to the lesion
type Relation string

const (
	RelationIpsilateral   Relation = "ipsilateral"
	RelationContralateral Relation = "contralateral"
)

// suffix returns the catalog spelling of the relation, e.g. "(ipsi)"
func (r Relation) suffix() string {
	switch r {
	case RelationIpsilateral:
		return "(ipsi)"
	case RelationContralateral:
		return "(contra)"
	default:
		return ""
	}
}
