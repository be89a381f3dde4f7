package knowledge

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ppiankov/neuroloc/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// catalogFile is the on-disk layout of a catalog
type catalogFile struct {
	Version       int                       `yaml:"version" validate:"required,gte=1"`
	CranialNerves []model.FindingDefinition `yaml:"cranial_nerves" validate:"required,min=1,dive"`
	Tracts        []model.FindingDefinition `yaml:"tracts" validate:"required,min=1,dive"`
	Additional    []model.FindingDefinition `yaml:"additional" validate:"dive"`
	Syndromes     []model.SyndromePattern   `yaml:"syndromes" validate:"required,min=1,dive"`
	Territories   []model.Territory         `yaml:"territories" validate:"dive"`
}

// additionalLevels are the levels an additional finding may localize to
var additionalLevels = map[model.Level]bool{
	model.LevelPons:    true,
	model.LevelMedulla: true,
}

// Default loads the built-in catalog
func Default() (*Base, error) {
	return Load(defaultCatalog)
}

// LoadFile loads a catalog from a YAML file
func LoadFile(path string) (*Base, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Load(data)
}

// Load decodes and validates a YAML catalog. Any malformed entry yields a
// *model.ConfigurationError.
func Load(data []byte) (*Base, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cf catalogFile
	if err := dec.Decode(&cf); err != nil {
		return nil, &model.ConfigurationError{Entry: "catalog", Reason: err.Error()}
	}

	if err := newValidator().Struct(&cf); err != nil {
		return nil, toConfigurationError(err)
	}

	if err := checkCatalog(&cf); err != nil {
		return nil, err
	}

	return newBase(&cf, data), nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("level", func(fl validator.FieldLevel) bool {
		return model.Level(fl.Field().String()).Valid()
	})
	return v
}

// toConfigurationError converts the first validator failure into a ConfigurationError
func toConfigurationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &model.ConfigurationError{
			Entry:  strings.TrimPrefix(fe.Namespace(), "catalogFile."),
			Field:  fe.Field(),
			Reason: "failed '" + fe.Tag() + "' check",
		}
	}
	return &model.ConfigurationError{Entry: "catalog", Reason: err.Error()}
}

// checkCatalog enforces the rules struct tags cannot express
func checkCatalog(cf *catalogFile) error {
	seen := make(map[string]string)
	unique := func(section, key string) error {
		if prev, ok := seen[key]; ok {
			return &model.ConfigurationError{
				Entry:  fmt.Sprintf("%s[%s]", section, key),
				Field:  "key",
				Reason: "duplicate key, already defined in " + prev,
			}
		}
		seen[key] = section
		return nil
	}

	for _, def := range cf.CranialNerves {
		if err := unique("cranial_nerves", def.Key); err != nil {
			return err
		}
		if def.Level == "" {
			return &model.ConfigurationError{Entry: "cranial_nerves[" + def.Key + "]", Field: "level", Reason: "cranial nerves need an anatomical level"}
		}
	}

	for _, def := range cf.Tracts {
		if err := unique("tracts", def.Key); err != nil {
			return err
		}
		if def.Type != "motor" && def.Type != "sensory" {
			return &model.ConfigurationError{
				Entry:  "tracts[" + def.Key + "]",
				Field:  "type",
				Reason: fmt.Sprintf("type must be motor or sensory, got %q", def.Type),
			}
		}
	}

	for _, def := range cf.Additional {
		if err := unique("additional", def.Key); err != nil {
			return err
		}
		if len(def.Levels) == 0 {
			return &model.ConfigurationError{Entry: "additional[" + def.Key + "]", Field: "levels", Reason: "at least one level is required"}
		}
		for _, lvl := range def.Levels {
			if !additionalLevels[lvl] {
				return &model.ConfigurationError{
					Entry:  "additional[" + def.Key + "]",
					Field:  "levels",
					Reason: fmt.Sprintf("level %q is not allowed for additional findings", lvl),
				}
			}
		}
	}

	names := make(map[string]bool)
	for _, s := range cf.Syndromes {
		if names[s.Name] {
			return &model.ConfigurationError{Entry: "syndromes[" + s.Name + "]", Field: "name", Reason: "duplicate syndrome name"}
		}
		names[s.Name] = true
	}

	return nil
}
