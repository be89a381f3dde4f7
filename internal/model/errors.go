package model

import "fmt"

// ConfigurationError reports a malformed knowledge base entry. It is fatal:
// an engine is never constructed from a catalog that produced one.
type ConfigurationError struct {
	Entry  string // catalog section and key, e.g. "cranial_nerves[CN III]"
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("knowledge base: %s: %s", e.Entry, e.Reason)
	}
	return fmt.Sprintf("knowledge base: %s: field %s: %s", e.Entry, e.Field, e.Reason)
}
