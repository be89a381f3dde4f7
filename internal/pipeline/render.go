package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/neuroloc/internal/model"
)

// Renderer writes reports as JSON or Markdown
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// WriteJSON encodes v as indented JSON
func (r *Renderer) WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// RenderJSON writes the report to path as JSON
func (r *Renderer) RenderJSON(report *Report, path string) error {
	return writeFile(path, func(w io.Writer) error { return r.WriteJSON(w, report) })
}

// RenderMarkdown writes the report to path as Markdown
func (r *Renderer) RenderMarkdown(report *Report, path string) error {
	return writeFile(path, func(w io.Writer) error { return r.WriteMarkdown(w, report) })
}

// WriteMarkdown renders a human-readable localization report
func (r *Renderer) WriteMarkdown(w io.Writer, report *Report) error {
	var b strings.Builder
	res := report.Result

	b.WriteString("# Neurological Localization Report\n\n")
	if report.Source != "" {
		fmt.Fprintf(&b, "**Source:** %s  \n", report.Source)
	}
	fmt.Fprintf(&b, "**Analyzed:** %s  \n", report.AnalyzedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "**Catalog:** %s\n\n", report.Catalog)

	b.WriteString("## Localization\n\n")
	fmt.Fprintf(&b, "- **Level:** %s\n", levelText(res.Level))
	if res.Syndrome != nil {
		fmt.Fprintf(&b, "- **Syndrome:** %s (%s)\n", res.Syndrome.Name, res.Syndrome.Location)
		fmt.Fprintf(&b, "  - %s\n", res.Syndrome.Description)
	} else {
		b.WriteString("- **Syndrome:** none matched\n")
	}
	b.WriteString("\n")

	if res.Empty() {
		b.WriteString("_No findings detected._\n\n")
	}

	if len(res.CranialNerves) > 0 {
		b.WriteString("## Cranial Nerves\n\n")
		b.WriteString("| Nerve | Name | Side | Level |\n|---|---|---|---|\n")
		for _, f := range res.CranialNerves {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", f.Key, f.Name, f.Side, f.Level)
		}
		b.WriteString("\n")
	}

	if len(res.Tracts) > 0 {
		b.WriteString("## Tracts\n\n")
		b.WriteString("| Tract | Type | Side |\n|---|---|---|\n")
		for _, f := range res.Tracts {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", f.Name, f.Type, f.Side)
		}
		b.WriteString("\n")
	}

	if len(res.Additional) > 0 {
		b.WriteString("## Additional Findings\n\n")
		for _, f := range res.Additional {
			fmt.Fprintf(&b, "- %s (%s)\n", f.Name, f.Side)
		}
		b.WriteString("\n")
	}

	if s := report.Session; s != nil {
		b.WriteString("## Conversation\n\n")
		fmt.Fprintf(&b, "- **Turns:** %d\n", s.Turns)
		fmt.Fprintf(&b, "- **Level (first reported):** %s\n", levelText(s.Level))
		fmt.Fprintf(&b, "- **Findings:** %d cranial nerve, %d tract, %d additional\n\n",
			len(s.CranialNerves), len(s.Tracts), len(s.Additional))
	}

	if len(report.Differential) > 0 {
		b.WriteString("## Differential\n\n")
		b.WriteString("| Syndrome | Location | Matched |\n|---|---|---|\n")
		for _, d := range report.Differential {
			fmt.Fprintf(&b, "| %s | %s | %d/%d |\n", d.Syndrome.Name, d.Syndrome.Location, d.Matched, d.Total)
		}
		b.WriteString("\n")
	}

	if len(report.Territories) > 0 {
		b.WriteString("## Vascular Territories\n\n")
		for _, t := range report.Territories {
			fmt.Fprintf(&b, "- **%s:** %s\n", t.Name, strings.Join(t.Structures, ", "))
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\n")
		b.WriteString("_Findings are keyword matches against a fixed catalog. Negation and clinical context are not interpreted. This report is not a diagnosis._\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func levelText(level *model.Level) string {
	if level == nil {
		return "undetermined"
	}
	return string(*level)
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()

	return write(f)
}
