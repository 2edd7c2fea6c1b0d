package annex

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
)

// Format names an export encoding.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// Renderer writes a document in one format.
type Renderer interface {
	Render(w io.Writer, doc Document) error
	ContentType() string
	Extension() string
}

var renderers = map[Format]Renderer{
	FormatText:     textRenderer{},
	FormatMarkdown: markdownRenderer{},
	FormatJSON:     jsonRenderer{},
}

// Formats lists the registered formats in a stable order.
func Formats() []Format {
	out := make([]Format, 0, len(renderers))
	for f := range renderers {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// ParseFormat resolves a format name. "md" and "txt" are accepted aliases;
// an empty name selects text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case "md":
		return FormatMarkdown, nil
	case "txt":
		return FormatText, nil
	default:
		if _, ok := renderers[f]; ok {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Lookup returns the renderer registered for f.
func Lookup(f Format) (Renderer, error) {
	r, ok := renderers[f]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	return r, nil
}

// Render writes doc to w in the given format.
func Render(w io.Writer, doc Document, f Format) error {
	r, err := Lookup(f)
	if err != nil {
		return err
	}
	return r.Render(w, doc)
}

type textRenderer struct{}

func (textRenderer) ContentType() string { return "text/plain; charset=utf-8" }
func (textRenderer) Extension() string   { return ".txt" }

func (textRenderer) Render(w io.Writer, doc Document) error {
	var b strings.Builder
	b.WriteString("ANNEX IV TECHNICAL DOCUMENTATION\n")
	fmt.Fprintf(&b, "System: %s\n", doc.SystemName)
	if doc.SystemID != "" {
		fmt.Fprintf(&b, "System ID: %s\n", doc.SystemID)
	}
	fmt.Fprintf(&b, "Version: %s\n", doc.Version)
	fmt.Fprintf(&b, "Risk Tier: %s\n", doc.Tier)
	fmt.Fprintf(&b, "Rules Version: %s\n", doc.RulesVersion)
	fmt.Fprintf(&b, "Completeness: %d%%\n", doc.Completeness)

	for _, s := range doc.Sections {
		fmt.Fprintf(&b, "\n%d. %s [%s]\n", s.Number, strings.ToUpper(s.Title), strings.ToUpper(string(s.Status)))
		b.WriteString(s.Content)
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

type markdownRenderer struct{}

func (markdownRenderer) ContentType() string { return "text/markdown; charset=utf-8" }
func (markdownRenderer) Extension() string   { return ".md" }

func (markdownRenderer) Render(w io.Writer, doc Document) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# Annex IV Technical Documentation: %s\n\n", doc.SystemName)
	fmt.Fprintf(&b, "| Field | Value |\n|---|---|\n")
	if doc.SystemID != "" {
		fmt.Fprintf(&b, "| System ID | %s |\n", doc.SystemID)
	}
	fmt.Fprintf(&b, "| Version | %s |\n", doc.Version)
	fmt.Fprintf(&b, "| Risk Tier | %s |\n", doc.Tier)
	fmt.Fprintf(&b, "| Rules Version | %s |\n", doc.RulesVersion)
	fmt.Fprintf(&b, "| Completeness | %d%% |\n", doc.Completeness)

	for _, s := range doc.Sections {
		fmt.Fprintf(&b, "\n## %d. %s\n\n", s.Number, s.Title)
		fmt.Fprintf(&b, "_Status: %s_\n\n", s.Status)
		fmt.Fprintf(&b, "> %s\n\n", s.Description)
		b.WriteString("```\n")
		b.WriteString(s.Content)
		b.WriteString("\n```\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

type jsonRenderer struct{}

func (jsonRenderer) ContentType() string { return "application/json" }
func (jsonRenderer) Extension() string   { return ".json" }

func (jsonRenderer) Render(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
