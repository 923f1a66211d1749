package promptkit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Spec defines the sections of a structured agent prompt. Every stage
// agent renders one of these instead of concatenating ad-hoc strings.
type Spec struct {
	Purpose      string
	Background   string
	Input        any
	OutputFields []Field
	Constraints  []string
	Rules        []string
	OutputFormat string
}

// Build renders the prompt with titled sections.
func Build(spec Spec) (string, error) {
	if strings.TrimSpace(spec.Purpose) == "" {
		return "", fmt.Errorf("promptkit: purpose is empty")
	}
	if len(spec.OutputFields) == 0 {
		return "", fmt.Errorf("promptkit: output fields are empty")
	}
	inputJSON, err := formatAnyJSON(spec.Input)
	if err != nil {
		return "", fmt.Errorf("promptkit: encode input: %w", err)
	}

	format := spec.OutputFormat
	if format == "" {
		format = "Respond with a single JSON object only. No markdown, no commentary."
	}

	var buf bytes.Buffer
	writeSection(&buf, "PURPOSE", spec.Purpose)
	writeSection(&buf, "BACKGROUND", spec.Background)
	writeSection(&buf, "INPUT", inputJSON)
	writeSection(&buf, "OUTPUT", formatFields(spec.OutputFields))
	writeSection(&buf, "CONSTRAINTS", formatList(spec.Constraints))
	writeSection(&buf, "RULES", formatList(spec.Rules))
	writeSection(&buf, "OUTPUT_FORMAT", format)

	return strings.TrimSpace(buf.String()) + "\n", nil
}

func formatAnyJSON(v any) (string, error) {
	if v == nil {
		return "null", nil
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func formatFields(fields []Field) string {
	var buf strings.Builder
	for _, f := range fields {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			continue
		}
		req := "optional"
		if f.Required {
			req = "required"
		}
		if f.Description != "" {
			fmt.Fprintf(&buf, "- %s (%s, %s): %s\n", name, f.Type, req, f.Description)
		} else {
			fmt.Fprintf(&buf, "- %s (%s, %s)\n", name, f.Type, req)
		}
		for _, sub := range f.Fields {
			subReq := "optional"
			if sub.Required {
				subReq = "required"
			}
			fmt.Fprintf(&buf, "  - %s.%s (%s, %s): %s\n", name, sub.Name, sub.Type, subReq, sub.Description)
		}
	}
	return strings.TrimRight(buf.String(), "\n")
}

func formatList(items []string) string {
	if len(items) == 0 {
		return ""
	}
	var buf strings.Builder
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		fmt.Fprintf(&buf, "- %s\n", item)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func writeSection(buf *bytes.Buffer, title, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	buf.WriteString("[")
	buf.WriteString(title)
	buf.WriteString("]\n")
	buf.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString("\n")
}
