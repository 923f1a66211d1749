package promptkit

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"adforge/internal/llmclient"
	"adforge/internal/tester"
)

func TestBuildRendersSectionsInOrder(t *testing.T) {
	out, err := Build(Spec{
		Purpose:    "Do the thing.",
		Background: "Some background.",
		Input:      map[string]string{"a": "b"},
		OutputFields: []Field{
			{Name: "x", Type: "string", Required: true, Description: "the x"},
		},
		Constraints: []string{"stay short"},
		Rules:       []string{"rule one"},
	})
	tester.NoErr(t, err)

	order := []string{"[PURPOSE]", "[BACKGROUND]", "[INPUT]", "[OUTPUT]", "[CONSTRAINTS]", "[RULES]", "[OUTPUT_FORMAT]"}
	last := -1
	for _, section := range order {
		idx := strings.Index(out, section)
		tester.True(t, idx > last, section+" out of order or missing")
		last = idx
	}
}

func TestBuildRequiresPurposeAndFields(t *testing.T) {
	_, err := Build(Spec{OutputFields: []Field{{Name: "x", Type: "string"}}})
	tester.Err(t, err, "empty purpose")

	_, err = Build(Spec{Purpose: "p"})
	tester.Err(t, err, "no output fields")
}

func TestObjectSchemaDerivation(t *testing.T) {
	s := ObjectSchema([]Field{
		{Name: "hook", Type: "string", Required: true},
		{Name: "score", Type: "number", Required: true},
		{Name: "tags", Type: "[]string"},
		{Name: "nested", Type: "object", Required: true, Fields: []Field{
			{Name: "inner", Type: "integer", Required: true},
		}},
		{Name: "list", Type: "[]object", Fields: []Field{
			{Name: "angle", Type: "string", Required: true},
		}},
	})

	tester.Eq(t, len(s.Properties), 5)
	tester.Eq(t, s.Required, []string{"hook", "score", "nested"})
	tester.Eq(t, string(s.Properties["tags"].Type), "ARRAY")
	tester.Eq(t, string(s.Properties["nested"].Type), "OBJECT")
	tester.Eq(t, s.Properties["nested"].Required, []string{"inner"})
	tester.Eq(t, string(s.Properties["list"].Items.Type), "OBJECT")
}

func TestValidateReportsMissingRequired(t *testing.T) {
	fields := []Field{
		{Name: "hook", Type: "string", Required: true},
		{Name: "angle", Type: "string", Required: true},
		{Name: "extras", Type: "[]string"},
	}
	raw := json.RawMessage(`{"hook": "", "extras": ["x"]}`)

	err := Validate("planner", raw, fields)
	tester.Err(t, err)
	tester.True(t, llmclient.IsSchemaViolation(err))
	var se *llmclient.SchemaError
	tester.True(t, errors.As(err, &se))
	tester.Eq(t, se.Missing, []string{"hook", "angle"})
	tester.Eq(t, se.Stage, "planner")
}

func TestValidateAcceptsCompletePayload(t *testing.T) {
	fields := []Field{{Name: "hook", Type: "string", Required: true}}
	tester.NoErr(t, Validate("planner", json.RawMessage(`{"hook":"go"}`), fields))
}

func TestValidateRejectsNonObject(t *testing.T) {
	err := Validate("planner", json.RawMessage(`[1,2]`), nil)
	tester.True(t, llmclient.IsSchemaViolation(err))
}
