package llmclient

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"adforge/internal/tester"
)

func TestStripCodeFence(t *testing.T) {
	cases := map[string]string{
		`{"a":1}`:                      `{"a":1}`,
		"```json\n{\"a\":1}\n```":      `{"a":1}`,
		"```\n{\"a\":1}\n```":          `{"a":1}`,
		"  ```json\n{\"a\":1}\n```  ":  `{"a":1}`,
	}
	for in, want := range cases {
		tester.Eq(t, stripCodeFence(in), want)
	}
}

func TestSchemaErrorMessage(t *testing.T) {
	err := &SchemaError{Stage: "director", Missing: []string{"technicalPrompt"}}
	msg := err.Error()
	tester.True(t, len(msg) > 0)
	tester.True(t, IsSchemaViolation(err))
	tester.True(t, IsSchemaViolation(wrap(err)))
	tester.False(t, IsSchemaViolation(errors.New("plain")))
}

func wrap(err error) error { return errors.Join(errors.New("stage failed"), err) }

func TestImageDataURI(t *testing.T) {
	img := Image{Data: []byte("png"), MIMEType: "image/png"}
	tester.Eq(t, img.DataURI(), "data:image/png;base64,cG5n")
}

func TestFakeDirectorHonorsVariationCount(t *testing.T) {
	f := NewFake()
	ctx := WithStage(context.Background(), "director")

	raw, err := f.GenerateJSON(ctx, Request{Input: map[string]any{"variationCount": 5}})
	tester.NoErr(t, err)
	var out struct {
		GenerationPrompts []string `json:"generationPrompts"`
	}
	tester.NoErr(t, json.Unmarshal(raw, &out))
	tester.Eq(t, len(out.GenerationPrompts), 5)
}

func TestFakeRecordsStages(t *testing.T) {
	f := NewFake()
	ctx := context.Background()

	_, _ = f.GenerateJSON(WithStage(ctx, "planner"), Request{})
	_, _ = f.GenerateJSON(WithStage(ctx, "copywriter"), Request{})
	_, _ = f.GenerateImage(ctx, ImageRequest{})

	tester.Eq(t, f.Calls(), []string{"planner", "copywriter", "render"})
}

func TestFakeOverrideAndError(t *testing.T) {
	f := NewFake()
	f.Responses = map[string]json.RawMessage{"planner": json.RawMessage(`{"hook":"custom"}`)}

	raw, err := f.GenerateJSON(WithStage(context.Background(), "planner"), Request{})
	tester.NoErr(t, err)
	tester.Eq(t, string(raw), `{"hook":"custom"}`)

	f.Err = errors.New("down")
	_, err = f.GenerateJSON(WithStage(context.Background(), "planner"), Request{})
	tester.Err(t, err)
}
