// Package agent holds the pipeline's stage agents. Each agent is a
// stateless transform: build a structured prompt and output schema from
// typed inputs, call the model gateway once, validate and parse the
// response. Agents never retry, cache, or rate-limit; failures propagate
// verbatim to the orchestrator.
package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"adforge/internal/llmclient"
	"adforge/internal/promptkit"
)

// invoke runs one schema-constrained gateway call for a stage and parses
// the validated payload into T.
func invoke[T any](ctx context.Context, c llmclient.Client, stage string, req llmclient.Request, fields []promptkit.Field) (T, error) {
	var out T
	ctx = llmclient.WithStage(ctx, stage)
	raw, err := c.GenerateJSON(ctx, req)
	if err != nil {
		return out, fmt.Errorf("%s: %w", stage, err)
	}
	if err := promptkit.Validate(stage, raw, fields); err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, &llmclient.SchemaError{Stage: stage, Reason: "decode response: " + err.Error()}
	}
	return out, nil
}
