package llm

import (
	"context"
	"encoding/json"
)

// PromptHook observes gateway calls. The pipeline installs one to mirror
// stage activity into the run progress log.
type PromptHook interface {
	Before(ctx context.Context, stage, prompt string, input any)
	After(ctx context.Context, stage string, raw json.RawMessage, err error)
}

type ctxKeyHook struct{}

// WithHook attaches a PromptHook to the context read by the WithHooks
// middleware.
func WithHook(ctx context.Context, hook PromptHook) context.Context {
	return context.WithValue(ctx, ctxKeyHook{}, hook)
}

// HookFrom returns the hook stored in the context.
func HookFrom(ctx context.Context) PromptHook {
	if v := ctx.Value(ctxKeyHook{}); v != nil {
		if h, ok := v.(PromptHook); ok {
			return h
		}
	}
	return nil
}
