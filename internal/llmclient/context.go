package llmclient

import "context"

type ctxKeyStage struct{}

// WithStage tags a context with the pipeline stage issuing the call.
// Middleware and the fake client read it for logging and dispatch.
func WithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, ctxKeyStage{}, stage)
}

// StageFrom returns the stage stored in the context.
func StageFrom(ctx context.Context) string {
	if v := ctx.Value(ctxKeyStage{}); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return "unknown"
}
