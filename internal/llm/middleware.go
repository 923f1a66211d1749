package llm

import (
	"context"
	"encoding/json"
	"log"

	"adforge/internal/llmclient"
)

// Middleware decorates a gateway client with cross-cutting concerns
// (rate limiting, logging, hooks). There is deliberately no retry
// middleware: a failed stage is surfaced to the user, who re-triggers it.
type Middleware func(llmclient.Client) llmclient.Client

// Wrap applies middlewares in left-to-right order.
// Example: Wrap(inner, A, B) => A(B(inner))
func Wrap(inner llmclient.Client, mws ...Middleware) llmclient.Client {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// -------- Rate limiting --------

// RateLimit limits request rate with a token bucket. If rps <= 0 the
// limiter is disabled.
func RateLimit(rps float64, burst int) Middleware {
	return func(next llmclient.Client) llmclient.Client {
		return &rateLimited{next: next, rl: newRPSLimiter(rps, burst)}
	}
}

// MultiLimit applies requests-per-minute/day and tokens-per-minute caps.
// Pass 0 to disable a specific limiter.
func MultiLimit(rpm, rpd, tpm int) Middleware {
	const tokensPerRequest = 1000
	var rpmL, rpdL, tpmL *rpsLimiter
	if rpm > 0 {
		rpmL = newRPSLimiter(float64(rpm)/60.0, max1(rpm))
	}
	if rpd > 0 {
		rpdL = newRPSLimiter(float64(rpd)/86400.0, max1(rpd))
	}
	if tpm > 0 {
		tpmL = newRPSLimiter(float64(tpm)/60.0, max1(tpm))
	}
	return func(next llmclient.Client) llmclient.Client {
		return &multiLimited{next: next, rpm: rpmL, rpd: rpdL, tpm: tpmL, tpr: tokensPerRequest}
	}
}

type rateLimited struct {
	next llmclient.Client
	rl   *rpsLimiter
}

func (c *rateLimited) Name() string { return c.next.Name() }
func (c *rateLimited) Close() error { return c.next.Close() }

func (c *rateLimited) GenerateJSON(ctx context.Context, req llmclient.Request) (json.RawMessage, error) {
	if err := c.rl.Acquire(ctx); err != nil {
		return nil, err
	}
	return c.next.GenerateJSON(ctx, req)
}

func (c *rateLimited) GenerateImage(ctx context.Context, req llmclient.ImageRequest) (llmclient.Image, error) {
	if err := c.rl.Acquire(ctx); err != nil {
		return llmclient.Image{}, err
	}
	return c.next.GenerateImage(ctx, req)
}

type multiLimited struct {
	next llmclient.Client
	rpm  *rpsLimiter
	rpd  *rpsLimiter
	tpm  *rpsLimiter
	tpr  int // tokens per request (constant estimate)
}

func (m *multiLimited) Name() string { return m.next.Name() }
func (m *multiLimited) Close() error { return m.next.Close() }

func (m *multiLimited) acquire(ctx context.Context) error {
	if err := m.rpm.Acquire(ctx); err != nil {
		return err
	}
	if err := m.rpd.Acquire(ctx); err != nil {
		return err
	}
	return m.tpm.AcquireN(ctx, m.tpr)
}

func (m *multiLimited) GenerateJSON(ctx context.Context, req llmclient.Request) (json.RawMessage, error) {
	if err := m.acquire(ctx); err != nil {
		return nil, err
	}
	return m.next.GenerateJSON(ctx, req)
}

func (m *multiLimited) GenerateImage(ctx context.Context, req llmclient.ImageRequest) (llmclient.Image, error) {
	if err := m.acquire(ctx); err != nil {
		return llmclient.Image{}, err
	}
	return m.next.GenerateImage(ctx, req)
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// -------- Logging & hooks --------

// WithLogging logs request size and errors per stage. Pass nil to use
// log.Default().
func WithLogging(logger *log.Logger) Middleware {
	if logger == nil {
		logger = log.Default()
	}
	return func(next llmclient.Client) llmclient.Client {
		return &logging{next: next, log: logger}
	}
}

type logging struct {
	next llmclient.Client
	log  *log.Logger
}

func (l *logging) Name() string { return l.next.Name() }
func (l *logging) Close() error { return l.next.Close() }

func (l *logging) GenerateJSON(ctx context.Context, req llmclient.Request) (json.RawMessage, error) {
	in, _ := json.Marshal(req.Input)
	l.log.Printf("LLM request (%s): %d bytes", llmclient.StageFrom(ctx), len(req.Prompt)+len(in))
	raw, err := l.next.GenerateJSON(ctx, req)
	if err != nil {
		l.log.Printf("LLM error (%s): %v", llmclient.StageFrom(ctx), err)
	}
	return raw, err
}

func (l *logging) GenerateImage(ctx context.Context, req llmclient.ImageRequest) (llmclient.Image, error) {
	l.log.Printf("LLM image request (%s): aspect=%s size=%s", llmclient.StageFrom(ctx), req.AspectRatio, req.Size)
	img, err := l.next.GenerateImage(ctx, req)
	if err != nil {
		l.log.Printf("LLM image error (%s): %v", llmclient.StageFrom(ctx), err)
	}
	return img, err
}

// WithHooks calls HookFrom(ctx).Before/After around each call.
// If no hook is present in the context, it is a no-op.
func WithHooks() Middleware {
	return func(next llmclient.Client) llmclient.Client {
		return &hooked{next: next}
	}
}

type hooked struct{ next llmclient.Client }

func (h *hooked) Name() string { return h.next.Name() }
func (h *hooked) Close() error { return h.next.Close() }

func (h *hooked) GenerateJSON(ctx context.Context, req llmclient.Request) (json.RawMessage, error) {
	if hook := HookFrom(ctx); hook != nil {
		hook.Before(ctx, llmclient.StageFrom(ctx), req.Prompt, req.Input)
	}
	raw, err := h.next.GenerateJSON(ctx, req)
	if hook := HookFrom(ctx); hook != nil {
		hook.After(ctx, llmclient.StageFrom(ctx), raw, err)
	}
	return raw, err
}

func (h *hooked) GenerateImage(ctx context.Context, req llmclient.ImageRequest) (llmclient.Image, error) {
	if hook := HookFrom(ctx); hook != nil {
		hook.Before(ctx, llmclient.StageFrom(ctx), req.Prompt, nil)
	}
	img, err := h.next.GenerateImage(ctx, req)
	if hook := HookFrom(ctx); hook != nil {
		hook.After(ctx, llmclient.StageFrom(ctx), nil, err)
	}
	return img, err
}
