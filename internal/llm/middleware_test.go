package llm

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"adforge/internal/llmclient"
	"adforge/internal/tester"
)

func TestWrapAppliesLeftToRight(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next llmclient.Client) llmclient.Client {
			return &tagged{next: next, name: name, order: &order}
		}
	}

	c := Wrap(llmclient.NewFake(), tag("outer"), tag("inner"))
	_, err := c.GenerateJSON(llmclient.WithStage(context.Background(), "planner"), llmclient.Request{})
	tester.NoErr(t, err)
	tester.Eq(t, order, []string{"outer", "inner"})
}

type tagged struct {
	next  llmclient.Client
	name  string
	order *[]string
}

func (c *tagged) Name() string { return c.next.Name() }
func (c *tagged) Close() error { return c.next.Close() }

func (c *tagged) GenerateJSON(ctx context.Context, req llmclient.Request) (json.RawMessage, error) {
	*c.order = append(*c.order, c.name)
	return c.next.GenerateJSON(ctx, req)
}

func (c *tagged) GenerateImage(ctx context.Context, req llmclient.ImageRequest) (llmclient.Image, error) {
	*c.order = append(*c.order, c.name)
	return c.next.GenerateImage(ctx, req)
}

func TestRateLimitDisabledPassesThrough(t *testing.T) {
	c := Wrap(llmclient.NewFake(), RateLimit(0, 0))
	ctx := llmclient.WithStage(context.Background(), "planner")
	for i := 0; i < 5; i++ {
		_, err := c.GenerateJSON(ctx, llmclient.Request{})
		tester.NoErr(t, err)
	}
}

func TestRateLimitHonorsContextCancel(t *testing.T) {
	// Burst of 1 at a very slow refill; the second call must block and
	// then fail with the context error.
	c := Wrap(llmclient.NewFake(), RateLimit(0.001, 1))
	ctx := llmclient.WithStage(context.Background(), "planner")

	_, err := c.GenerateJSON(ctx, llmclient.Request{})
	tester.NoErr(t, err)

	cancelCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = c.GenerateJSON(cancelCtx, llmclient.Request{})
	tester.Err(t, err, "expected context deadline while throttled")
}

type recordingHook struct {
	before, after int
}

func (h *recordingHook) Before(ctx context.Context, stage, prompt string, input any) { h.before++ }
func (h *recordingHook) After(ctx context.Context, stage string, raw json.RawMessage, err error) {
	h.after++
}

func TestWithHooksReadsContextHook(t *testing.T) {
	c := Wrap(llmclient.NewFake(), WithHooks())

	hook := &recordingHook{}
	ctx := WithHook(llmclient.WithStage(context.Background(), "planner"), hook)
	_, err := c.GenerateJSON(ctx, llmclient.Request{})
	tester.NoErr(t, err)
	tester.Eq(t, hook.before, 1)
	tester.Eq(t, hook.after, 1)

	// No hook in context is a no-op, not a panic.
	_, err = c.GenerateJSON(llmclient.WithStage(context.Background(), "planner"), llmclient.Request{})
	tester.NoErr(t, err)
}
