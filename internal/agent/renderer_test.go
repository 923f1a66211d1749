package agent

import (
	"context"
	"errors"
	"testing"

	"adforge/internal/llmclient"
	"adforge/internal/tester"
)

func TestRemapAspectRatio(t *testing.T) {
	cases := map[string]string{
		"4:5":  "3:4",
		"1:1":  "1:1",
		"9:16": "9:16",
		"16:9": "16:9",
		"3:4":  "3:4",
		"4:3":  "4:3",
	}
	for in, want := range cases {
		tester.Eq(t, RemapAspectRatio(in), want, in)
	}
}

func TestRenderReturnsImage(t *testing.T) {
	r := NewRenderer(llmclient.NewFake())
	img, err := r.Render(context.Background(), "neon athlete", "4:5", "1K")
	tester.NoErr(t, err)
	tester.True(t, len(img.Data) > 0)
	tester.Eq(t, img.MIMEType, "image/png")
}

func TestRenderPropagatesFailure(t *testing.T) {
	boom := errors.New("render backend down")
	fake := llmclient.NewFake()
	fake.ImageErr = boom
	r := NewRenderer(fake)

	_, err := r.Render(context.Background(), "neon athlete", "1:1", "")
	tester.True(t, errors.Is(err, boom))
}
