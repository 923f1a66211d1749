package agent

import (
	"context"
	"errors"
	"testing"

	"adforge/internal/domain"
	"adforge/internal/llmclient"
	"adforge/internal/tester"
)

func TestCompetitorAnalyzeURL(t *testing.T) {
	a := NewCompetitorAnalyzer(llmclient.NewFake())

	out, err := a.Analyze(context.Background(), CompetitorInput{
		InputType: domain.CompetitorInputURL,
		URL:       "https://rival.example/ad",
	})
	tester.NoErr(t, err)
	tester.Eq(t, out.InputType, domain.CompetitorInputURL)
	tester.Eq(t, out.SourceURL, "https://rival.example/ad")
	tester.True(t, out.VisualStyle != "")
	tester.True(t, len(out.Weaknesses) > 0)
}

func TestCompetitorAnalyzeImage(t *testing.T) {
	a := NewCompetitorAnalyzer(llmclient.NewFake())

	out, err := a.Analyze(context.Background(), CompetitorInput{
		InputType: domain.CompetitorInputImage,
		ImageData: []byte("png-bytes"),
		ImageMIME: "image/png",
	})
	tester.NoErr(t, err)
	tester.Eq(t, out.InputType, domain.CompetitorInputImage)
}

func TestCompetitorRejectsIncompleteInput(t *testing.T) {
	a := NewCompetitorAnalyzer(llmclient.NewFake())

	_, err := a.Analyze(context.Background(), CompetitorInput{InputType: domain.CompetitorInputImage})
	tester.Err(t, err, "image without bytes")

	_, err = a.Analyze(context.Background(), CompetitorInput{InputType: domain.CompetitorInputURL})
	tester.Err(t, err, "url without url")

	_, err = a.Analyze(context.Background(), CompetitorInput{InputType: "video"})
	tester.Err(t, err, "unknown input type")
}

func TestCompetitorURLTransportErrorPropagates(t *testing.T) {
	boom := errors.New("dial tcp: connection refused")
	fake := llmclient.NewFake()
	fake.Err = boom
	a := NewCompetitorAnalyzer(fake)

	_, err := a.Analyze(context.Background(), CompetitorInput{
		InputType: domain.CompetitorInputURL,
		URL:       "https://rival.example",
	})
	tester.True(t, errors.Is(err, boom))
}
