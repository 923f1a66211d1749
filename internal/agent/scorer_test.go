package agent

import (
	"context"
	"testing"

	"adforge/internal/domain"
	"adforge/internal/llmclient"
	"adforge/internal/tester"
)

func TestScorerRequiresInput(t *testing.T) {
	s := NewScorer(llmclient.NewFake())
	_, err := s.Score(context.Background(), ScoreInput{Mode: domain.AnalyzePerformance})
	tester.Err(t, err)
}

func TestScorerPerformanceMode(t *testing.T) {
	s := NewScorer(llmclient.NewFake())

	out, err := s.Score(context.Background(), ScoreInput{
		Mode: domain.AnalyzePerformance,
		Text: "Fuel the grind. Shop now.",
	})
	tester.NoErr(t, err)
	tester.True(t, out.Scores.Overall >= 0 && out.Scores.Overall <= 100)
	tester.True(t, out.Feedback != "")
}

func TestScorerCreativeModeDeclaresFocalPoints(t *testing.T) {
	fields := scorerFields(domain.AnalyzeCreative)
	last := fields[len(fields)-1]
	tester.Eq(t, last.Name, "focalPoints")
	tester.True(t, last.Required)

	perf := scorerFields(domain.AnalyzePerformance)
	for _, f := range perf {
		tester.True(t, f.Name != "focalPoints", "performance mode must not require focal points")
	}
}

func TestScorerCreativeModeParsesFocalPoints(t *testing.T) {
	s := NewScorer(llmclient.NewFake())

	out, err := s.Score(context.Background(), ScoreInput{
		Mode:      domain.AnalyzeCreative,
		ImageData: []byte("png-bytes"),
		ImageMIME: "image/png",
	})
	tester.NoErr(t, err)
	tester.True(t, len(out.FocalPoints) > 0)
	fp := out.FocalPoints[0]
	tester.True(t, fp.X >= 0 && fp.X <= 100)
	tester.True(t, fp.Y >= 0 && fp.Y <= 100)
}
