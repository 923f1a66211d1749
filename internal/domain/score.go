package domain

// AnalysisMode selects what the scorer evaluates.
type AnalysisMode string

const (
	// AnalyzePerformance predicts ad performance from copy or an image.
	AnalyzePerformance AnalysisMode = "performance"
	// AnalyzeCreative adds predicted visual focal points for a heatmap overlay.
	AnalyzeCreative AnalysisMode = "creative"
)

// CreativeScore is the scorer agent's prediction.
type CreativeScore struct {
	Scores      ScoreBreakdown `json:"scores"`
	Feedback    string         `json:"feedback"`
	FocalPoints []FocalPoint   `json:"focalPoints,omitempty"`
}

// ScoreBreakdown holds 0-100 sub-scores.
type ScoreBreakdown struct {
	Attention  float64 `json:"attention"`
	Clarity    float64 `json:"clarity"`
	Branding   float64 `json:"branding"`
	Conversion float64 `json:"conversion"`
	Overall    float64 `json:"overall"`
}

// FocalPoint is a predicted gaze target, coordinates normalized to 0-100.
type FocalPoint struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Intensity float64 `json:"intensity"`
}
