package types

// SoftmaxRequest carries raw model scores to normalize. Base is
// optional; zero means the default base e.
type SoftmaxRequest struct {
	Scores []float64 `json:"scores" binding:"required"`
	Base   float64   `json:"base,omitempty"`
}

// SoftmaxResponse returns the normalized probability distribution.
type SoftmaxResponse struct {
	Distribution []float64 `json:"distribution"`
	Base         float64   `json:"base"`
}

// ScoreRequest asks for a single uncertainty score over a probability
// distribution. Sorted signals the distribution is already ordered
// largest first.
type ScoreRequest struct {
	Distribution []float64 `json:"distribution" binding:"required"`
	Method       string    `json:"method" binding:"required"`
	Sorted       bool      `json:"sorted,omitempty"`
}

// ScoreResponse returns one uncertainty score in the 0-1 range.
type ScoreResponse struct {
	Method string  `json:"method"`
	Score  float64 `json:"score"`
	Labels int     `json:"labels"`
}

// ScoreAllRequest asks for every uncertainty metric at once. Exactly
// one of Distribution or Scores must be set; raw Scores are passed
// through softmax first.
type ScoreAllRequest struct {
	Distribution []float64 `json:"distribution,omitempty"`
	Scores       []float64 `json:"scores,omitempty"`
	Base         float64   `json:"base,omitempty"`
	Sorted       bool      `json:"sorted,omitempty"`
}

// ScoreAllResponse returns all four uncertainty metrics for one
// distribution.
type ScoreAllResponse struct {
	Distribution    []float64 `json:"distribution"`
	MarginOfConf    float64   `json:"margin_confidence"`
	RatioOfConf     float64   `json:"ratio_confidence"`
	LeastConfidence float64   `json:"least_confidence"`
	EntropyScore    float64   `json:"entropy_score"`
	Labels          int       `json:"labels"`
}
