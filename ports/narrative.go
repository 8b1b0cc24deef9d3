package ports

import "context"

// NarrativeRequest carries the payload handed to the external language model
type NarrativeRequest struct {
	Model     string
	Prompt    string
	MaxTokens int
}

// NarrativeUsage records token consumption and estimated cost of one call
type NarrativeUsage struct {
	Model        string  `json:"model"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
}

// ChunkFunc receives one incremental text chunk of a streamed response
type ChunkFunc func(chunk string)

// NarrativeClient is the external narrative service boundary. The core never
// depends on a concrete implementation; tests stub it out entirely. A failed
// call never invalidates an already computed analysis result.
type NarrativeClient interface {
	// Complete performs a blocking completion and returns the full text.
	Complete(ctx context.Context, req NarrativeRequest) (string, *NarrativeUsage, error)

	// Stream delivers the response incrementally through onChunk and
	// returns usage once the stream ends.
	Stream(ctx context.Context, req NarrativeRequest, onChunk ChunkFunc) (*NarrativeUsage, error)
}
