package llm

import (
	"sync"

	"tabwise/ports"
)

// pricing holds USD cost per million tokens, keyed by model
type pricing struct {
	Input  float64
	Output float64
}

// modelPricing is the static pricing table used for cost estimates.
// Unknown models simply report zero cost; pricing is bookkeeping, never a
// gate on the call itself.
var modelPricing = map[string]pricing{
	"gpt-4o":      {Input: 2.50, Output: 10.00},
	"gpt-4o-mini": {Input: 0.15, Output: 0.60},
	"gpt-4.1":     {Input: 2.00, Output: 8.00},
}

// estimateCost computes the USD cost for a call
func estimateCost(model string, inputTokens, outputTokens int) float64 {
	p, ok := modelPricing[model]
	if !ok {
		return 0
	}
	return float64(inputTokens)/1e6*p.Input + float64(outputTokens)/1e6*p.Output
}

// CostTracker accumulates usage across calls of one session
type CostTracker struct {
	mu      sync.Mutex
	history []ports.NarrativeUsage
}

// Record appends one call's usage
func (t *CostTracker) Record(usage ports.NarrativeUsage) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.history = append(t.history, usage)
}

// History returns a copy of the recorded usage
func (t *CostTracker) History() []ports.NarrativeUsage {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]ports.NarrativeUsage, len(t.history))
	copy(out, t.history)
	return out
}

// TotalCostUSD sums the estimated cost of all recorded calls
func (t *CostTracker) TotalCostUSD() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	total := 0.0
	for _, u := range t.history {
		total += u.CostUSD
	}
	return total
}
