package llm

import (
	"context"

	"tabwise/ports"
)

// MockClient is a narrative client for testing
type MockClient struct {
	Response string   // Set this for testing
	Chunks   []string // Streamed pieces; falls back to Response as one chunk
	Error    error    // Set this to simulate errors
	Calls    int
}

// Complete returns the canned response
func (m *MockClient) Complete(ctx context.Context, req ports.NarrativeRequest) (string, *ports.NarrativeUsage, error) {
	m.Calls++
	if m.Error != nil {
		return "", nil, m.Error
	}
	response := m.Response
	if response == "" {
		response = "## Executive Summary\n\nNo notable findings."
	}
	return response, &ports.NarrativeUsage{Model: req.Model}, nil
}

// Stream delivers the canned chunks in order
func (m *MockClient) Stream(ctx context.Context, req ports.NarrativeRequest, onChunk ports.ChunkFunc) (*ports.NarrativeUsage, error) {
	m.Calls++
	if m.Error != nil {
		return nil, m.Error
	}
	chunks := m.Chunks
	if len(chunks) == 0 {
		response := m.Response
		if response == "" {
			response = "## Executive Summary\n\nNo notable findings."
		}
		chunks = []string{response}
	}
	for _, chunk := range chunks {
		onChunk(chunk)
	}
	return &ports.NarrativeUsage{Model: req.Model}, nil
}
