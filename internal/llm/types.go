package llm

// GenerateRequest is the payload for POST /api/generate.
type GenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// GenerateResponse is the non-streaming reply from /api/generate.
// Only the fields the service reads are decoded.
type GenerateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// EmbedRequest is the payload for POST /api/embed.
type EmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// EmbedResponse holds one vector per input, in input order.
type EmbedResponse struct {
	Model      string      `json:"model"`
	Embeddings [][]float64 `json:"embeddings"`
}

// ModelInfo is a single entry from GET /api/tags.
type ModelInfo struct {
	Name  string `json:"name"`
	Model string `json:"model"`
	Size  int64  `json:"size"`
}

// TagsResponse is the reply from GET /api/tags.
type TagsResponse struct {
	Models []ModelInfo `json:"models"`
}

// PullRequest is the payload for POST /api/pull.
type PullRequest struct {
	Model  string `json:"model"`
	Stream bool   `json:"stream"`
}

// PullResponse is the final status line of a non-streaming pull.
type PullResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
