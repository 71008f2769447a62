package dalleapi

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// PredictRequest mirrors the positional argument list of the space's /run
// endpoint.
type PredictRequest struct {
	Prompt            string
	NegativePrompt    string
	UseNegativePrompt bool
	Style             string
	Seed              int64
	Width             int
	Height            int
	GuidanceScale     float64
	RandomizeSeed     bool
}

// Artifact is one generated image.
type Artifact struct {
	URL string `json:"url"`
}

// PredictResponse carries the ordered artifacts plus the seed the backend
// actually used, which differs from the requested one when randomization
// was on.
type PredictResponse struct {
	Artifacts []Artifact
	Seed      int64
}

// gradio wire format: arguments and results ride in a positional "data"
// array.
type wireRequest struct {
	Data []interface{} `json:"data"`
}

type wireResponse struct {
	Data  []json.RawMessage `json:"data"`
	Error string            `json:"error,omitempty"`
}

type wireImageEntry struct {
	Image Artifact `json:"image"`
}

// Predict submits a generation synchronously and blocks until the space
// returns or fails. Backend failure text is surfaced verbatim so callers
// can classify it.
func (c *Client) Predict(req PredictRequest) (*PredictResponse, error) {
	payload := wireRequest{
		Data: []interface{}{
			req.Prompt,
			req.NegativePrompt,
			req.UseNegativePrompt,
			req.Style,
			req.Seed,
			req.Width,
			req.Height,
			req.GuidanceScale,
			req.RandomizeSeed,
		},
	}

	c.logger.Debug("Submitting prediction",
		zap.String("style", req.Style),
		zap.Int("width", req.Width),
		zap.Int("height", req.Height),
		zap.Int64("seed", req.Seed),
		zap.Bool("randomize_seed", req.RandomizeSeed),
	)

	body, err := c.doPostRequest(c.endpoint, payload)
	if err != nil {
		return nil, fmt.Errorf("prediction failed: %w", err)
	}

	var wire wireResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("failed to unmarshal prediction response: %w, body: %s", err, string(body))
	}
	if wire.Error != "" {
		return nil, fmt.Errorf("prediction failed: %s", wire.Error)
	}
	if len(wire.Data) < 2 {
		return nil, fmt.Errorf("unexpected prediction response shape: %s", string(body))
	}

	var entries []wireImageEntry
	if err := json.Unmarshal(wire.Data[0], &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal artifact list: %w", err)
	}
	var seed int64
	if err := json.Unmarshal(wire.Data[1], &seed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal actual seed: %w", err)
	}

	resp := &PredictResponse{Seed: seed}
	for _, e := range entries {
		resp.Artifacts = append(resp.Artifacts, e.Image)
	}

	c.logger.Debug("Prediction successful", zap.Int("artifact_count", len(resp.Artifacts)), zap.Int64("actual_seed", seed))
	return resp, nil
}
