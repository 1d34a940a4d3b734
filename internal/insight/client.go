package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MikeSquared-Agency/Compass/internal/scoring"
)

// Client produces narrative remarks for a computed ranking. Enrichment
// is best-effort; callers treat errors as "no remarks".
type Client interface {
	Enrich(ctx context.Context, result *scoring.DecisionResult) ([]string, error)
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type enrichRequest struct {
	Goal      string              `json:"goal,omitempty"`
	TopChoice string              `json:"top_choice"`
	Matrix    []scoring.MatrixRow `json:"comparison_matrix"`
	Reasoning []string            `json:"reasoning"`
}

type enrichResponse struct {
	Remarks []string `json:"remarks"`
}

func (c *HTTPClient) Enrich(ctx context.Context, result *scoring.DecisionResult) ([]string, error) {
	if result == nil {
		return nil, nil
	}

	payload, err := json.Marshal(enrichRequest{
		Goal:      result.Goal,
		TopChoice: result.TopChoice,
		Matrix:    result.Matrix,
		Reasoning: result.Reasoning,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/v1/enrich", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("insight: %d %s", resp.StatusCode, string(body))
	}

	var out enrichResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return out.Remarks, nil
}
