package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lcalzada-xor/authgate/internal/core/domain"
	"github.com/lcalzada-xor/authgate/internal/core/ports"
)

// maxResponseSize bounds verdict bodies; a verdict is a few dozen bytes, so
// anything near this limit is garbage anyway.
const maxResponseSize = 1 << 20

// HTTPClient implements ports.Classifier against the oracle's HTTP scoring
// endpoint. One POST per classification, bounded by the configured timeout,
// no retries.
type HTTPClient struct {
	url    string
	client *http.Client
}

// NewHTTPClient creates a classifier client for the given scoring endpoint.
func NewHTTPClient(url string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		url: url,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// scoringRequest is the oracle's expected schema. The named feature map is
// authoritative; the top-level convenience fields are a lossy reconstruction
// kept because older oracle versions read them when `features` is absent.
type scoringRequest struct {
	Email         float64            `json:"email"`
	Password      float64            `json:"password"`
	Method        string             `json:"method"`
	Endpoint      string             `json:"endpoint"`
	UserAgent     float64            `json:"user_agent"`
	IP            string             `json:"ip"`
	TimeSinceLast float64            `json:"time_since_last"`
	Body          scoringBody        `json:"body"`
	Features      map[string]float64 `json:"features"`
}

type scoringBody struct {
	Email    float64 `json:"email"`
	Password float64 `json:"password"`
}

// Classify sends the feature vector to the oracle and parses its verdict.
// Failures map onto the two classifier error classes: transport trouble
// (network, timeout, non-2xx) and protocol trouble (unparsable verdict).
func (c *HTTPClient) Classify(ctx context.Context, features domain.FeatureVector) (*domain.Verdict, error) {
	payload, err := json.Marshal(buildRequest(features))
	if err != nil {
		return nil, fmt.Errorf("%w: encoding request: %v", ports.ErrVerdictMalformed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ports.ErrClassifierUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrClassifierUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
		return nil, fmt.Errorf("%w: oracle returned status %d", ports.ErrClassifierUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ports.ErrClassifierUnavailable, err)
	}

	var verdict domain.Verdict
	if err := json.Unmarshal(body, &verdict); err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrVerdictMalformed, err)
	}
	if verdict.Label == "" {
		return nil, fmt.Errorf("%w: verdict missing threatType", ports.ErrVerdictMalformed)
	}

	return &verdict, nil
}

// buildRequest projects the positional vector into the oracle's schema.
func buildRequest(v domain.FeatureVector) scoringRequest {
	features := make(map[string]float64, domain.FeaturesLen)
	for i, name := range domain.FeatureNames {
		features[name] = v[i]
	}

	return scoringRequest{
		Email:     v[domain.FeatEmailLength],
		Password:  v[domain.FeatPasswordLength],
		Method:    http.MethodPost,
		Endpoint:  domain.LoginEndpoint,
		UserAgent: v[domain.FeatUserAgentLength],
		IP: fmt.Sprintf("%d.%d.%d.%d",
			int(v[domain.FeatIPOctet1]), int(v[domain.FeatIPOctet2]),
			int(v[domain.FeatIPOctet3]), int(v[domain.FeatIPOctet4])),
		TimeSinceLast: v[domain.FeatTimeSinceLast],
		Body: scoringBody{
			Email:    v[domain.FeatEmailLength],
			Password: v[domain.FeatPasswordLength],
		},
		Features: features,
	}
}

// Ensure interface compliance
var _ ports.Classifier = (*HTTPClient)(nil)
