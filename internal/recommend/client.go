// Package recommend turns a closet snapshot into a single outfit
// recommendation by calling a generative text provider over its REST wire
// contract. One request, one response, no retries: the caller decides
// whether to re-invoke after a failure.
package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"closet-go/internal/closet"
	"closet-go/internal/model"
)

// Each failure mode is a distinct sentinel so callers can tell them apart
// with errors.Is. None of these are retried by the client.
var (
	ErrInvalidConfig = errors.New("invalid recommender configuration")
	ErrNetwork       = errors.New("recommendation request failed")
	ErrProvider      = errors.New("recommendation provider error")
	ErrEmptyBody     = errors.New("empty response from provider")
	ErrBadEnvelope   = errors.New("response missing recommendation text")
	ErrBadPayload    = errors.New("recommendation payload not parseable")
)

// Client calls the generative provider's generateContent endpoint.
// It is safe for concurrent use, though the surrounding application issues
// at most one request at a time.
type Client struct {
	httpClient *http.Client
	baseURL    string
	model      string
	apiKey     string
	logger     closet.Logger
}

var _ closet.Recommender = (*Client)(nil)

// NewClient creates a recommendation client. baseURL is the provider API
// root (e.g. "https://generativelanguage.googleapis.com/v1beta"); model
// names the generative model to query. httpClient may be nil, in which case
// http.DefaultClient is used; no timeout beyond the transport's own is
// enforced, cancellation happens through the request context.
func NewClient(baseURL, model, apiKey string, httpClient *http.Client, logger closet.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		model:      model,
		apiKey:     apiKey,
		logger:     logger,
	}
}

// generateRequest is the provider's request body.
type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMimeType string  `json:"responseMimeType"`
}

// generateResponse is the provider's response envelope. The recommendation
// itself arrives as a JSON string nested inside the first candidate's text.
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Recommend submits the closet snapshot to the provider and parses its
// answer. Exactly one of the returned values is non-nil.
func (c *Client) Recommend(ctx context.Context, snapshot closet.Snapshot) (*model.OutfitRecommendation, error) {
	endpoint, err := c.endpoint()
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: buildPrompt(snapshot)}}}},
		GenerationConfig: generationConfig{
			Temperature:      0.7,
			ResponseMimeType: "application/json",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrNetwork, err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(data))
		if msg == "" {
			msg = fmt.Sprintf("HTTP %d", resp.StatusCode)
		}
		c.logger.Warn("provider returned error", "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: %s", ErrProvider, msg)
	}

	if len(data) == 0 {
		return nil, ErrEmptyBody
	}

	var envelope generateResponse
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadEnvelope, err)
	}
	text := envelope.text()
	if text == "" {
		return nil, ErrBadEnvelope
	}

	var rec model.OutfitRecommendation
	if err := json.Unmarshal([]byte(text), &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	c.logger.Debug("recommendation received", "explanation", rec.Explanation)
	return &rec, nil
}

// endpoint assembles the generateContent URL with the API key as a query
// parameter.
func (c *Client) endpoint() (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: api key not set", ErrInvalidConfig)
	}
	u, err := url.Parse(c.baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: bad base url %q", ErrInvalidConfig, c.baseURL)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/models/" + c.model + ":generateContent"
	q := u.Query()
	q.Set("key", c.apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// text unwraps the first candidate's first text part.
func (r *generateResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	parts := r.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return ""
	}
	return parts[0].Text
}

// buildPrompt embeds the four category lists and the return-only-JSON
// instruction. Category lists are rendered as JSON so item IDs survive
// verbatim.
func buildPrompt(snapshot closet.Snapshot) string {
	var b strings.Builder
	b.WriteString("Return ONLY JSON. Items:\n")
	for _, cat := range []string{"hats", "shirts", "pants", "shoes"} {
		items := snapshot[cat]
		if items == nil {
			items = []closet.SnapshotItem{}
		}
		encoded, err := json.Marshal(items)
		if err != nil {
			encoded = []byte("[]")
		}
		fmt.Fprintf(&b, "%s%s: %s\n", strings.ToUpper(cat[:1]), cat[1:], encoded)
	}
	b.WriteString("\nStructure: {\"hatID\": \"ID or null\", \"shirtID\": \"ID\", \"pantsID\": \"ID\", \"shoesID\": \"ID\", \"explanation\": \"text\"}")
	return b.String()
}
