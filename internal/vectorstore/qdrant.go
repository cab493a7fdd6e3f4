// Package vectorstore backs the question bank and the response archive
// with Qdrant collections, spoken to over its REST API. Points are
// payload-centric: retrieval filters on category, difficulty and skills
// rather than vector similarity, so no embedding service is needed.
package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	// QuestionCollection holds pre-authored interview questions.
	QuestionCollection = "interview_questions"

	// ResponseCollection holds archived candidate answers.
	ResponseCollection = "candidate_responses"
)

// Client is a minimal Qdrant REST client covering the operations the
// interview service needs.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a Qdrant client. The API key is optional for local
// deployments.
func NewClient(baseURL, apiKey string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

// EnsureCollections creates the collections used by the service if they
// do not exist. Existing collections are left untouched.
func (c *Client) EnsureCollections(ctx context.Context) error {
	for _, name := range []string{QuestionCollection, ResponseCollection} {
		exists, err := c.collectionExists(ctx, name)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := c.createCollection(ctx, name); err != nil {
			return err
		}
		c.logger.Info("created qdrant collection", zap.String("collection", name))
	}
	return nil
}

func (c *Client) collectionExists(ctx context.Context, name string) (bool, error) {
	var out struct {
		Result struct {
			Exists bool `json:"exists"`
		} `json:"result"`
	}
	err := c.do(ctx, http.MethodGet, "/collections/"+name+"/exists", nil, &out)
	if err != nil {
		return false, err
	}
	return out.Result.Exists, nil
}

func (c *Client) createCollection(ctx context.Context, name string) error {
	// Points carry a single-dimension placeholder vector; the service
	// only ever filters on payload.
	body := map[string]any{
		"vectors": map[string]any{
			"size":     1,
			"distance": "Dot",
		},
	}
	return c.do(ctx, http.MethodPut, "/collections/"+name, body, nil)
}

// UpsertPoint writes one point with the given payload.
func (c *Client) UpsertPoint(ctx context.Context, collection, id string, payload map[string]any) error {
	body := map[string]any{
		"points": []map[string]any{
			{
				"id":      id,
				"vector":  []float64{0},
				"payload": payload,
			},
		},
	}
	return c.do(ctx, http.MethodPut, "/collections/"+collection+"/points?wait=true", body, nil)
}

// ScrollResult is one point returned by Scroll.
type ScrollResult struct {
	ID      string          `json:"id"`
	Payload json.RawMessage `json:"payload"`
}

// Scroll returns up to limit points matching the filter.
func (c *Client) Scroll(ctx context.Context, collection string, filter map[string]any, limit int) ([]ScrollResult, error) {
	body := map[string]any{
		"limit":        limit,
		"with_payload": true,
	}
	if filter != nil {
		body["filter"] = filter
	}

	var out struct {
		Result struct {
			Points []ScrollResult `json:"points"`
		} `json:"result"`
	}
	if err := c.do(ctx, http.MethodPost, "/collections/"+collection+"/points/scroll", body, &out); err != nil {
		return nil, err
	}
	return out.Result.Points, nil
}

// do executes one REST call, decoding the response into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody bytes.Buffer
		_, _ = errBody.ReadFrom(resp.Body)
		return fmt.Errorf("qdrant %s %s: status %d: %s", method, path, resp.StatusCode, errBody.String())
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode qdrant response: %w", err)
		}
	}
	return nil
}
