// Package gameserver is the HTTP client for the authoritative object store.
package gameserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SWGEvolve/swg-graphql/internal/domain"
	"github.com/SWGEvolve/swg-graphql/internal/domain/object"
)

const defaultTimeout = 10 * time.Second

// Client talks to the game server's object lookup API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a game server client.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// GetObject looks up a generic object by id. Missing ids map to ErrNotFound.
func (c *Client) GetObject(ctx context.Context, id string) (*object.ServerObject, error) {
	var obj object.ServerObject
	if err := c.getJSON(ctx, "/objects/"+url.PathEscape(id), &obj); err != nil {
		return nil, err
	}
	return &obj, nil
}

// GetResourceType looks up a resource type by id.
func (c *Client) GetResourceType(ctx context.Context, id string) (*object.ResourceType, error) {
	var rt object.ResourceType
	if err := c.getJSON(ctx, "/resource-types/"+url.PathEscape(id), &rt); err != nil {
		return nil, err
	}
	return &rt, nil
}

// bulkRequest is the body of a bulk object lookup.
type bulkRequest struct {
	IDs   []string `json:"ids"`
	Types []string `json:"types,omitempty"`
}

// bulkResponse wraps the bulk lookup result list.
type bulkResponse struct {
	Objects []object.PlayerCreatureObject `json:"objects"`
}

// GetMany looks up a batch of player creature objects by id, optionally
// restricted to the given game object types. Unknown ids are omitted from
// the response, not errors.
func (c *Client) GetMany(ctx context.Context, ids []string, types []string) ([]object.PlayerCreatureObject, error) {
	body, err := json.Marshal(bulkRequest{IDs: ids, Types: types})
	if err != nil {
		return nil, fmt.Errorf("encode bulk request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/objects/lookup", bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("build bulk request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bulk lookup: %w", err)
	}
	defer drainClose(res.Body)

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bulk lookup: unexpected status %d", res.StatusCode)
	}

	var out bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode bulk response: %w", err)
	}
	return out.Objects, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer drainClose(res.Body)

	switch res.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return domain.ErrNotFound
	default:
		return fmt.Errorf("get %s: unexpected status %d", path, res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// drainClose exhausts the body so the connection can be reused.
func drainClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
