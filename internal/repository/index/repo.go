// Package index executes composite queries against the Elasticsearch index.
package index

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/olivere/elastic/v7"

	"github.com/SWGEvolve/swg-graphql/internal/domain"
	"github.com/SWGEvolve/swg-graphql/internal/domain/search/hit"
	"github.com/SWGEvolve/swg-graphql/internal/es"
)

// Config holds connection parameters for the search index.
type Config struct {
	Addrs    []string
	Username string
	Password string
}

// NewClient creates an Elasticsearch client. Sniffing and health checks are
// disabled: the index sits behind a fixed set of addresses and the callers
// own availability handling.
func NewClient(cfg Config) (*elastic.Client, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}
	opts := []elastic.ClientOptionFunc{
		elastic.SetURL(cfg.Addrs...),
		elastic.SetSniff(false),
		elastic.SetHealthcheck(false),
	}
	if cfg.Username != "" {
		opts = append(opts, elastic.SetBasicAuth(cfg.Username, cfg.Password))
	}
	client, err := elastic.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return client, nil
}

// Repo implements the search executor over an Elasticsearch index.
type Repo struct {
	client *elastic.Client
	index  string
}

// New creates an index repository for the named index.
func New(client *elastic.Client, index string) *Repo {
	return &Repo{client: client, index: index}
}

// documentSource is the subset of indexed fields the executor reads per hit.
type documentSource struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// Search runs the query with the given pagination window. Hits come back in
// the index's descending score order; no client-side re-sort. The total is
// the index's reported total-hit value, 0 when absent.
func (r *Repo) Search(ctx context.Context, q *es.Query, from, size int) ([]hit.Hit, int64, error) {
	res, err := r.client.Search(r.index).
		Query(q).
		From(from).
		Size(size).
		Do(ctx)
	if err != nil {
		return nil, 0, classify(err)
	}
	if res.Hits == nil {
		return nil, 0, nil
	}

	var total int64
	if res.Hits.TotalHits != nil {
		total = res.Hits.TotalHits.Value
	}

	hits := make([]hit.Hit, 0, len(res.Hits.Hits))
	for _, h := range res.Hits.Hits {
		var src documentSource
		if len(h.Source) > 0 {
			if err := json.Unmarshal(h.Source, &src); err != nil {
				return nil, 0, fmt.Errorf("decode hit %s: %w", h.Id, err)
			}
		}
		if src.ID == "" {
			src.ID = h.Id
		}
		var score float64
		if h.Score != nil {
			score = *h.Score
		}
		hits = append(hits, hit.Hit{
			DocumentID:   src.ID,
			DocumentType: src.Type,
			Score:        score,
		})
	}
	return hits, total, nil
}

// Ping checks index availability.
func (r *Repo) Ping(ctx context.Context) error {
	if _, err := r.client.ClusterHealth().Do(ctx); err != nil {
		return fmt.Errorf("cluster health: %w", err)
	}
	return nil
}

// classify maps index failures onto the domain sentinels. A 400 means the
// index refused the query; everything else is a transport-level failure.
func classify(err error) error {
	var esErr *elastic.Error
	if errors.As(err, &esErr) {
		if esErr.Status == http.StatusBadRequest {
			return fmt.Errorf("%w: %v", domain.ErrQueryRejected, err)
		}
		return fmt.Errorf("%w: status %d", domain.ErrIndexUnavailable, esErr.Status)
	}
	return fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
}
