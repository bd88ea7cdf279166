package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/SWGEvolve/swg-graphql/internal/domain"
	"github.com/SWGEvolve/swg-graphql/internal/domain/object"
	"github.com/SWGEvolve/swg-graphql/internal/domain/search/hit"
	"github.com/SWGEvolve/swg-graphql/internal/es"
	batchuc "github.com/SWGEvolve/swg-graphql/internal/usecase/batch"
	healthuc "github.com/SWGEvolve/swg-graphql/internal/usecase/health"
	searchuc "github.com/SWGEvolve/swg-graphql/internal/usecase/search"
)

// --- Test doubles ---

type stubIndex struct {
	hits  []hit.Hit
	total int64
	err   error
}

func (s *stubIndex) Search(context.Context, *es.Query, int, int) ([]hit.Hit, int64, error) {
	return s.hits, s.total, s.err
}

type stubObjects struct {
	objects map[string]*object.ServerObject
}

func (s *stubObjects) GetObject(_ context.Context, id string) (*object.ServerObject, error) {
	if obj, ok := s.objects[id]; ok {
		return obj, nil
	}
	return nil, domain.ErrNotFound
}

type stubResources struct{}

func (stubResources) GetResourceType(context.Context, string) (*object.ResourceType, error) {
	return nil, domain.ErrNotFound
}

type stubBulk struct {
	objects []object.PlayerCreatureObject
	err     error
}

func (s *stubBulk) GetMany(context.Context, []string, []string) ([]object.PlayerCreatureObject, error) {
	return s.objects, s.err
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type serverFixture struct {
	index *stubIndex
	bulk  *stubBulk
	ping  stubPinger
}

func newTestServer(t *testing.T, fx serverFixture) *httptest.Server {
	t.Helper()

	objects := &stubObjects{objects: map[string]*object.ServerObject{
		"5": {ID: "5", Name: "Crate"},
	}}
	searchSvc := searchuc.New(fx.index, objects, stubResources{}, true, zap.NewNop())

	batchSvc, err := batchuc.New(fx.bulk, 1000, 10, zap.NewNop())
	if err != nil {
		t.Fatalf("batch.New: %v", err)
	}
	t.Cleanup(batchSvc.Close)

	healthSvc := healthuc.New(fx.ping, nil)

	r := chi.NewRouter()
	NewServer(searchSvc, batchSvc, healthSvc, zap.NewNop()).Routes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	res, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { _ = res.Body.Close() })
	return res
}

func decodeError(t *testing.T, res *http.Response) errorResponse {
	t.Helper()
	var e errorResponse
	if err := json.NewDecoder(res.Body).Decode(&e); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return e
}

// --- Tests ---

func TestSearchEndpoint(t *testing.T) {
	srv := newTestServer(t, serverFixture{
		index: &stubIndex{
			hits:  []hit.Hit{{DocumentID: "5", DocumentType: "Object", Score: 2}},
			total: 1,
		},
		bulk: &stubBulk{},
	})

	res := postJSON(t, srv.URL+"/api/v1/search", `{"searchText": "crate"}`)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	var body struct {
		TotalResultCount int64 `json:"totalResultCount"`
		Results          []struct {
			Kind   string          `json:"kind"`
			Object json.RawMessage `json:"object"`
		} `json:"results"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.TotalResultCount != 1 {
		t.Errorf("expected total 1, got %d", body.TotalResultCount)
	}
	if len(body.Results) != 1 || body.Results[0].Kind != "Object" {
		t.Fatalf("unexpected results: %+v", body.Results)
	}
	var obj object.ServerObject
	if err := json.Unmarshal(body.Results[0].Object, &obj); err != nil || obj.Name != "Crate" {
		t.Errorf("unexpected object payload: %s", body.Results[0].Object)
	}
}

func TestSearchEndpoint_InvalidBody(t *testing.T) {
	srv := newTestServer(t, serverFixture{index: &stubIndex{}, bulk: &stubBulk{}})

	res := postJSON(t, srv.URL+"/api/v1/search", `{not json`)
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.StatusCode)
	}
	if e := decodeError(t, res); e.Code != codeBadRequest {
		t.Errorf("expected code %s, got %s", codeBadRequest, e.Code)
	}
}

func TestSearchEndpoint_NegativeFrom(t *testing.T) {
	srv := newTestServer(t, serverFixture{index: &stubIndex{}, bulk: &stubBulk{}})

	res := postJSON(t, srv.URL+"/api/v1/search", `{"searchText": "x", "from": -1}`)
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.StatusCode)
	}
}

func TestSearchEndpoint_MalformedRawQuery(t *testing.T) {
	srv := newTestServer(t, serverFixture{index: &stubIndex{}, bulk: &stubBulk{}})

	res := postJSON(t, srv.URL+"/api/v1/search",
		`{"searchText": "not json at all", "searchTextIsRawQuery": true}`)
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.StatusCode)
	}
	if e := decodeError(t, res); e.Code != codeMalformedQuery {
		t.Errorf("expected code %s, got %s", codeMalformedQuery, e.Code)
	}
}

func TestSearchEndpoint_IndexUnavailable(t *testing.T) {
	srv := newTestServer(t, serverFixture{
		index: &stubIndex{err: domain.ErrIndexUnavailable},
		bulk:  &stubBulk{},
	})

	res := postJSON(t, srv.URL+"/api/v1/search", `{"searchText": "x"}`)
	if res.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", res.StatusCode)
	}
	if e := decodeError(t, res); e.Code != codeIndexUnavailable {
		t.Errorf("expected code %s, got %s", codeIndexUnavailable, e.Code)
	}
}

func TestSearchEndpoint_QueryRejected(t *testing.T) {
	srv := newTestServer(t, serverFixture{
		index: &stubIndex{err: domain.ErrQueryRejected},
		bulk:  &stubBulk{},
	})

	res := postJSON(t, srv.URL+"/api/v1/search", `{"searchText": "x"}`)
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.StatusCode)
	}
	if e := decodeError(t, res); e.Code != codeQueryRejected {
		t.Errorf("expected code %s, got %s", codeQueryRejected, e.Code)
	}
}

func TestResolveEndpoint(t *testing.T) {
	srv := newTestServer(t, serverFixture{
		index: &stubIndex{},
		bulk: &stubBulk{objects: []object.PlayerCreatureObject{
			{ID: "1", Name: "Han"},
			{ID: "2", Name: "Leia"},
		}},
	})

	res := postJSON(t, srv.URL+"/api/v1/objects/resolve", `{"ids": ["1", "2"]}`)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	var body struct {
		Results []struct {
			Kind string `json:"kind"`
		} `json:"results"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Results) != 2 || body.Results[0].Kind != "PlayerCreatureObject" {
		t.Errorf("unexpected results: %+v", body.Results)
	}
}

func TestResolveEndpoint_ChunkFailure(t *testing.T) {
	srv := newTestServer(t, serverFixture{
		index: &stubIndex{},
		bulk:  &stubBulk{err: errors.New("db timeout")},
	})

	res := postJSON(t, srv.URL+"/api/v1/objects/resolve", `{"ids": ["1"]}`)
	if res.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", res.StatusCode)
	}
	if e := decodeError(t, res); e.Code != codeBatchFailed {
		t.Errorf("expected code %s, got %s", codeBatchFailed, e.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, serverFixture{index: &stubIndex{}, bulk: &stubBulk{}})

	res, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("expected status ok, got %s", body.Status)
	}
}

func TestHealthEndpoint_Degraded(t *testing.T) {
	srv := newTestServer(t, serverFixture{
		index: &stubIndex{},
		bulk:  &stubBulk{},
		ping:  stubPinger{err: context.DeadlineExceeded},
	})

	res, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", res.StatusCode)
	}
}
