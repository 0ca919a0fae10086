package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/atlas/pkg/config"
	"github.com/matzehuels/atlas/pkg/graphio"
	"github.com/matzehuels/atlas/pkg/kgraph"
	"github.com/matzehuels/atlas/pkg/store"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	g := kgraph.New()
	if err := g.AddNode(kgraph.Node{ID: "ml", Kind: kgraph.KindTopic}); err != nil {
		t.Fatal(err)
	}
	srv := New(g, store.NewMemStore(), config.Server{Autosave: true}, log.New(io.Discard))
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return srv, ts
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestAddNodeEndpoint(t *testing.T) {
	srv, ts := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/nodes", map[string]any{
		"id": "bert", "type": "paper", "level": 1,
		"metadata": map[string]string{"url": "https://arxiv.org/abs/1810.04805"},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	n, ok := srv.graph.Node("bert")
	if !ok {
		t.Fatal("node not added")
	}
	if n.Kind != kgraph.KindPaper || n.Meta.URL == "" {
		t.Errorf("node = %+v", n)
	}

	// Duplicate conflicts.
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/nodes", map[string]any{
		"id": "bert", "type": "paper",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", resp.StatusCode)
	}

	// Unknown type is a bad request.
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/nodes", map[string]any{
		"id": "x", "type": "unicorn",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown type status = %d, want 400", resp.StatusCode)
	}
}

func TestEdgeEndpoints(t *testing.T) {
	srv, ts := newTestServer(t)
	srv.graph.AddNode(kgraph.Node{ID: "bert", Kind: kgraph.KindPaper, Level: 1})

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/edges", map[string]string{
		"source": "ml", "target": "bert", "relationship": "contains",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	var e kgraph.Edge
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
		t.Fatal(err)
	}
	if e.Key != 0 || e.Relationship != "contains" {
		t.Errorf("edge = %+v", e)
	}

	// Edge to a missing node is a 404.
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/edges", map[string]string{
		"source": "ml", "target": "ghost",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing target status = %d, want 404", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodDelete, ts.URL+"/api/edges", map[string]string{
		"source": "ml", "target": "bert",
	})
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", resp.StatusCode)
	}
	if srv.graph.EdgeCount() != 0 {
		t.Error("edge not removed")
	}
}

func TestRemoveNodeEndpoint(t *testing.T) {
	srv, ts := newTestServer(t)
	srv.graph.AddNode(kgraph.Node{ID: "bert", Kind: kgraph.KindPaper})
	srv.graph.AddEdge("ml", "bert", "contains")

	resp := doJSON(t, http.MethodDelete, ts.URL+"/api/nodes/bert", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", resp.StatusCode)
	}
	if srv.graph.NodeCount() != 1 || srv.graph.EdgeCount() != 0 {
		t.Error("node removal should cascade to edges")
	}

	resp = doJSON(t, http.MethodDelete, ts.URL+"/api/nodes/ghost", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing node status = %d, want 404", resp.StatusCode)
	}
}

func TestGraphRoundTripEndpoints(t *testing.T) {
	_, ts := newTestServer(t)

	doc := graphio.Graph{
		Nodes: []graphio.Node{
			{ID: "a", Type: "topic"},
			{ID: "b", Type: "paper", Level: 1},
		},
		Edges: []graphio.Edge{{Source: "a", Target: "b", Relationship: "contains"}},
	}
	resp := doJSON(t, http.MethodPut, ts.URL+"/api/graph", doc)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("put status = %d, want 200", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/graph", nil)
	var got graphio.Graph
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got.Nodes) != 2 || len(got.Edges) != 1 {
		t.Errorf("graph = %+v", got)
	}

	// A bad payload must not replace the graph.
	bad := graphio.Graph{
		Nodes: []graphio.Node{{ID: "x", Type: "unicorn"}},
	}
	resp = doJSON(t, http.MethodPut, ts.URL+"/api/graph", bad)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad put status = %d, want 400", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/graph", nil)
	got = graphio.Graph{}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got.Nodes) != 2 {
		t.Error("failed import replaced the graph")
	}
}

func TestSaveAndBackupEndpoints(t *testing.T) {
	srv, ts := newTestServer(t)

	// Backup before any save is a 404.
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/backup", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("backup status = %d, want 404", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/save", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("save status = %d, want 200", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/backup?name=pre-edit", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("backup status = %d, want 200", resp.StatusCode)
	}

	// Saved snapshot loads back.
	g, err := srv.store.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if g.NodeCount() != 1 {
		t.Errorf("loaded nodes = %d, want 1", g.NodeCount())
	}
}

func TestAutosave(t *testing.T) {
	srv, ts := newTestServer(t)

	doJSON(t, http.MethodPost, ts.URL+"/api/nodes", map[string]any{
		"id": "auto", "type": "concept",
	})

	g, err := srv.store.Load(context.Background())
	if err != nil {
		t.Fatalf("autosave did not persist: %v", err)
	}
	if _, ok := g.Node("auto"); !ok {
		t.Error("autosaved snapshot missing new node")
	}
}

func TestStatsEndpoint(t *testing.T) {
	srv, ts := newTestServer(t)
	srv.graph.AddNode(kgraph.Node{ID: "bert", Kind: kgraph.KindPaper})
	srv.graph.AddEdge("ml", "bert", "contains")

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/stats", nil)
	var st stats
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatal(err)
	}
	if st.Nodes != 2 || st.Edges != 1 {
		t.Errorf("stats = %+v", st)
	}
	if st.Kinds["paper"] != 1 {
		t.Errorf("kinds = %v", st.Kinds)
	}
	if len(st.Relationships) != 1 || st.Relationships[0] != "contains" {
		t.Errorf("relationships = %v", st.Relationships)
	}
}

func TestIndexServesVisualization(t *testing.T) {
	_, ts := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if !bytes.Contains(body, []byte("vis-network")) {
		t.Error("index page missing visualization script")
	}
}

func TestRequestIDHeader(t *testing.T) {
	_, ts := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/stats", nil)
	if resp.Header.Get("X-Request-Id") == "" {
		t.Error("response missing X-Request-Id")
	}

	// A client-provided ID is echoed back.
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/stats", nil)
	req.Header.Set("X-Request-Id", "test-id-123")
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	if got := resp2.Header.Get("X-Request-Id"); got != "test-id-123" {
		t.Errorf("X-Request-Id = %q, want echo", got)
	}
}
