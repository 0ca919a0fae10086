package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/atlas/pkg/graphio"
	"github.com/matzehuels/atlas/pkg/kgraph"
	"github.com/matzehuels/atlas/pkg/render"
	"github.com/matzehuels/atlas/pkg/store"
)

// handleIndex serves the interactive visualization of the current graph.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	page, err := render.HTML(s.graph, render.Options{})
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

// handleGetGraph returns the full graph in interchange format.
func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	doc := graphio.FromGraph(s.graph)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, doc)
}

// handlePutGraph replaces the graph wholesale. The replacement only
// happens when the payload parses and validates, so a bad request
// leaves the current graph untouched.
func (s *Server) handlePutGraph(w http.ResponseWriter, r *http.Request) {
	g, err := graphio.Read(r.Body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.graph = g
	s.autosave(r.Context())
	writeJSON(w, http.StatusOK, statsFor(g))
}

type nodeRequest struct {
	ID       string            `json:"id"`
	Type     string            `json:"type"`
	Level    int               `json:"level"`
	Metadata *graphio.Metadata `json:"metadata,omitempty"`
}

func (s *Server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	var req nodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, errBadJSON)
		return
	}
	kind, err := kgraph.ParseKind(req.Type)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	n := kgraph.Node{ID: req.ID, Kind: kind, Level: req.Level}
	if req.Metadata != nil {
		n.Meta.URL = req.Metadata.URL
		n.Meta.Description = req.Metadata.Description
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.graph.AddNode(n); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.autosave(r.Context())
	writeJSON(w, http.StatusCreated, map[string]string{"id": req.ID})
}

// nodeDetail is the response for a single node lookup, carrying the
// node together with its incident edges.
type nodeDetail struct {
	ID       string            `json:"id"`
	Type     string            `json:"type"`
	Level    int               `json:"level"`
	Metadata *graphio.Metadata `json:"metadata,omitempty"`
	Outgoing []kgraph.Edge     `json:"outgoing"`
	Incoming []kgraph.Edge     `json:"incoming"`
}

func (s *Server) handleGetNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.graph.Node(id)
	if !ok {
		s.writeError(w, r, fmt.Errorf("node %s: %w", id, kgraph.ErrUnknownNode))
		return
	}

	detail := nodeDetail{
		ID:       n.ID,
		Type:     string(n.Kind),
		Level:    n.Level,
		Outgoing: []kgraph.Edge{},
		Incoming: []kgraph.Edge{},
	}
	if n.Meta.URL != "" || n.Meta.Description != "" {
		detail.Metadata = &graphio.Metadata{URL: n.Meta.URL, Description: n.Meta.Description}
	}
	for _, e := range s.graph.Edges() {
		switch id {
		case e.Source:
			detail.Outgoing = append(detail.Outgoing, e)
		case e.Target:
			detail.Incoming = append(detail.Incoming, e)
		}
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleRemoveNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.graph.RemoveNode(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.autosave(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

type edgeRequest struct {
	Source       string `json:"source"`
	Target       string `json:"target"`
	Relationship string `json:"relationship"`
}

func (s *Server) handleAddEdge(w http.ResponseWriter, r *http.Request) {
	var req edgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, errBadJSON)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.graph.AddEdge(req.Source, req.Target, req.Relationship)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.autosave(r.Context())
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleRemoveEdge(w http.ResponseWriter, r *http.Request) {
	var req edgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, errBadJSON)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.graph.RemoveEdge(req.Source, req.Target); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.autosave(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, errNoStore)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Save(r.Context(), s.graph); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, errNoStore)
		return
	}
	name := r.URL.Query().Get("name")
	if err := s.store.Backup(r.Context(), name); err != nil {
		s.writeError(w, r, err)
		return
	}
	if name == "" {
		name = store.DefaultBackupName
	}
	writeJSON(w, http.StatusOK, map[string]string{"backup": name})
}

// stats summarizes the graph for the stats endpoint.
type stats struct {
	Nodes         int            `json:"nodes"`
	Edges         int            `json:"edges"`
	Kinds         map[string]int `json:"kinds"`
	Relationships []string       `json:"relationships"`
}

func statsFor(g *kgraph.Graph) stats {
	kinds := make(map[string]int)
	for _, n := range g.Nodes() {
		kinds[string(n.Kind)]++
	}
	return stats{
		Nodes:         g.NodeCount(),
		Edges:         g.EdgeCount(),
		Kinds:         kinds,
		Relationships: g.Relationships(),
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	st := statsFor(s.graph)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, st)
}

// Request-level sentinel errors.
var (
	errBadJSON = errors.New("malformed JSON body")
	errNoStore = errors.New("no store configured")
)

// writeError maps domain errors to HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, kgraph.ErrUnknownNode),
		errors.Is(err, kgraph.ErrUnknownSourceNode),
		errors.Is(err, kgraph.ErrUnknownTargetNode),
		errors.Is(err, kgraph.ErrUnknownEdge),
		errors.Is(err, store.ErrNoSnapshot):
		status = http.StatusNotFound
	case errors.Is(err, kgraph.ErrDuplicateNodeID):
		status = http.StatusConflict
	case errors.Is(err, kgraph.ErrInvalidNodeID),
		errors.Is(err, kgraph.ErrInvalidKind),
		errors.Is(err, errBadJSON),
		errors.Is(err, errNoStore):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
