package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openaura/aura-core/internal/group"
)

// groupResponse is a persisted group definition plus its runtime state.
type groupResponse struct {
	group.Config
	Running bool `json:"running"`
}

// createGroupRequest is the request body for POST /groups.
type createGroupRequest struct {
	Name    string   `json:"name"`
	Enabled *bool    `json:"enabled,omitempty"` // default true
	Members []string `json:"members,omitempty"`
}

// updateGroupRequest is the request body for PATCH /groups/{id}.
// Absent fields keep their current values.
type updateGroupRequest struct {
	Name    *string   `json:"name,omitempty"`
	Enabled *bool     `json:"enabled,omitempty"`
	Members *[]string `json:"members,omitempty"`
}

// setMembersRequest is the request body for PUT /groups/{id}/members.
type setMembersRequest struct {
	Members []string `json:"members"`
}

// handleListGroups returns all persisted group definitions.
func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.groups.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]groupResponse, 0, len(groups))
	for i := range groups {
		_, running := s.groups.Provider(groups[i].ID)
		out = append(out, groupResponse{Config: groups[i], Running: running})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"groups": out,
		"count":  len(out),
	})
}

// handleCreateGroup persists a new group and starts its provider.
func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	cfg := &group.Config{
		Name:    req.Name,
		Enabled: enabled,
		Members: req.Members,
	}
	if err := s.groups.Create(r.Context(), cfg); err != nil {
		writeDomainError(w, err)
		return
	}

	_, running := s.groups.Provider(cfg.ID)
	writeJSON(w, http.StatusCreated, groupResponse{Config: *cfg, Running: running})
}

// handleGetGroup returns one group definition by ID.
func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	cfg, err := s.groups.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	_, running := s.groups.Provider(id)
	writeJSON(w, http.StatusOK, groupResponse{Config: *cfg, Running: running})
}

// handleUpdateGroup applies partial changes and reloads the provider.
func (s *Server) handleUpdateGroup(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	cfg, err := s.groups.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req updateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if req.Name != nil {
		cfg.Name = *req.Name
	}
	if req.Enabled != nil {
		cfg.Enabled = *req.Enabled
	}
	if req.Members != nil {
		cfg.Members = *req.Members
	}

	if err := s.groups.Update(r.Context(), cfg); err != nil {
		writeDomainError(w, err)
		return
	}

	_, running := s.groups.Provider(id)
	writeJSON(w, http.StatusOK, groupResponse{Config: *cfg, Running: running})
}

// handleDeleteGroup unloads and removes a group.
func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.groups.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// handleSetGroupMembers replaces a group's ordered member list.
// Order matters: it is the resolver's priority order.
func (s *Server) handleSetGroupMembers(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req setMembersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.groups.SetMembers(r.Context(), id, req.Members); err != nil {
		writeDomainError(w, err)
		return
	}

	cfg, err := s.groups.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	_, running := s.groups.Provider(id)
	writeJSON(w, http.StatusOK, groupResponse{Config: *cfg, Running: running})
}

// handleGroupConfigEntries returns the editable configuration surface
// of a running group provider.
func (s *Server) handleGroupConfigEntries(w http.ResponseWriter, r *http.Request) {
	p, ok := s.runningProvider(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entries": p.ConfigEntries(),
	})
}

// runningProvider resolves the running provider for the route's group
// ID, writing a 404 when the group is unknown or not loaded.
func (s *Server) runningProvider(w http.ResponseWriter, r *http.Request) (*group.Provider, bool) {
	id := chi.URLParam(r, "id")
	p, ok := s.groups.Provider(id)
	if !ok {
		writeNotFound(w, "no running group: "+id)
		return nil, false
	}
	return p, true
}
