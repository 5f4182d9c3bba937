package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/openaura/aura-core/internal/group"
)

// powerRequest is the request body for PUT /groups/{id}/power.
type powerRequest struct {
	Powered bool `json:"powered"`
}

// volumeRequest is the request body for PUT /groups/{id}/volume.
type volumeRequest struct {
	Level int `json:"level"`
}

// muteRequest is the request body for PUT /groups/{id}/mute.
type muteRequest struct {
	Muted bool `json:"muted"`
}

// playMediaRequest is the request body for POST /groups/{id}/play-media.
type playMediaRequest struct {
	ItemID      string  `json:"item_id"`
	URL         string  `json:"url,omitempty"`
	SeekSeconds float64 `json:"seek_seconds,omitempty"`
	FadeInMs    int64   `json:"fade_in_ms,omitempty"`
	FlowMode    *bool   `json:"flow_mode,omitempty"` // default true
}

// handleGroupPlay starts or continues playback on the group.
func (s *Server) handleGroupPlay(w http.ResponseWriter, r *http.Request) {
	p, ok := s.runningProvider(w, r)
	if !ok {
		return
	}
	if err := p.Play(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	s.commandAccepted(w, p)
}

// handleGroupPause pauses playback on the group.
func (s *Server) handleGroupPause(w http.ResponseWriter, r *http.Request) {
	p, ok := s.runningProvider(w, r)
	if !ok {
		return
	}
	if err := p.Pause(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	s.commandAccepted(w, p)
}

// handleGroupStop stops playback on the group.
func (s *Server) handleGroupStop(w http.ResponseWriter, r *http.Request) {
	p, ok := s.runningProvider(w, r)
	if !ok {
		return
	}
	if err := p.Stop(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	s.commandAccepted(w, p)
}

// handleGroupPower runs the power cascade.
func (s *Server) handleGroupPower(w http.ResponseWriter, r *http.Request) {
	p, ok := s.runningProvider(w, r)
	if !ok {
		return
	}

	var req powerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := p.SetPower(r.Context(), req.Powered); err != nil {
		writeDomainError(w, err)
		return
	}
	s.commandAccepted(w, p)
}

// handleGroupVolume accepts a group volume request. Volume is owned by
// the member devices themselves; the group level accepts and discards it.
func (s *Server) handleGroupVolume(w http.ResponseWriter, r *http.Request) {
	p, ok := s.runningProvider(w, r)
	if !ok {
		return
	}

	var req volumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := p.VolumeSet(r.Context(), req.Level); err != nil {
		writeDomainError(w, err)
		return
	}
	s.commandAccepted(w, p)
}

// handleGroupMute accepts a group mute request. Same ownership rule as
// volume.
func (s *Server) handleGroupMute(w http.ResponseWriter, r *http.Request) {
	p, ok := s.runningProvider(w, r)
	if !ok {
		return
	}

	var req muteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := p.VolumeMute(r.Context(), req.Muted); err != nil {
		writeDomainError(w, err)
		return
	}
	s.commandAccepted(w, p)
}

// handleGroupPlayMedia loads and plays an item on the group.
func (s *Server) handleGroupPlayMedia(w http.ResponseWriter, r *http.Request) {
	p, ok := s.runningProvider(w, r)
	if !ok {
		return
	}

	var req playMediaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.ItemID == "" {
		writeBadRequest(w, "item_id is required")
		return
	}

	flowMode := true
	if req.FlowMode != nil {
		flowMode = *req.FlowMode
	}

	err := p.PlayMedia(r.Context(), group.PlayMediaRequest{
		ItemID:       req.ItemID,
		URL:          req.URL,
		SeekPosition: time.Duration(req.SeekSeconds * float64(time.Second)),
		FadeIn:       time.Duration(req.FadeInMs) * time.Millisecond,
		FlowMode:     flowMode,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.commandAccepted(w, p)
}

// handleGroupPoll refreshes and republishes the group's derived state.
func (s *Server) handleGroupPoll(w http.ResponseWriter, r *http.Request) {
	p, ok := s.runningProvider(w, r)
	if !ok {
		return
	}
	p.Poll()
	s.commandAccepted(w, p)
}

// commandAccepted responds with the group's current derived state.
func (s *Server) commandAccepted(w http.ResponseWriter, p *group.Provider) {
	g := p.GroupPlayer()
	if g == nil {
		writeJSON(w, http.StatusAccepted, nil)
		return
	}
	writeJSON(w, http.StatusOK, g.Snapshot())
}
