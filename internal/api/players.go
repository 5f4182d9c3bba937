package api

import (
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/openaura/aura-core/internal/player"
)

// defaultHistoryWindow is used when the history query gives no start.
const defaultHistoryWindow = time.Hour

// handleListPlayers returns all players in the directory.
// Responses carry value snapshots, never the live instances.
func (s *Server) handleListPlayers(w http.ResponseWriter, _ *http.Request) {
	players := s.registry.All()

	snapshots := make([]player.Player, 0, len(players))
	for _, p := range players {
		snapshots = append(snapshots, p.Snapshot())
	}
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Name < snapshots[j].Name
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"players": snapshots,
		"count":   len(snapshots),
	})
}

// handleGetPlayer returns one player by ID.
func (s *Server) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := s.registry.Get(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p.Snapshot())
}

// handlePlayerHistory returns recorded playback samples for a player.
//
// Query parameters:
//   - measurement: playback_state (default), playback_position, group_events
//   - start, end: RFC3339 window (defaults: one hour ago to now)
func (s *Server) handlePlayerHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "history recording is not enabled")
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := s.registry.Get(id); err != nil {
		writeDomainError(w, err)
		return
	}

	measurement := r.URL.Query().Get("measurement")
	if measurement == "" {
		measurement = "playback_state"
	}

	end := time.Now().UTC()
	if v := r.URL.Query().Get("end"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeBadRequest(w, "end must be RFC3339")
			return
		}
		end = parsed
	}

	start := end.Add(-defaultHistoryWindow)
	if v := r.URL.Query().Get("start"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeBadRequest(w, "start must be RFC3339")
			return
		}
		start = parsed
	}
	if end.Before(start) {
		writeBadRequest(w, "end must be after start")
		return
	}

	points, err := s.history.PlaybackHistory(r.Context(), id, measurement, start, end)
	if err != nil {
		writeInternalError(w, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"player_id":   id,
		"measurement": measurement,
		"start":       start.Format(time.RFC3339),
		"end":         end.Format(time.RFC3339),
		"points":      points,
		"count":       len(points),
	})
}
