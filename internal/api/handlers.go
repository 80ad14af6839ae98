package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/robo-code/robocode-sub000/internal/arena"
	"github.com/robo-code/robocode-sub000/internal/battle"
	"github.com/robo-code/robocode-sub000/internal/event"
	"github.com/robo-code/robocode-sub000/internal/samples"
)

// maxBodyBytes caps battle requests; rosters are small.
const maxBodyBytes = 64 << 10

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	snap := h.battles.Snapshot()
	if snap == nil {
		writeError(w, "No battle yet", http.StatusNotFound)
		return
	}
	writeJSON(w, snap)
}

func (h *routerHandlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats := map[string]any{
		"running":  h.battles.Running(),
		"recorder": h.battles.RecorderStats(),
	}

	// The snapshot is lock-free; polling it never contends with the engine
	if snap := h.battles.Snapshot(); snap != nil {
		stats["round"] = snap.Round
		stats["numRounds"] = snap.NumRounds
		stats["turn"] = snap.Turn
		stats["totalTurns"] = snap.TotalTurns
		stats["aliveCount"] = snap.AliveCount
	}

	robots := make([]map[string]string, 0)
	for _, c := range h.battles.Contestants() {
		robots = append(robots, map[string]string{"name": c.Name, "team": c.Team})
	}
	stats["robots"] = robots

	writeJSON(w, stats)
}

func (h *routerHandlers) handleGetResults(w http.ResponseWriter, r *http.Request) {
	results, aborted, err := h.battles.Results()
	if errors.Is(err, arena.ErrNoBattle) {
		writeError(w, "No battle yet", http.StatusNotFound)
		return
	}
	if err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	lines := make([]event.ScoreLine, 0, len(results))
	for i := range results {
		lines = append(lines, results[i].Rounded())
	}
	writeJSON(w, map[string]any{
		"running": h.battles.Running(),
		"aborted": aborted,
		"results": lines,
	})
}

func (h *routerHandlers) handleGetRobots(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, samples.All())
}

func (h *routerHandlers) handleGetPriorities(w http.ResponseWriter, r *http.Request) {
	type kindInfo struct {
		Event    string `json:"event"`
		Priority int    `json:"priority"`
		Reserved bool   `json:"reserved"`
	}

	kinds := make([]kindInfo, 0, event.NumKinds)
	for k := event.KindStatus; int(k) < event.NumKinds; k++ {
		kinds = append(kinds, kindInfo{
			Event:    k.String(),
			Priority: k.DefaultPriority(),
			Reserved: k.IsReserved(),
		})
	}
	writeJSON(w, kinds)
}

func (h *routerHandlers) handleBattleStart(w http.ResponseWriter, r *http.Request) {
	var req arena.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if len(req.Robots) == 0 {
		writeError(w, "No robots entered", http.StatusBadRequest)
		return
	}
	if req.Rounds < 0 {
		writeError(w, "Rounds must not be negative", http.StatusBadRequest)
		return
	}

	err := h.battles.Start(req)
	switch {
	case err == nil:
	case errors.Is(err, battle.ErrRunning):
		writeError(w, "A battle is already running", http.StatusConflict)
		return
	default:
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	log.Printf("⚔️ Battle started with %d robots", len(req.Robots))
	writeJSONStatus(w, http.StatusAccepted, map[string]any{
		"success": true,
		"robots":  len(req.Robots),
	})
}

func (h *routerHandlers) handleBattleStop(w http.ResponseWriter, r *http.Request) {
	running := h.battles.Running()
	h.battles.Stop()
	writeJSON(w, map[string]any{
		"success": true,
		"stopped": running,
	})
}

func writeJSON(w http.ResponseWriter, data any) {
	writeJSONStatus(w, http.StatusOK, data)
}

func writeJSONStatus(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
