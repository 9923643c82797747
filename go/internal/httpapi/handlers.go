package httpapi

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/bnsl/draftd/go/internal/draftorder"
	"github.com/bnsl/draftd/go/internal/models"
	"github.com/bnsl/draftd/go/internal/queues"
	"github.com/bnsl/draftd/go/internal/registry"
)

func (s *Server) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	hideOwned := q.Get("hide_owned") == "true" || q.Get("hide_owned") == "1"
	players, err := s.players.SearchPlayers(r.Context(), q.Get("q"), hideOwned)
	if err != nil {
		log.Error().Err(err).Msg("player search failed")
		writeError(w, http.StatusInternalServerError, "player search failed")
		return
	}
	if players == nil {
		players = []models.Player{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"players": players})
}

func (s *Server) handleListOrder(w http.ResponseWriter, r *http.Request) {
	picks, err := s.order.ListOrder(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("order list failed")
		writeError(w, http.StatusInternalServerError, "order list failed")
		return
	}
	if picks == nil {
		picks = []models.Pick{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"picks": picks})
}

// pickView is one row of the status board: the pick plus its resolved
// schedule.
type pickView struct {
	models.Pick
	ScheduledTimeISO string  `json:"scheduled_time_iso"`
	DeadlineTimeISO  *string `json:"deadline_time_iso,omitempty"`
	Missed           bool    `json:"missed"`
	Overridden       bool    `json:"overridden"`
}

func (s *Server) handleDraftStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	picks, err := s.order.ListOrder(ctx)
	if err != nil {
		log.Error().Err(err).Msg("order list failed")
		writeError(w, http.StatusInternalServerError, "status failed")
		return
	}
	ovs, err := s.overrides.ParsedOverrides(ctx)
	if err != nil {
		log.Error().Err(err).Msg("override load failed")
		writeError(w, http.StatusInternalServerError, "status failed")
		return
	}

	now := s.clock.Now()
	sched := s.resolver.Resolve(picks, ovs, now)

	views := make([]pickView, len(picks))
	remaining := 0
	for i, p := range picks {
		if !p.Drafted() {
			remaining++
		}
		view := pickView{
			Pick:             p,
			ScheduledTimeISO: sched.ScheduledTime(i).Format(scheduleISO),
			Missed:           sched.Missed(i),
			Overridden:       sched.Overridden(i),
		}
		if i+1 < len(picks) {
			deadline := sched.Designated(i + 1).Format(scheduleISO)
			view.DeadlineTimeISO = &deadline
		}
		views[i] = view
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"now":       now.Format(scheduleISO),
		"on_clock":  sched.OnClockInfo(),
		"remaining": remaining,
		"picks":     views,
	})
}

type draftRequest struct {
	PickID   uuid.UUID `json:"pick_id"`
	PlayerID uuid.UUID `json:"player_id"`
}

func (s *Server) handleDraft(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pick, err := s.order.MakePick(r.Context(), req.PickID, req.PlayerID, false)
	if err != nil {
		switch {
		case errors.Is(err, draftorder.ErrPickNotFound):
			writeError(w, http.StatusNotFound, "pick not found")
		case errors.Is(err, registry.ErrPlayerNotFound):
			writeError(w, http.StatusNotFound, "player not found")
		case errors.Is(err, draftorder.ErrAlreadyPicked):
			writeError(w, http.StatusConflict, "pick already made")
		case errors.Is(err, registry.ErrPlayerOwned), errors.Is(err, draftorder.ErrPlayerClaimed):
			writeError(w, http.StatusConflict, "player already owned")
		case errors.Is(err, registry.ErrPlayerIneligible):
			writeError(w, http.StatusConflict, "player not eligible")
		default:
			log.Error().Err(err).Msg("draft failed")
			writeError(w, http.StatusInternalServerError, "draft failed")
		}
		return
	}

	s.afterBoardChange(r)
	writeJSON(w, http.StatusOK, map[string]any{"pick": pick})
}

func (s *Server) handleGetQueue(w http.ResponseWriter, r *http.Request) {
	team := r.PathValue("team")
	entries, err := s.queues.GetQueue(r.Context(), team)
	if err != nil {
		log.Error().Err(err).Str("team", team).Msg("queue read failed")
		writeError(w, http.StatusInternalServerError, "queue read failed")
		return
	}
	policy, err := s.queues.GetPolicy(r.Context(), team)
	if err != nil {
		log.Error().Err(err).Str("team", team).Msg("policy read failed")
		writeError(w, http.StatusInternalServerError, "queue read failed")
		return
	}
	if entries == nil {
		entries = []models.QueueEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"team":    team,
		"policy":  policy,
		"entries": entries,
	})
}

func (s *Server) handleSetQueue(w http.ResponseWriter, r *http.Request) {
	team := r.PathValue("team")
	var req struct {
		PlayerIDs []uuid.UUID `json:"player_ids"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.queues.SetQueue(r.Context(), team, req.PlayerIDs); err != nil {
		switch {
		case errors.Is(err, registry.ErrPlayerNotFound):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, registry.ErrPlayerOwned):
			writeError(w, http.StatusConflict, err.Error())
		default:
			log.Error().Err(err).Str("team", team).Msg("queue write failed")
			writeError(w, http.StatusInternalServerError, "queue write failed")
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveFromQueue(w http.ResponseWriter, r *http.Request) {
	team := r.PathValue("team")
	playerID, err := uuid.Parse(r.PathValue("player_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid player id")
		return
	}
	if err := s.queues.RemoveFromQueue(r.Context(), team, playerID); err != nil {
		log.Error().Err(err).Str("team", team).Msg("queue remove failed")
		writeError(w, http.StatusInternalServerError, "queue remove failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetPolicy(w http.ResponseWriter, r *http.Request) {
	team := r.PathValue("team")
	var req struct {
		Policy models.QueuePolicy `json:"policy"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.queues.SetPolicy(r.Context(), team, req.Policy); err != nil {
		if errors.Is(err, queues.ErrInvalidPolicy) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Str("team", team).Msg("policy write failed")
		writeError(w, http.StatusInternalServerError, "policy write failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetOverride(w http.ResponseWriter, r *http.Request) {
	pickID, err := uuid.Parse(r.PathValue("pick_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid pick id")
		return
	}
	var req struct {
		ScheduledTime string `json:"scheduled_time"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := s.order.GetPick(r.Context(), pickID); err != nil {
		if errors.Is(err, draftorder.ErrPickNotFound) {
			writeError(w, http.StatusNotFound, "pick not found")
			return
		}
		log.Error().Err(err).Msg("pick lookup failed")
		writeError(w, http.StatusInternalServerError, "override failed")
		return
	}

	t, err := s.overrides.SetOverride(r.Context(), pickID, req.ScheduledTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.afterBoardChange(r)
	writeJSON(w, http.StatusOK, map[string]any{
		"pick_id":        pickID,
		"scheduled_time": t.Format(scheduleISO),
	})
}

func (s *Server) handleClearOverride(w http.ResponseWriter, r *http.Request) {
	pickID, err := uuid.Parse(r.PathValue("pick_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid pick id")
		return
	}
	if err := s.overrides.ClearOverride(r.Context(), pickID); err != nil {
		log.Error().Err(err).Msg("override clear failed")
		writeError(w, http.StatusInternalServerError, "override clear failed")
		return
	}
	s.afterBoardChange(r)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleImportOrder(w http.ResponseWriter, r *http.Request) {
	picks, err := draftorder.ParseOrderCSV(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	n, err := s.order.ImportOrder(r.Context(), picks)
	if err != nil {
		log.Error().Err(err).Msg("order import failed")
		writeError(w, http.StatusInternalServerError, "order import failed")
		return
	}
	s.afterBoardChange(r)
	writeJSON(w, http.StatusOK, map[string]any{"imported": n})
}

// handleEnforce drains the enforcement backlog: one assignment per tick until
// a tick makes none. Exposed for cron and for tests against a live stack.
func (s *Server) handleEnforce(w http.ResponseWriter, r *http.Request) {
	assignments := 0
	for {
		acted, _, err := s.enforcer.EnforceOnce(r.Context())
		if err != nil {
			log.Error().Err(err).Msg("enforcement failed")
			writeError(w, http.StatusInternalServerError, "enforcement failed")
			return
		}
		if !acted {
			break
		}
		assignments++
	}

	if _, err := s.gate.Scan(r.Context()); err != nil {
		log.Error().Err(err).Msg("on-clock scan after enforcement failed")
	}
	writeJSON(w, http.StatusOK, map[string]any{"assignments": assignments})
}

func (s *Server) handleScanOnClock(w http.ResponseWriter, r *http.Request) {
	changed, err := s.gate.Scan(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("on-clock scan failed")
		writeError(w, http.StatusInternalServerError, "scan failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"changed": changed})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if err := s.ws.UpgradeConnection(w, r); err != nil {
		// UpgradeConnection already wrote the handshake failure.
		log.Error().Err(err).Msg("websocket upgrade failed")
	}
}

// afterBoardChange nudges the enforcer and announces any on-clock change
// produced by a mutation.
func (s *Server) afterBoardChange(r *http.Request) {
	s.enforcer.Wake()
	if _, err := s.gate.Scan(r.Context()); err != nil {
		log.Error().Err(err).Msg("on-clock scan failed")
	}
}
