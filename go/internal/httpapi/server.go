package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/bnsl/draftd/go/internal/draftorder"
	"github.com/bnsl/draftd/go/internal/enforcer"
	"github.com/bnsl/draftd/go/internal/gateway"
	"github.com/bnsl/draftd/go/internal/notify"
	"github.com/bnsl/draftd/go/internal/overrides"
	"github.com/bnsl/draftd/go/internal/queues"
	"github.com/bnsl/draftd/go/internal/registry"
	"github.com/bnsl/draftd/go/internal/schedule"
)

// Server exposes the draft board over JSON HTTP plus the WebSocket feed.
type Server struct {
	resolver  *schedule.Resolver
	order     *draftorder.App
	players   *registry.App
	queues    *queues.App
	overrides *overrides.App
	enforcer  *enforcer.Enforcer
	gate      *notify.Gate
	ws        *gateway.ConnectionManager
	clock     clockwork.Clock
}

func NewServer(
	resolver *schedule.Resolver,
	order *draftorder.App,
	players *registry.App,
	q *queues.App,
	ovs *overrides.App,
	enf *enforcer.Enforcer,
	gate *notify.Gate,
	ws *gateway.ConnectionManager,
	clock clockwork.Clock,
) *Server {
	return &Server{
		resolver:  resolver,
		order:     order,
		players:   players,
		queues:    q,
		overrides: ovs,
		enforcer:  enf,
		gate:      gate,
		ws:        ws,
		clock:     clock,
	}
}

// RegisterRoutes attaches every endpoint to mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/players", s.handleListPlayers)
	mux.HandleFunc("GET /api/order", s.handleListOrder)
	mux.HandleFunc("GET /api/draft_status", s.handleDraftStatus)
	mux.HandleFunc("POST /api/draft", s.handleDraft)

	mux.HandleFunc("GET /api/queue/{team}", s.handleGetQueue)
	mux.HandleFunc("PUT /api/queue/{team}", s.handleSetQueue)
	mux.HandleFunc("DELETE /api/queue/{team}/{player_id}", s.handleRemoveFromQueue)
	mux.HandleFunc("PUT /api/queue/{team}/policy", s.handleSetPolicy)

	mux.HandleFunc("PUT /api/overrides/{pick_id}", s.handleSetOverride)
	mux.HandleFunc("DELETE /api/overrides/{pick_id}", s.handleClearOverride)

	mux.HandleFunc("POST /api/import/order", s.handleImportOrder)

	mux.HandleFunc("POST /tasks/enforce", s.handleEnforce)
	mux.HandleFunc("POST /tasks/scan_on_clock", s.handleScanOnClock)

	mux.HandleFunc("GET /ws", s.handleWebSocket)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}

// scheduleISO is the timestamp format used in every response body.
const scheduleISO = schedule.ISOMinute

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
