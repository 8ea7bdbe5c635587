// Package api exposes the simulation over HTTP: read-only observation
// for any presentation layer, bearer-token commands for the player
// business, and a small admin control plane.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/talgdenn/burgage/internal/business"
	"github.com/talgdenn/burgage/internal/econ"
	"github.com/talgdenn/burgage/internal/engine"
	"github.com/talgdenn/burgage/internal/persistence"
	"github.com/talgdenn/burgage/internal/world"
)

// Server serves the world state over HTTP.
type Server struct {
	Sim       *engine.Simulation
	Eng       *engine.Engine
	DB        *persistence.DB
	Player    *business.Business
	Port      int
	PlayerKey string // Bearer token for command endpoints. Empty = commands disabled.
	AdminKey  string // Bearer token for admin endpoints. Empty = admin disabled.
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	limiter := NewRateLimiter(60, time.Minute)

	mux := http.NewServeMux()

	// Public observation endpoints.
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/sites", s.handleSites)
	mux.HandleFunc("/api/v1/site/", s.handleSiteDetail)
	mux.HandleFunc("/api/v1/businesses", s.handleBusinesses)
	mux.HandleFunc("/api/v1/business/", s.handleBusinessDetail)
	mux.HandleFunc("/api/v1/market", s.handleMarket)
	mux.HandleFunc("/api/v1/events", s.handleEvents)

	// Player commands (POST, bearer token, rate limited).
	mux.HandleFunc("/api/v1/command/lease", s.playerOnly(limiter.Wrap(s.handleLease)))
	mux.HandleFunc("/api/v1/command/build", s.playerOnly(limiter.Wrap(s.handleBuild)))
	mux.HandleFunc("/api/v1/command/sell-building", s.playerOnly(limiter.Wrap(s.handleSellBuilding)))
	mux.HandleFunc("/api/v1/command/sell-lease", s.playerOnly(limiter.Wrap(s.handleSellLease)))
	mux.HandleFunc("/api/v1/command/sell", s.playerOnly(limiter.Wrap(s.handleSell)))

	// Admin control plane.
	mux.HandleFunc("/api/v1/speed", s.adminOnly(s.handleSpeed))
	mux.HandleFunc("/api/v1/snapshot", s.adminOnly(s.handleSnapshot))

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr,
		"player_auth", s.PlayerKey != "", "admin_auth", s.AdminKey != "")

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}

func (s *Server) playerOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if s.PlayerKey == "" || bearerToken(r) != s.PlayerKey {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if s.AdminKey == "" || bearerToken(r) != s.AdminKey {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// ── Observation ───────────────────────────────────────────────────────

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.Sim.Lock()
	defer s.Sim.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"tick":       s.Sim.CurrentTick(),
		"day":        s.Sim.CurrentTick() / engine.QuartersPerDay,
		"speed":      s.Eng.Speed(),
		"sites":      len(s.Sim.World.Sites),
		"businesses": len(s.Sim.Businesses),
		"stats":      s.Sim.Stats,
	})
}

type siteSummary struct {
	ID        uint64   `json:"id"`
	Name      string   `json:"name"`
	Color     string   `json:"color"`
	Employees int      `json:"employees"`
	Lots      int      `json:"lots"`
	Leased    int      `json:"leased"`
	Buildings int      `json:"buildings"`
	Neighbors []uint64 `json:"neighbors"`
}

func summarizeSite(site *world.Site) siteSummary {
	sum := siteSummary{
		ID:        site.ID,
		Name:      site.Name,
		Color:     site.Color,
		Employees: site.Employees,
		Lots:      len(site.Lots),
		Neighbors: site.Neighbors,
	}
	for _, lot := range site.Lots {
		if lot.Owner != world.Unowned {
			sum.Leased++
		}
		if lot.Building != nil {
			sum.Buildings++
		}
	}
	return sum
}

func (s *Server) handleSites(w http.ResponseWriter, r *http.Request) {
	s.Sim.Lock()
	defer s.Sim.Unlock()

	out := make([]siteSummary, 0, len(s.Sim.World.Sites))
	for _, site := range s.Sim.World.Sites {
		out = append(out, summarizeSite(site))
	}
	writeJSON(w, http.StatusOK, out)
}

type lotView struct {
	ID       uint64         `json:"id"`
	Owner    string         `json:"owner"`
	Resource string         `json:"resource,omitempty"`
	Building *econ.Building `json:"building,omitempty"`
}

func (s *Server) handleSiteDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(strings.TrimPrefix(r.URL.Path, "/api/v1/site/"), 10, 64)
	if err != nil {
		http.Error(w, "bad site id", http.StatusBadRequest)
		return
	}

	s.Sim.Lock()
	defer s.Sim.Unlock()

	site := s.Sim.World.Site(id)
	if site == nil {
		http.Error(w, "site not found", http.StatusNotFound)
		return
	}

	lots := make([]lotView, 0, len(site.Lots))
	for _, lot := range site.Lots {
		v := lotView{ID: lot.ID, Owner: lot.Owner, Building: lot.Building}
		if lot.HasResource {
			v.Resource = econ.ResourceName(lot.Resource)
		}
		lots = append(lots, v)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"site": summarizeSite(site),
		"lots": lots,
	})
}

type businessSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Stance   string `json:"stance,omitempty"`
	Currency int64  `json:"currency"`
	Lots     int    `json:"lots"`
	InPanic  bool   `json:"in_panic,omitempty"`
}

func summarizeBusiness(b *business.Business) businessSummary {
	sum := businessSummary{
		ID:       b.ID,
		Name:     b.Name,
		Currency: b.Ledger.Currency,
		Lots:     len(b.Lots),
		InPanic:  b.InPanic,
	}
	if b.Kind == business.KindAI {
		sum.Kind = "ai"
		sum.Stance = business.StanceName(b.Stance)
	} else {
		sum.Kind = "player"
	}
	return sum
}

func (s *Server) handleBusinesses(w http.ResponseWriter, r *http.Request) {
	s.Sim.Lock()
	defer s.Sim.Unlock()

	out := make([]businessSummary, 0, len(s.Sim.Businesses))
	for _, b := range s.Sim.Businesses {
		out = append(out, summarizeBusiness(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleBusinessDetail(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/business/")

	s.Sim.Lock()
	defer s.Sim.Unlock()

	b := s.Sim.BusinessIndex[id]
	if b == nil {
		http.Error(w, "business not found", http.StatusNotFound)
		return
	}

	stores := make(map[uint64]map[string]int)
	for siteID, stock := range b.Ledger.Stores {
		named := make(map[string]int, len(stock))
		for res, qty := range stock {
			named[econ.ResourceName(res)] = qty
		}
		stores[siteID] = named
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"business": summarizeBusiness(b),
		"lots":     b.Lots,
		"stores":   stores,
	})
}

func (s *Server) handleMarket(w http.ResponseWriter, r *http.Request) {
	s.Sim.Lock()
	defer s.Sim.Unlock()

	type priceView struct {
		Resource string  `json:"resource"`
		Base     float64 `json:"base"`
		Current  float64 `json:"current"`
	}
	out := make([]priceView, 0, econ.NumResources)
	for res := econ.Resource(0); res < econ.NumResources; res++ {
		entry, ok := s.Sim.Market.Entries[res]
		if !ok {
			continue
		}
		out = append(out, priceView{
			Resource: econ.ResourceName(res),
			Base:     entry.BasePrice,
			Current:  s.Sim.Market.UnitPrice(res),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	s.Sim.Lock()
	defer s.Sim.Unlock()

	events := s.Sim.Events
	if len(events) > 100 {
		events = events[len(events)-100:]
	}
	writeJSON(w, http.StatusOK, events)
}

// ── Player commands ───────────────────────────────────────────────────

type commandRequest struct {
	LotID    uint64 `json:"lot_id,omitempty"`
	Kind     string `json:"kind,omitempty"`
	Resource string `json:"resource,omitempty"`
	Quantity int    `json:"quantity,omitempty"`
}

func decodeCommand(r *http.Request) (commandRequest, error) {
	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, fmt.Errorf("bad request body: %w", err)
	}
	return req, nil
}

// runCommand executes a validated player command under the simulation
// lock. Violations come back as 409s; the simulation is never harmed.
func (s *Server) runCommand(w http.ResponseWriter, run func() error) {
	s.Sim.Lock()
	err := run()
	s.Sim.Unlock()

	if err != nil {
		slog.Info("command rejected", "error", err)
		writeError(w, http.StatusConflict, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": "ok"})
}

func (s *Server) handleLease(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCommand(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.runCommand(w, func() error { return s.Sim.LeaseLot(s.Player, req.LotID) })
}

func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCommand(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	kind, err := econ.ParseKind(req.Kind)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.runCommand(w, func() error { return s.Sim.InstallBuilding(s.Player, kind, req.LotID) })
}

func (s *Server) handleSellBuilding(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCommand(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.runCommand(w, func() error { return s.Sim.SellBuilding(s.Player, req.LotID) })
}

func (s *Server) handleSellLease(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCommand(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.runCommand(w, func() error { return s.Sim.SellLease(s.Player, req.LotID) })
}

func (s *Server) handleSell(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCommand(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var resource econ.Resource
	found := false
	for res := econ.Resource(0); res < econ.NumResources; res++ {
		if econ.ResourceName(res) == req.Resource {
			resource = res
			found = true
			break
		}
	}
	if !found {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown resource %q", req.Resource))
		return
	}
	s.runCommand(w, func() error { return s.Sim.SellResource(s.Player, resource, req.Quantity) })
}

// ── Admin ─────────────────────────────────────────────────────────────

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Speed float64 `json:"speed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Speed < 0 || req.Speed > 100 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("speed %v outside [0, 100]", req.Speed))
		return
	}
	s.Eng.SetSpeed(req.Speed)
	slog.Info("speed changed", "speed", req.Speed)
	writeJSON(w, http.StatusOK, map[string]any{"speed": req.Speed})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeError(w, http.StatusServiceUnavailable, fmt.Errorf("persistence disabled"))
		return
	}

	s.Sim.Lock()
	defer s.Sim.Unlock()

	if err := s.DB.SaveWorld(s.Sim.World); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if err := s.DB.SaveBusinesses(s.Sim.Businesses); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if err := s.DB.SetMeta("last_tick", strconv.FormatUint(s.Sim.CurrentTick(), 10)); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	slog.Info("snapshot saved", "tick", s.Sim.CurrentTick())
	writeJSON(w, http.StatusOK, map[string]any{"tick": s.Sim.CurrentTick()})
}
