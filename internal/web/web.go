package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"planboard/internal/config"
	"planboard/internal/export"
	"planboard/internal/fetch"
	appLog "planboard/internal/log"
	"planboard/internal/planning"
)

// Server exposes the extraction results over HTTP.
type Server struct {
	cfg     *config.Config
	mux     *http.ServeMux
	fetcher *fetch.Fetcher

	// In-memory cache of the last fetched page body so that the roster,
	// period and grid endpoints do not each hit the planning site.
	pageMu    sync.RWMutex
	pageCache *pageCache
}

// pageTTL bounds how stale the in-memory page copy may get before the next
// request triggers a refetch. The cron refresh loop keeps the disk cache
// warm independently.
const pageTTL = 60 * time.Second

type pageCache struct {
	body      string
	fromCache bool
	updatedAt time.Time
}

// NewServer constructs a new Server.
func NewServer(cfg *config.Config) *Server {
	s := &Server{
		cfg:     cfg,
		mux:     http.NewServeMux(),
		fetcher: fetch.NewFetcher(cfg.CacheDir, cfg.SessionCookie, cfg.UserAgent),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// Empty username or password counts as disabled.
	if s.cfg.BasicAuth.Username == "" || s.cfg.BasicAuth.Password == "" {
		return false
	}
	return true
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// /health is always reachable without credentials.
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="Planboard", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// StartServer starts an HTTP server bound to cfg.Listen.
func StartServer(_ context.Context, cfg *config.Config) error {
	s := NewServer(cfg)
	appLog.Info("starting HTTP server", "listen", "http://"+cfg.Listen)
	return http.ListenAndServe(cfg.Listen, s.Handler())
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/roster", s.handleRoster)
	s.mux.HandleFunc("/api/period", s.handlePeriod)
	s.mux.HandleFunc("/api/grid", s.handleGrid)
	s.mux.HandleFunc("/api/debug/day", s.handleDebugDay)
	s.mux.HandleFunc("/api/export.ics", s.handleExportICS)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// page returns the planning page body, from the short-lived in-memory cache
// when fresh, otherwise via the configured fetch mode.
func (s *Server) page(ctx context.Context) (string, bool, error) {
	now := time.Now()

	s.pageMu.RLock()
	pc := s.pageCache
	s.pageMu.RUnlock()
	if pc != nil && now.Sub(pc.updatedAt) < pageTTL {
		return pc.body, pc.fromCache, nil
	}

	var res fetch.Result
	var err error
	if s.cfg.FetchMode == config.FetchModeBrowser {
		res, err = fetch.FetchRendered(ctx, fetch.BrowserOptions{
			URL:           s.cfg.PlanningURL,
			SessionCookie: s.cfg.SessionCookie,
			UserAgent:     s.cfg.UserAgent,
		})
	} else {
		res, err = s.fetcher.Fetch(ctx, s.cfg.PlanningURL)
	}
	if err != nil {
		return "", false, err
	}

	body := string(res.Body)
	s.pageMu.Lock()
	s.pageCache = &pageCache{body: body, fromCache: res.FromCache, updatedAt: time.Now()}
	s.pageMu.Unlock()

	return body, res.FromCache, nil
}

// rosterResponse is the JSON response shape for /api/roster.
type rosterResponse struct {
	Roster    []string `json:"roster"`
	FromCache bool     `json:"from_cache"`
}

func (s *Server) handleRoster(w http.ResponseWriter, r *http.Request) {
	body, fromCache, err := s.page(r.Context())
	if err != nil {
		appLog.Error("api roster: fetch failed", err)
		writeError(w, http.StatusBadGateway, "failed to fetch planning page")
		return
	}

	roster, err := planning.RosterFromHTML(body)
	if err != nil {
		appLog.Error("api roster: parse failed", err)
		writeError(w, http.StatusInternalServerError, "failed to parse planning page")
		return
	}

	writeJSON(w, http.StatusOK, rosterResponse{Roster: roster, FromCache: fromCache})
}

func (s *Server) handlePeriod(w http.ResponseWriter, r *http.Request) {
	body, _, err := s.page(r.Context())
	if err != nil {
		appLog.Error("api period: fetch failed", err)
		writeError(w, http.StatusBadGateway, "failed to fetch planning page")
		return
	}

	period := planning.PeriodFromHTML(body)
	if !period.Verification.IsConsistent {
		// Operators need to see this; the payload carries it too.
		appLog.Warn("period consistency check failed", "message", period.Verification.Message)
	}

	writeJSON(w, http.StatusOK, period)
}

// handleGrid returns the extracted schedule grid.
//
// GET /api/grid?person=0&days=1,2,15
//   - person: 0-based person section index; omit for all persons
//   - days:   comma-separated day-of-month filter; omit for all days
func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	body, _, err := s.page(r.Context())
	if err != nil {
		appLog.Error("api grid: fetch failed", err)
		writeError(w, http.StatusBadGateway, "failed to fetch planning page")
		return
	}

	q := r.URL.Query()
	personIndex := parseIntDefault(q.Get("person"), -1)
	days, err := parseDaysParam(q.Get("days"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	grid := planning.GridFromHTML(body, days, personIndex)
	if grid.Error != "" {
		appLog.Warn("api grid: extraction reported problems", "detail", grid.Error)
	}

	writeJSON(w, http.StatusOK, grid)
}

// handleDebugDay exposes the raw extraction signals for one (person, day)
// pair, for diagnosing markup drift.
//
// GET /api/debug/day?day=5&person=0
func (s *Server) handleDebugDay(w http.ResponseWriter, r *http.Request) {
	body, _, err := s.page(r.Context())
	if err != nil {
		appLog.Error("api debug: fetch failed", err)
		writeError(w, http.StatusBadGateway, "failed to fetch planning page")
		return
	}

	q := r.URL.Query()
	day := parseIntDefault(q.Get("day"), 0)
	if day < 1 || day > 31 {
		writeError(w, http.StatusBadRequest, "day must be in 1..31")
		return
	}
	personIndex := parseIntDefault(q.Get("person"), 0)

	writeJSON(w, http.StatusOK, planning.DebugDayFromHTML(body, day, personIndex))
}

// handleExportICS renders one person's schedule as an iCalendar feed.
//
// GET /api/export.ics?person=0
// GET /api/export.ics?person=Lastname%20Firstname
//   - person: 0-based section index as in /api/grid, or the display name
func (s *Server) handleExportICS(w http.ResponseWriter, r *http.Request) {
	person := strings.TrimSpace(r.URL.Query().Get("person"))
	if person == "" {
		writeError(w, http.StatusBadRequest, "person parameter is required")
		return
	}

	body, _, err := s.page(r.Context())
	if err != nil {
		appLog.Error("api export: fetch failed", err)
		writeError(w, http.StatusBadGateway, "failed to fetch planning page")
		return
	}

	grid := planning.GridFromHTML(body, nil, -1)
	// A numeric person selects a section by index; resolve it to the name
	// the grid keys on.
	if idx, convErr := strconv.Atoi(person); convErr == nil {
		if idx < 0 {
			writeError(w, http.StatusBadRequest, "person index must be >= 0")
			return
		}
		sub := planning.GridFromHTML(body, nil, idx)
		if sub.Error != "" {
			writeError(w, http.StatusBadRequest, sub.Error)
			return
		}
		grid = sub
		for name := range sub.Users {
			person = name
		}
	}
	period := planning.PeriodFromHTML(body)

	loc := resolveLocationOrLocal(s.cfg.Timezone)
	payload, err := export.GridToICS(&grid, &period, export.Options{
		Person:   person,
		Location: loc,
		ProdID:   "-//planboard//EN",
	})
	if err != nil {
		appLog.Error("api export: ICS generation failed", err, "person", person)
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(payload))
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// parseDaysParam parses a comma-separated list of day numbers.
func parseDaysParam(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	days := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 1 || n > 31 {
			return nil, fmt.Errorf("invalid days parameter %q (want comma-separated 1..31)", s)
		}
		days = append(days, n)
	}
	return days, nil
}

func resolveLocationOrLocal(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err, "name", name)
		return time.Local
	}
	return loc
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
