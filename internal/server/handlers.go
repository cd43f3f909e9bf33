package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/xtding233/ba-companion/internal/banner"
	"github.com/xtding233/ba-companion/internal/calc"
)

// CalculatorSource yields the calculator for the current game data.
// *gamedata.Loader implements it.
type CalculatorSource interface {
	Calculator() (*calc.Calculator, error)
}

// BannerSource yields the current active banners. *banner.Snapshot
// implements it.
type BannerSource interface {
	Banners() ([]banner.Banner, time.Time)
	LastError() error
}

// Handler serves the calculator and banner endpoints.
type Handler struct {
	calcs   CalculatorSource
	banners BannerSource // nil when no feed is configured
	pace    calc.BondPace
	log     zerolog.Logger
}

// NewHandler creates the API handler. pace is the default bond pace used
// when a request leaves pats or gifts out.
func NewHandler(calcs CalculatorSource, banners BannerSource, pace calc.BondPace, log zerolog.Logger) *Handler {
	return &Handler{
		calcs:   calcs,
		banners: banners,
		pace:    pace,
		log:     log.With().Str("handler", "api").Logger(),
	}
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/bond/exp", h.HandleBondExp)
		r.Post("/character/exp", h.HandleCharacterExp)
		r.Post("/promotion", h.HandlePromotion)
		r.Get("/banners", h.HandleBanners)
	})
}

func (h *Handler) calculator(w http.ResponseWriter) (*calc.Calculator, bool) {
	c, err := h.calcs.Calculator()
	if err != nil {
		h.log.Error().Err(err).Msg("Game data unavailable")
		writeErr(w, http.StatusServiceUnavailable, "game data unavailable")
		return nil, false
	}
	return c, true
}

// HandleBondExp handles GET /api/bond/exp?from=&to=&pats=&gifts=&order=
func (h *Handler) HandleBondExp(w http.ResponseWriter, r *http.Request) {
	from, msg := requireInt(r, "from")
	if msg != "" {
		writeErr(w, http.StatusBadRequest, msg)
		return
	}
	to, msg := requireInt(r, "to")
	if msg != "" {
		writeErr(w, http.StatusBadRequest, msg)
		return
	}
	pace := h.pace
	if v, ok, msg := parseInt(r, "pats"); msg != "" {
		writeErr(w, http.StatusBadRequest, msg)
		return
	} else if ok {
		pace.PatsPerDay = v
	}
	if v, ok, msg := parseInt(r, "gifts"); msg != "" {
		writeErr(w, http.StatusBadRequest, msg)
		return
	} else if ok {
		pace.GiftsPerMonth = v
	}
	order, err := calc.ParseSortOrder(r.URL.Query().Get("order"))
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}

	c, ok := h.calculator(w)
	if !ok {
		return
	}
	rep, err := c.BondReport(from, to, pace, order)
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// HandleCharacterExp handles POST /api/character/exp
func (h *Handler) HandleCharacterExp(w http.ResponseWriter, r *http.Request) {
	var req calc.CharacterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	c, ok := h.calculator(w)
	if !ok {
		return
	}
	res, err := c.CharacterExpPlan(req)
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandlePromotion handles POST /api/promotion
func (h *Handler) HandlePromotion(w http.ResponseWriter, r *http.Request) {
	var req calc.PromotionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	c, ok := h.calculator(w)
	if !ok {
		return
	}
	res, err := c.PromotionPlan(req)
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type bannersResp struct {
	Banners   []banner.Banner `json:"banners"`
	Count     int             `json:"count"`
	FetchedAt *time.Time      `json:"fetched_at,omitempty"`
	Stale     string          `json:"stale,omitempty"` // last refresh error, if any
}

// HandleBanners handles GET /api/banners?q=&type=&sort=
func (h *Handler) HandleBanners(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query, err := banner.ParseQuery(q.Get("q"), q.Get("type"), q.Get("sort"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	if h.banners == nil {
		writeErr(w, http.StatusServiceUnavailable, "banner feed not configured")
		return
	}

	list, fetchedAt := h.banners.Banners()
	lastErr := h.banners.LastError()
	if fetchedAt.IsZero() {
		if lastErr != nil {
			h.log.Warn().Err(lastErr).Msg("No banner snapshot available")
			writeErr(w, statusFor(lastErr), lastErr.Error())
			return
		}
		writeErr(w, http.StatusServiceUnavailable, "banner snapshot not ready")
		return
	}

	out := banner.Apply(list, query)
	resp := bannersResp{Banners: out, Count: len(out), FetchedAt: &fetchedAt}
	if lastErr != nil {
		resp.Stale = lastErr.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}
