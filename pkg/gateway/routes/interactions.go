package routes

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/synaptica-ai/twosides-bridge/pkg/bus"
	"github.com/synaptica-ai/twosides-bridge/pkg/common/logger"
	"github.com/synaptica-ai/twosides-bridge/pkg/conditions"
	"github.com/synaptica-ai/twosides-bridge/pkg/gateway/middleware"
	"github.com/synaptica-ai/twosides-bridge/pkg/interaction"
	"github.com/synaptica-ai/twosides-bridge/pkg/query"
	"github.com/synaptica-ai/twosides-bridge/pkg/rpc"
)

var errBadInput = errors.New("bad input")

type InteractionHandler struct {
	provider          query.Provider
	describer         conditions.Describer
	articleURL        func(name string) string
	reportConcurrency int
}

type Options struct {
	// Describer resolves condition descriptions. Condition routes are not
	// registered without one.
	Describer conditions.Describer
	// ArticleURL builds the link returned next to a description.
	ArticleURL        func(name string) string
	ReportConcurrency int
}

func NewInteractionHandler(provider query.Provider, opts Options) *InteractionHandler {
	return &InteractionHandler{
		provider:          provider,
		describer:         opts.Describer,
		articleURL:        opts.ArticleURL,
		reportConcurrency: opts.ReportConcurrency,
	}
}

func (h *InteractionHandler) Register(r *mux.Router) {
	r.HandleFunc("/drugs", h.handleDrugs).Methods(http.MethodGet)
	r.HandleFunc("/interactions", h.handleInteraction).Methods(http.MethodGet)
	r.HandleFunc("/interactions/report", h.handleReport).Methods(http.MethodPost)
	if h.describer != nil {
		r.HandleFunc("/conditions/{name}", h.handleCondition).Methods(http.MethodGet)
	}
}

type DrugsResponse struct {
	Query string   `json:"query"`
	Like  bool     `json:"like"`
	Drugs []string `json:"drugs"`
}

type ReportRequest struct {
	Drugs    []string `json:"drugs"`
	Filtered bool     `json:"filtered"`
}

type ReportResponse struct {
	Interactions     interaction.Collection `json:"interactions"`
	InteractingPairs []interaction.Key      `json:"interactingPairs"`
	SafePairs        []interaction.Key      `json:"safePairs"`
	RecordCount      int                    `json:"recordCount"`
}

type ConditionResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url,omitempty"`
}

func (h *InteractionHandler) handleDrugs(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, r, errBadInput, "name is required")
		return
	}
	like, err := boolParam(r, "like", true)
	if err != nil {
		writeError(w, r, errBadInput, err.Error())
		return
	}

	names, err := h.provider.QueryDrug(r.Context(), name, like)
	if err != nil {
		writeError(w, r, err, "drug lookup failed")
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, DrugsResponse{Query: name, Like: like, Drugs: names})
}

func (h *InteractionHandler) handleInteraction(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	drug1, drug2 := strings.TrimSpace(q.Get("drug1")), strings.TrimSpace(q.Get("drug2"))
	if drug1 == "" || drug2 == "" {
		writeError(w, r, errBadInput, "drug1 and drug2 are required")
		return
	}
	filtered, err := boolParam(r, "filtered", false)
	if err != nil {
		writeError(w, r, errBadInput, err.Error())
		return
	}

	col, err := h.provider.QueryInteraction(r.Context(), drug1, drug2, filtered)
	if err != nil {
		writeError(w, r, err, "interaction lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, col)
}

func (h *InteractionHandler) handleReport(w http.ResponseWriter, r *http.Request) {
	var req ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, errBadInput, "invalid request body")
		return
	}

	col, err := query.BuildReport(r.Context(), h.provider, req.Drugs, query.ReportOptions{
		Filtered:    req.Filtered,
		Concurrency: h.reportConcurrency,
	})
	if errors.Is(err, query.ErrNotEnoughDrugs) {
		writeError(w, r, errBadInput, err.Error())
		return
	}
	if err != nil {
		writeError(w, r, err, "report failed")
		return
	}

	resp := ReportResponse{
		Interactions:     col,
		InteractingPairs: col.InteractingPairs(),
		SafePairs:        col.SafePairs(),
		RecordCount:      col.RecordCount(),
	}
	if resp.InteractingPairs == nil {
		resp.InteractingPairs = []interaction.Key{}
	}
	if resp.SafePairs == nil {
		resp.SafePairs = []interaction.Key{}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *InteractionHandler) handleCondition(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(mux.Vars(r)["name"])
	if name == "" {
		writeError(w, r, errBadInput, "condition name is required")
		return
	}
	text, err := h.describer.Describe(r.Context(), name)
	if err != nil {
		writeError(w, r, err, "condition lookup failed")
		return
	}
	resp := ConditionResponse{Name: name, Description: text}
	if h.articleURL != nil && text != conditions.NoData {
		resp.URL = h.articleURL(name)
	}
	writeJSON(w, http.StatusOK, resp)
}

func boolParam(r *http.Request, key string, fallback bool) (bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.New(key + " must be true or false")
	}
	return v, nil
}

// statusFor maps lookup failures onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadInput):
		return http.StatusBadRequest
	case errors.Is(err, rpc.ErrRequestTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, bus.ErrTransport), errors.Is(err, rpc.ErrUnexpectedResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status := statusFor(err)
	entry := logger.Log.WithFields(logrus.Fields{
		"path":       r.URL.Path,
		"status":     status,
		"request_id": r.Header.Get(middleware.RequestIDHeader),
	})
	if status >= http.StatusInternalServerError {
		entry.WithError(err).Error(msg)
	} else {
		entry.Debug(msg)
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Log.WithError(err).Error("failed to write json response")
	}
}
