package routes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synaptica-ai/twosides-bridge/pkg/bus"
	"github.com/synaptica-ai/twosides-bridge/pkg/conditions"
	"github.com/synaptica-ai/twosides-bridge/pkg/fixture"
	"github.com/synaptica-ai/twosides-bridge/pkg/interaction"
	"github.com/synaptica-ai/twosides-bridge/pkg/rpc"
)

type staticDescriber map[string]string

func (d staticDescriber) Describe(_ context.Context, name string) (string, error) {
	if text, ok := d[name]; ok {
		return text, nil
	}
	return conditions.NoData, nil
}

type erroringProvider struct{ err error }

func (p erroringProvider) QueryDrug(context.Context, string, bool) ([]string, error) {
	return nil, p.err
}

func (p erroringProvider) QueryInteraction(context.Context, string, string, bool) (interaction.Collection, error) {
	return interaction.Collection{}, p.err
}

func newRouter(h *InteractionHandler) *mux.Router {
	r := mux.NewRouter()
	RegisterOps(r, map[string]ReadyCheck{"provider": func(context.Context) error { return nil }})
	h.Register(r.PathPrefix("/api/v1").Subrouter())
	return r
}

func fixtureRouter() *mux.Router {
	return newRouter(NewInteractionHandler(fixture.NewProvider(fixture.DefaultCatalog()), Options{
		Describer:  staticDescriber{"Nausea": "Nausea is a sensation of unease."},
		ArticleURL: func(name string) string { return "https://example.org/wiki/" + name },
	}))
}

func do(t *testing.T, r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestDrugsRoute(t *testing.T) {
	rec := do(t, fixtureRouter(), http.MethodGet, "/api/v1/drugs?name=temaz", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DrugsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Like)
	assert.Equal(t, []string{"Temazepam"}, resp.Drugs)

	rec = do(t, fixtureRouter(), http.MethodGet, "/api/v1/drugs?name=temaz&like=false", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"query":"temaz","like":false,"drugs":[]}`, rec.Body.String())
}

func TestDrugsRouteValidation(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, do(t, fixtureRouter(), http.MethodGet, "/api/v1/drugs", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, fixtureRouter(), http.MethodGet, "/api/v1/drugs?name=x&like=maybe", "").Code)
}

func TestInteractionRoute(t *testing.T) {
	rec := do(t, fixtureRouter(), http.MethodGet, "/api/v1/interactions?drug1=Aspirin&drug2=Ibuprofen&filtered=true", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var col interaction.Collection
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &col))
	assert.Equal(t, 10, col.RecordCount())

	rec = do(t, fixtureRouter(), http.MethodGet, "/api/v1/interactions?drug1=Aspirin", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportRoute(t *testing.T) {
	body := `{"drugs":["Aspirin","Ibuprofen","Temazepam"],"filtered":false}`
	rec := do(t, fixtureRouter(), http.MethodPost, "/api/v1/interactions/report", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ReportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Interactions.Len())
	assert.Equal(t, []interaction.Key{"Aspirin%Ibuprofen"}, resp.InteractingPairs)
	assert.ElementsMatch(t, []interaction.Key{"Aspirin%Temazepam", "Ibuprofen%Temazepam"}, resp.SafePairs)
	assert.Equal(t, 12, resp.RecordCount)
}

func TestReportNeedsTwoDrugs(t *testing.T) {
	rec := do(t, fixtureRouter(), http.MethodPost, "/api/v1/interactions/report", `{"drugs":["Aspirin","Aspirin"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, fixtureRouter(), http.MethodPost, "/api/v1/interactions/report", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConditionRoute(t *testing.T) {
	rec := do(t, fixtureRouter(), http.MethodGet, "/api/v1/conditions/Nausea", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"name":"Nausea","description":"Nausea is a sensation of unease.",
		"url":"https://example.org/wiki/Nausea"}`, rec.Body.String())

	rec = do(t, fixtureRouter(), http.MethodGet, "/api/v1/conditions/Qwzx", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"name":"Qwzx","description":"No data found"}`, rec.Body.String())
}

func TestErrorMapping(t *testing.T) {
	cases := map[int]error{
		http.StatusGatewayTimeout:      fmt.Errorf("%w after 5m0s", rpc.ErrRequestTimeout),
		http.StatusBadGateway:          fmt.Errorf("publishing: %w", bus.ErrTransport),
		http.StatusInternalServerError: errors.New("disk on fire"),
	}
	for status, err := range cases {
		r := newRouter(NewInteractionHandler(erroringProvider{err: err}, Options{}))
		rec := do(t, r, http.MethodGet, "/api/v1/drugs?name=aspirin", "")
		assert.Equal(t, status, rec.Code, err.Error())
	}
	assert.Equal(t, http.StatusBadGateway, statusFor(fmt.Errorf("x: %w", rpc.ErrUnexpectedResponse)))
}

func TestOpsRoutes(t *testing.T) {
	r := fixtureRouter()
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/ready", "").Code)
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/metrics", "").Code)

	down := mux.NewRouter()
	RegisterOps(down, map[string]ReadyCheck{"bus": func(context.Context) error { return errors.New("no broker") }})
	rec := do(t, down, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"bus":"no broker"}`, rec.Body.String())
}
