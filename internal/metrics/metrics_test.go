package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lazypower/widgetry/internal/calc"
	"github.com/lazypower/widgetry/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, m *metrics.Metrics, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, metric := range mf.GetMetric() {
			for _, lp := range metric.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue next
				}
			}
			if metric.GetCounter() != nil {
				return metric.GetCounter().GetValue()
			}
			return metric.GetGauge().GetValue()
		}
	}
	return 0
}

func TestObserveToken(t *testing.T) {
	m := metrics.New()
	state := calc.NewState(calc.Memory{})
	for _, tok := range []calc.Token{"5", "/", "0", "="} {
		r := calc.Apply(state, tok)
		state = r.State
		m.ObserveToken(tok, r)
	}

	assert.Equal(t, 2.0, counterValue(t, m, "widgetry_calculator_tokens_total", map[string]string{"kind": "digit"}))
	assert.Equal(t, 1.0, counterValue(t, m, "widgetry_calculator_tokens_total", map[string]string{"kind": "operator"}))
	assert.Equal(t, 1.0, counterValue(t, m, "widgetry_calculator_errors_total", nil))
}

func TestActionsAndSessions(t *testing.T) {
	m := metrics.New()
	m.GalleryAction("shuffle")
	m.GalleryAction("shuffle")
	m.PlayerAction("next")
	m.SetSessions(3)

	assert.Equal(t, 2.0, counterValue(t, m, "widgetry_gallery_actions_total", map[string]string{"action": "shuffle"}))
	assert.Equal(t, 1.0, counterValue(t, m, "widgetry_player_actions_total", map[string]string{"action": "next"}))
	assert.Equal(t, 3.0, counterValue(t, m, "widgetry_calculator_sessions", nil))
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := metrics.New()
	m.PlayerAction("play")

	api := m.Instrument(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	api.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body, _ := io.ReadAll(w.Body)
	assert.Contains(t, string(body), `widgetry_player_actions_total{action="play"} 1`)
	assert.Contains(t, string(body), `widgetry_http_requests_total{code="418",method="get"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
