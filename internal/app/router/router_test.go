package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	candleshandler "stock_portfolio/internal/feature/candles/transport/handler"
	portfoliohandler "stock_portfolio/internal/feature/portfolio/transport/handler"
	quotehandler "stock_portfolio/internal/feature/quote/transport/handler"
	screeninghandler "stock_portfolio/internal/feature/screening/transport/handler"
	"stock_portfolio/internal/platform/http/handler"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(Handlers{
		Quote:     quotehandler.NewQuoteHandler(nil),
		Candles:   candleshandler.NewCandlesHandler(nil),
		Screening: screeninghandler.NewScreeningHandler(nil),
		Portfolio: portfoliohandler.NewPortfolioHandler(nil),
		Proxy:     handler.NewProxy(handler.ProxyConfig{}, nil),
	})
}

func TestNewRouter_Routes(t *testing.T) {
	t.Parallel()

	r := newTestRouter()
	registered := map[string]bool{}
	for _, ri := range r.Routes() {
		registered[ri.Method+" "+ri.Path] = true
	}

	expected := []string{
		"GET /healthz",
		"HEAD /healthz",
		"GET /proxy",
		"GET /quotes",
		"GET /quotes/:code",
		"GET /candles/:code",
		"GET /screening",
		"GET /screening/ranking",
		"GET /judgment/:code",
		"GET /portfolio",
		"POST /portfolio/holdings",
		"PUT /portfolio/holdings/:code",
		"DELETE /portfolio/holdings/:code",
		"POST /portfolio/holdings/:code/move",
		"POST /portfolio/refresh",
		"GET /market/indices",
	}
	for _, route := range expected {
		assert.True(t, registered[route], "route %s not registered", route)
	}
}

func TestNewRouter_HealthAndCORS(t *testing.T) {
	t.Parallel()

	r := newTestRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestNewRouter_ProxyRejectsMissingURL(t *testing.T) {
	t.Parallel()

	r := newTestRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/proxy", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
