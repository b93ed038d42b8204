package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"simplesales/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Recovery(), ErrorHandler())
	r.GET("/x", handlers...)
	return r
}

func get(r http.Handler, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func problem(t *testing.T, w *httptest.ResponseRecorder) apierror.Problem {
	t.Helper()
	assert.Equal(t, problemContentType, w.Header().Get("Content-Type"))
	var p apierror.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	return p
}

func TestRequestID_EcoaOuGera(t *testing.T) {
	r := newEngine(func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := get(r, map[string]string{RequestIDHeader: "req-123"})
	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "req-123", w.Body.String())

	w = get(r, nil)
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
	assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())
}

func TestErrorHandler_ErroInternoNaoVaza(t *testing.T) {
	r := newEngine(func(c *gin.Context) {
		_ = c.Error(errors.New(`pq: relation "vendas" does not exist`))
	})

	w := get(r, map[string]string{RequestIDHeader: "trace-1"})
	require.Equal(t, http.StatusInternalServerError, w.Code)
	p := problem(t, w)
	assert.Equal(t, apierror.InternalDetail, p.Detail)
	assert.Equal(t, "trace-1", p.TraceID)
	assert.Equal(t, "/x", p.Instance)
	assert.NotContains(t, w.Body.String(), "relation")
}

func TestErrorHandler_ErroDeDominio(t *testing.T) {
	r := newEngine(func(c *gin.Context) {
		_ = c.Error(apierror.NewBusiness("Já existe uma categoria com o nome 'Vestuário'"))
	})

	w := get(r, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	p := problem(t, w)
	assert.Equal(t, "Já existe uma categoria com o nome 'Vestuário'", p.Detail)
	assert.Equal(t, map[string]any{}, p.Extensions["details"])
}

func TestRecovery_Panico(t *testing.T) {
	r := newEngine(func(*gin.Context) { panic("nil map") })

	w := get(r, nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, apierror.InternalDetail, problem(t, w).Detail)
}

func TestRateLimiter_JanelaFixa(t *testing.T) {
	now := time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)
	rl := &rateLimiter{
		entries: make(map[string]*rateEntry),
		limit:   2,
		window:  time.Minute,
		now:     func() time.Time { return now },
	}

	ok, _ := rl.allow("10.0.0.1")
	assert.True(t, ok)
	ok, _ = rl.allow("10.0.0.1")
	assert.True(t, ok)
	ok, retry := rl.allow("10.0.0.1")
	assert.False(t, ok)
	assert.Equal(t, time.Minute, retry)

	ok, _ = rl.allow("10.0.0.2")
	assert.True(t, ok, "limite é por IP")

	now = now.Add(time.Minute + time.Second)
	ok, _ = rl.allow("10.0.0.1")
	assert.True(t, ok, "nova janela")
}

func TestRateLimiter_Responde429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), RateLimiter(1, time.Minute))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, get(r, nil).Code)
	w := get(r, nil)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, []string{"60", "61"}, w.Header().Get("Retry-After"))
	assert.Equal(t, http.StatusTooManyRequests, problem(t, w).Status)
}
