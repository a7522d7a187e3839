package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selimozcann/oglink/internal/model"
)

type stubResolver struct {
	got []string
}

func (s *stubResolver) Resolve(_ context.Context, target string) model.Result {
	s.got = append(s.got, target)
	if target == "not-a-url" {
		return model.Result{Target: target, Err: errors.New(`Get "not-a-url": unsupported protocol scheme ""`)}
	}
	return model.Result{
		Target:   target,
		FinalURL: "https://shop.test/final",
		Status:   http.StatusOK,
		Chain:    []model.Hop{{URL: target, Status: 302}, {Index: 1, URL: "https://shop.test/final", Status: 200}},
	}
}

func newTestRouter(t *testing.T) (*gin.Engine, *stubResolver) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	stub := &stubResolver{}
	return NewRouter(NewHandlers(stub, logger)), stub
}

func do(t *testing.T, router http.Handler, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)
	w, body := do(t, router, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestResolveQuery(t *testing.T) {
	router, stub := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/resolve?url=https%3A%2F%2Fekaro.in%2Fx", nil)
	w, body := do(t, router, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"https://ekaro.in/x"}, stub.got)
	assert.Equal(t, "https://ekaro.in/x", body["original_url"])
	assert.Equal(t, "https://shop.test/final", body["final_url"])
	assert.EqualValues(t, 2, body["hops"])
	assert.NotContains(t, body, "error")
}

func TestResolveQueryMissingURL(t *testing.T) {
	router, stub := newTestRouter(t)
	w, body := do(t, router, httptest.NewRequest(http.MethodGet, "/api/v1/resolve", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body["error"], "url")
	assert.Empty(t, stub.got)
}

func TestResolveJSON(t *testing.T) {
	router, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resolve", strings.NewReader(`{"url":"not-a-url"}`))
	req.Header.Set("Content-Type", "application/json")
	w, body := do(t, router, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `Error: Get "not-a-url": unsupported protocol scheme ""`, body["error"])
	assert.NotContains(t, body, "final_url")
}

func TestResolveJSONBadBody(t *testing.T) {
	router, stub := newTestRouter(t)
	for _, payload := range []string{`{`, `{}`, `{"url":""}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/resolve", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w, _ := do(t, router, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, payload)
	}
	assert.Empty(t, stub.got)
}
