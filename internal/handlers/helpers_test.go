package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"noirstore/internal/logger"
	"noirstore/internal/models"
	"noirstore/internal/realtime"
	"noirstore/internal/repository"
	"noirstore/internal/storage"
)

const (
	testAdminEmail    = "admin@noir.com"
	testAdminPassword = "admin123"
)

type testServer struct {
	router    *gin.Engine
	repos     *repository.Set
	hub       *realtime.Hub
	uploadDir string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := storage.New(storage.NewMemoryBackend(), "test_", logger.Discard())
	hub := realtime.NewHub(logger.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	repos, err := repository.NewSet(store, repository.Options{
		TaxRate:       0.08,
		AdminEmail:    testAdminEmail,
		AdminPassword: testAdminPassword,
		JWTSecret:     "handler-test-secret",
		SessionTTL:    time.Hour,
	}, hub, logger.Discard())
	require.NoError(t, err)

	uploadDir := t.TempDir()
	r := gin.New()
	Register(r, Deps{Repos: repos, Hub: hub, Store: store, UploadDir: uploadDir, Log: logger.Discard()})
	return &testServer{router: r, repos: repos, hub: hub, uploadDir: uploadDir}
}

type response struct {
	Code   int
	Header http.Header
	Body   map[string]any
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string, headers ...string) response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	out := response{Code: w.Code, Header: w.Header()}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out.Body), w.Body.String())
	}
	return out
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	res := s.do(t, http.MethodPost, "/api/auth/login", models.Credentials{Email: email, Password: password}, "")
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	data := res.Body["data"].(map[string]any)
	return data["token"].(string)
}

func (s *testServer) adminToken(t *testing.T) string {
	return s.login(t, testAdminEmail, testAdminPassword)
}

func (s *testServer) product(t *testing.T, in models.ProductInput) models.Product {
	t.Helper()
	p, err := s.repos.Products.Create(context.Background(), in)
	require.NoError(t, err)
	return p
}

func data(t *testing.T, res response) map[string]any {
	t.Helper()
	m, ok := res.Body["data"].(map[string]any)
	require.True(t, ok, "data is not an object: %v", res.Body)
	return m
}

func newHeaderContext(key, value string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if value != "" {
		c.Request.Header.Set(key, value)
	}
	return c
}
