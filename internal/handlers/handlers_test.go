package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"admin-console/internal/clients"
	"admin-console/internal/console"
	"admin-console/internal/events"
	"admin-console/internal/middleware"
	"admin-console/internal/models"
	"admin-console/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fakeShop records every request the console sends to the backend.
type fakeShop struct {
	mu       sync.Mutex
	calls    []string
	products []string
}

func newFakeShop() *fakeShop {
	return &fakeShop{products: []string{`{"id":1,"name":"Desk lamp","price":"24.50","stock_quantity":3}`}}
}

func (f *fakeShop) addProduct(product string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products = append(f.products, product)
}

func (f *fakeShop) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
	products := strings.Join(f.products, ",")
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/products":
		io.WriteString(w, `{"success":true,"data":[`+products+`]}`)
	case r.Method == http.MethodGet && r.URL.Path == "/bulk-upload/download-template":
		w.Header().Set("Content-Type", "text/csv")
		io.WriteString(w, "name,price,stock_quantity,category_id\n")
	case r.Method == http.MethodDelete:
		io.WriteString(w, `{"success":true}`)
	default:
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"success":false,"message":"not found"}`)
	}
}

func (f *fakeShop) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type testServer struct {
	router *gin.Engine
	shop   *fakeShop
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	shop := newFakeShop()
	backend := httptest.NewServer(shop)
	t.Cleanup(backend.Close)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	auth, err := session.ParseAccounts("ops@example.com:admin:" + string(hash))
	require.NoError(t, err)

	api := clients.NewAPIClient(clients.Options{BaseURL: backend.URL, Logger: logger})
	workspaces := console.NewWorkspaces(console.WorkspaceOptions{Backend: console.NewBackend(api)}, time.Hour, logger)
	sessions := session.NewManager(session.Options{Secret: "test", TTL: time.Hour})
	publisher, err := events.NewPublisher("", "audit", logger)
	require.NoError(t, err)

	h := NewHandler(workspaces, sessions, auth, publisher, logger)
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.ErrorHandler(logger))
	router.GET("/health", HealthCheck)
	router.GET("/ready", Readiness{Events: publisher}.ReadinessCheck)
	h.RegisterRoutes(router.Group("/api/v1"), sessions)

	return &testServer{router: router, shop: shop}
}

func (s *testServer) do(method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T) *http.Cookie {
	t.Helper()
	w := s.do(http.MethodPost, "/api/v1/auth/login", `{"email":"ops@example.com","password":"s3cret"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)

	w = s.do(http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/v1/auth/login", `{"email":"ops@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/v1/auth/login", `{"email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	cookie := s.login(t)
	w = s.do(http.MethodGet, "/api/v1/auth/me", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data models.User `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ops@example.com", resp.Data.Email)

	w = s.do(http.MethodPost, "/api/v1/auth/logout", "", cookie)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/v1/auth/me", "", cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRoutesNeedSession(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/v1/products", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, s.shop.recorded())
}

func TestListProducts(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t)

	w := s.do(http.MethodGet, "/api/v1/products?q=lamp", "", cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Items []models.Product `json:"items"`
			Page  struct {
				Total int `json:"total"`
			} `json:"page"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Items, 1)
	assert.Equal(t, "Desk lamp", resp.Data.Items[0].Name)
	assert.Equal(t, 1, resp.Data.Page.Total)
}

func TestDeleteProduct(t *testing.T) {
	t.Run("without confirm nothing reaches the backend", func(t *testing.T) {
		s := newTestServer(t)
		cookie := s.login(t)

		w := s.do(http.MethodDelete, "/api/v1/products/1", "", cookie)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), middleware.ErrCodeConfirmationRequired)
		assert.Empty(t, s.shop.recorded())
	})

	t.Run("confirmed delete re-fetches the list", func(t *testing.T) {
		s := newTestServer(t)
		cookie := s.login(t)

		w := s.do(http.MethodDelete, "/api/v1/products/1?confirm=true", "", cookie)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, []string{
			"GET /products",
			"DELETE /products/delete/1",
			"GET /products",
		}, s.shop.recorded())
	})

	t.Run("record created after the list loaded", func(t *testing.T) {
		s := newTestServer(t)
		cookie := s.login(t)

		w := s.do(http.MethodGet, "/api/v1/products", "", cookie)
		require.Equal(t, http.StatusOK, w.Code)
		s.shop.addProduct(`{"id":2,"name":"Floor lamp","price":"80","stock_quantity":1}`)

		w = s.do(http.MethodDelete, "/api/v1/products/2?confirm=true", "", cookie)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, []string{
			"GET /products",
			"GET /products",
			"DELETE /products/delete/2",
			"GET /products",
		}, s.shop.recorded())
	})

	t.Run("unknown id after a re-fetch", func(t *testing.T) {
		s := newTestServer(t)
		cookie := s.login(t)

		w := s.do(http.MethodGet, "/api/v1/products", "", cookie)
		require.Equal(t, http.StatusOK, w.Code)

		w = s.do(http.MethodDelete, "/api/v1/products/9?confirm=true", "", cookie)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, []string{"GET /products", "GET /products"}, s.shop.recorded())
	})

	t.Run("bad id", func(t *testing.T) {
		s := newTestServer(t)
		cookie := s.login(t)

		w := s.do(http.MethodDelete, "/api/v1/products/abc?confirm=true", "", cookie)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBulkUploadTemplate_CSV(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t)

	w := s.do(http.MethodGet, "/api/v1/bulk-upload/template", "", cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, `attachment; filename="product_import_template.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "name,price,stock_quantity,category_id\n", w.Body.String())
}

func TestBulkUploadTemplate_UnknownFormat(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t)

	w := s.do(http.MethodGet, "/api/v1/bulk-upload/template?format=pdf", "", cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, s.shop.recorded())
}
