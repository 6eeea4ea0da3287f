package clients

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *APIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewAPIClient(Options{BaseURL: srv.URL + "/", Token: "static", Logger: logger})
}

func TestAPIClient_UnwrapsDataEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		w.Write([]byte(`{"success":true,"data":[{"id":1,"name":"Mug","price":"4.50"}]}`))
	})

	products, err := NewProductsClient(client).List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Mug", products[0].Name)
	assert.InDelta(t, 4.5, products[0].Price, 1e-9)
}

func TestAPIClient_AcceptsBareArrays(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":3,"category_name":"Toys"}]`))
	})

	categories, err := NewCategoriesClient(client).List(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Toys", categories[0].Name)
}

func TestAPIClient_BearerToken(t *testing.T) {
	var got []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	})
	categories := NewCategoriesClient(client)

	_, err := categories.List(context.Background())
	require.NoError(t, err)
	_, err = categories.List(WithBearerToken(context.Background(), "session-token"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Bearer static", "Bearer session-token"}, got)
}

func TestAPIClient_ErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
		parsed  bool
	}{
		{"error string", http.StatusBadRequest, `{"error":"Name is required"}`, "Name is required", true},
		{"error object", http.StatusConflict, `{"success":false,"error":{"code":"DUP","message":"SKU exists"}}`, "SKU exists", true},
		{"message only", http.StatusNotFound, `{"message":"Product not found"}`, "Product not found", true},
		{"unreadable body", http.StatusInternalServerError, `<html>oops</html>`, "Request failed with status 500", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			err := NewProductsClient(client).Delete(context.Background(), 9)
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.parsed, apiErr.Parsed)
			assert.Equal(t, tt.message, err.Error())
			assert.Equal(t, tt.status, StatusCode(err))
		})
	}
}

func TestAPIClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewAPIClient(Options{BaseURL: url})
	_, err := NewProductsClient(client).List(context.Background())

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, http.MethodGet, transportErr.Method)
	assert.Equal(t, 0, StatusCode(err))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(&APIError{StatusCode: http.StatusNotFound}))
	assert.False(t, IsNotFound(&APIError{StatusCode: http.StatusBadRequest}))
	assert.False(t, IsNotFound(errors.New("boom")))
}
