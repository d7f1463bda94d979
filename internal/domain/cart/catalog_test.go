package cart

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPCatalog_Product(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/products/p1":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"_id":"p1","Product_Name":"Ceylon Cinnamon","Price":1200,"Product_Images":["cinnamon.jpg","alt.jpg"]}`))
		case "/api/products/p2":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"name":"Black Pepper","price":450}`))
		case "/api/products/p3":
			w.Write([]byte(`{}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	catalog := NewHTTPCatalog(server.URL+"/api/", time.Second)
	ctx := context.Background()

	p, err := catalog.Product(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Ceylon Cinnamon", p.Name)
	assert.Equal(t, 1200.0, p.Price)
	assert.Equal(t, server.URL+"/uploads/cinnamon.jpg", p.Image)

	p, err = catalog.Product(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, "Black Pepper", p.Name)
	assert.Equal(t, 450.0, p.Price)
	assert.Empty(t, p.Image)

	p, err = catalog.Product(ctx, "p3")
	require.NoError(t, err)
	assert.Equal(t, "Product", p.Name)
	assert.Equal(t, 0.0, p.Price)

	_, err = catalog.Product(ctx, "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestHTTPCatalog_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewHTTPCatalog(server.URL, time.Second).Product(context.Background(), "p1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrProductNotFound)
}
