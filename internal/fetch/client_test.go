package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autocomplete/internal/domain"
)

func TestBuildURL(t *testing.T) {
	t.Run("absolute endpoint", func(t *testing.T) {
		got, err := BuildURL(nil, "http://example.test/autocomplete/fruits/", "ab")
		require.NoError(t, err)
		assert.Equal(t, "http://example.test/autocomplete/fruits/?q=ab", got)
	})

	t.Run("keeps existing parameters and escapes", func(t *testing.T) {
		got, err := BuildURL(nil, "http://example.test/s?kind=user", "a b&c")
		require.NoError(t, err)
		u, err := url.Parse(got)
		require.NoError(t, err)
		assert.Equal(t, "user", u.Query().Get("kind"))
		assert.Equal(t, "a b&c", u.Query().Get("q"))
	})

	t.Run("relative endpoint resolves against base", func(t *testing.T) {
		base, _ := url.Parse("http://localhost:8080/forms/")
		got, err := BuildURL(base, "/autocomplete/users/", "jo")
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080/autocomplete/users/?q=jo", got)
	})
}

func TestFetch(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		switch r.URL.Path {
		case "/ok":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"results":["apple",{"value":"2","label":"apricot"}],"query":"ap"}`))
		case "/missing":
			_, _ = w.Write([]byte(`{"query":"ap"}`))
		case "/garbage":
			_, _ = w.Write([]byte(`<html>oops`))
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	c := New()
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		items, err := c.Fetch(ctx, srv.URL+"/ok", "ap")
		require.NoError(t, err)
		assert.Equal(t, "ap", gotQuery)
		require.Len(t, items, 2)
		assert.Equal(t, domain.KindText, items[0].Kind)
		assert.Equal(t, domain.KindRecord, items[1].Kind)
	})

	t.Run("missing results is zero results", func(t *testing.T) {
		items, err := c.Fetch(ctx, srv.URL+"/missing", "ap")
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("invalid json is an error", func(t *testing.T) {
		_, err := c.Fetch(ctx, srv.URL+"/garbage", "ap")
		assert.ErrorIs(t, err, ErrInvalidBody)
	})

	t.Run("non-2xx is a status error", func(t *testing.T) {
		_, err := c.Fetch(ctx, srv.URL+"/fail", "ap")
		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
	})
}

func TestFetchSendsHeaders(t *testing.T) {
	var accept, token string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept = r.Header.Get("Accept")
		token = r.Header.Get("X-Token")
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	c := New(WithHeader("X-Token", "secret"))
	_, err := c.Fetch(context.Background(), srv.URL, "zz")
	require.NoError(t, err)
	assert.Equal(t, "application/json", accept)
	assert.Equal(t, "secret", token)
}

func TestFetchTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	_, err := New().Fetch(context.Background(), endpoint, "ab")
	require.Error(t, err)
	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr))
}
