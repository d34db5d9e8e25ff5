package google

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextSearch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/places:searchText", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Goog-Api-Key"))
		assert.Equal(t, "places.id,places.displayName,places.formattedAddress", r.Header.Get("X-Goog-FieldMask"))

		var body textSearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Joe's Pizza 123 Main St, Springfield, 62704, USA", body.TextQuery)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(TextSearchResponse{
			Places: []Place{
				{
					ID:               "ChIJ-joes",
					DisplayName:      DisplayName{Text: "Joe's Pizza LLC"},
					FormattedAddress: "123 Main Street, Springfield, IL 62704, USA",
				},
				{ID: "ChIJ-other", DisplayName: DisplayName{Text: "Joe's Subs"}},
			},
		})
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	resp, err := client.TextSearch(context.Background(), "Joe's Pizza 123 Main St, Springfield, 62704, USA")

	require.NoError(t, err)
	require.Len(t, resp.Places, 2)
	assert.Equal(t, "ChIJ-joes", resp.Places[0].ID)
	assert.Equal(t, "Joe's Pizza LLC", resp.Places[0].DisplayName.Text)
	assert.Equal(t, "123 Main Street, Springfield, IL 62704, USA", resp.Places[0].FormattedAddress)
}

func TestTextSearch_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	resp, err := client.TextSearch(context.Background(), "Nonexistent Corp")

	require.NoError(t, err)
	assert.Empty(t, resp.Places)
}

func TestTextSearch_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": "invalid API key"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	client := NewClient("bad-key", WithBaseURL(srv.URL))
	resp, err := client.TextSearch(context.Background(), "test query")

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "403")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "invalid API key")
}

func TestTextSearch_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"places": [`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.TextSearch(context.Background(), "test")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")
}

func TestTextSearch_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	resp, err := client.TextSearch(ctx, "test")

	assert.Error(t, err)
	assert.Nil(t, resp)
}

func TestGetPlace_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/places/ChIJ-joes", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Goog-Api-Key"))
		assert.Equal(t, "id,displayName,formattedAddress,nationalPhoneNumber", r.Header.Get("X-Goog-FieldMask"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "ChIJ-joes",
			"displayName": {"text": "Joe's Pizza LLC", "languageCode": "en"},
			"formattedAddress": "123 Main Street, Springfield, IL 62704, USA",
			"nationalPhoneNumber": "(217) 555-0100"
		}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	place, err := client.GetPlace(context.Background(), "ChIJ-joes")

	require.NoError(t, err)
	assert.Equal(t, "ChIJ-joes", place.ID)
	assert.Equal(t, "Joe's Pizza LLC", place.DisplayName.Text)
	assert.Equal(t, "en", place.DisplayName.LanguageCode)
	assert.Equal(t, "123 Main Street, Springfield, IL 62704, USA", place.FormattedAddress)
	assert.Equal(t, "(217) 555-0100", place.NationalPhoneNumber)
}

func TestGetPlace_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	place, err := client.GetPlace(context.Background(), "gone")

	assert.Nil(t, place)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetPlace_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("backend unavailable"))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.GetPlace(context.Background(), "ChIJ-joes")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Equal(t, "backend unavailable", apiErr.Body)
}

func TestGetPlace_EmptyID(t *testing.T) {
	client := NewClient("test-key", WithBaseURL("http://127.0.0.1:0"))
	_, err := client.GetPlace(context.Background(), "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty place id")
}

func TestGetPlace_EscapesID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/places/a%2Fb", r.URL.EscapedPath())
		_, _ = w.Write([]byte(`{"id": "a/b"}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	place, err := client.GetPlace(context.Background(), "a/b")

	require.NoError(t, err)
	assert.Equal(t, "a/b", place.ID)
}

func TestWithTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL), WithTimeout(20*time.Millisecond))
	_, err := client.TextSearch(context.Background(), "slow")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "send request")
}

func TestWithHTTPClient(t *testing.T) {
	var hit bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hit = true
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	_, err := client.TextSearch(context.Background(), "q")

	require.NoError(t, err)
	assert.True(t, hit)
}
