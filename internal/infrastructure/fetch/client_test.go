package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Fetch(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("image-bytes"))
		}))
		defer server.Close()

		client := NewClient()
		body, err := client.Fetch(context.Background(), server.URL)

		require.NoError(t, err)
		assert.Equal(t, []byte("image-bytes"), body)
	})

	t.Run("non-2xx status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := NewClient()
		_, err := client.Fetch(context.Background(), server.URL)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 404")
	})

	t.Run("timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		client := NewClient(WithTimeout(20 * time.Millisecond))
		_, err := client.Fetch(context.Background(), server.URL)

		require.Error(t, err)
	})

	t.Run("body too large", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(make([]byte, 2048))
		}))
		defer server.Close()

		client := NewClient(WithMaxBodySize(1024))
		_, err := client.Fetch(context.Background(), server.URL)

		require.ErrorIs(t, err, ErrTooLarge)
	})

	t.Run("invalid url", func(t *testing.T) {
		client := NewClient()
		_, err := client.Fetch(context.Background(), "http://\x00invalid")

		require.Error(t, err)
	})
}
