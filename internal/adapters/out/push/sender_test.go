package push_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"foodorders/internal/adapters/out/push"
	"foodorders/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatewaySender_Send(t *testing.T) {
	t.Run("posts payload to the connection endpoint", func(t *testing.T) {
		var gotPath, gotContentType string
		var gotBody []byte

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotContentType = r.Header.Get("Content-Type")
			gotBody, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		payload, err := json.Marshal(map[string]string{"message": "Your order is ready"})
		require.NoError(t, err)

		sender := push.NewGatewaySender(server.URL)
		require.NoError(t, sender.Send(t.Context(), "conn-1", payload))

		assert.Equal(t, "/connections/conn-1/messages", gotPath)
		assert.Equal(t, "application/json", gotContentType)
		assert.JSONEq(t, string(payload), string(gotBody))
	})

	t.Run("410 maps to ErrConnectionGone", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusGone)
		}))
		defer server.Close()

		sender := push.NewGatewaySender(server.URL)
		err := sender.Send(t.Context(), "conn-stale", []byte(`{}`))
		require.ErrorIs(t, err, ports.ErrConnectionGone)
	})

	t.Run("5xx is a transient error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		sender := push.NewGatewaySender(server.URL)
		err := sender.Send(t.Context(), "conn-1", []byte(`{}`))
		require.Error(t, err)
		assert.NotErrorIs(t, err, ports.ErrConnectionGone)
	})
}
