package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jengatrack/jengatrack/internal/apperrors"
	"github.com/jengatrack/jengatrack/internal/config"
	"github.com/jengatrack/jengatrack/pkg/logger"
)

func newTestClient(t *testing.T, serverURL string) *WhatsAppClient {
	logger.Log = zaptest.NewLogger(t).Named("test")
	return NewWhatsAppClient(config.WhatsAppConfig{
		AccessToken:   "test-token",
		PhoneNumberID: "12345",
		GraphBaseURL:  serverURL,
	})
}

func TestWhatsAppClient_SendText_Success(t *testing.T) {
	var gotAuth, gotPath string
	var gotPayload map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"messages":[{"id":"wamid.test123"}]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	messageID, err := client.SendText(context.Background(), "+254712345678", "Expense logged")

	assert.NoError(t, err)
	assert.Equal(t, "wamid.test123", messageID)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "/12345/messages", gotPath)
	assert.Equal(t, "whatsapp", gotPayload["messaging_product"])
	assert.Equal(t, "+254712345678", gotPayload["to"])
	text, ok := gotPayload["text"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Expense logged", text["body"])
}

func TestWhatsAppClient_SendText_ClientErrorNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid token"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.SendText(context.Background(), "+254712345678", "hello")

	assert.ErrorIs(t, err, apperrors.ErrGateway)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "4xx responses must not be retried")
}

func TestWhatsAppClient_SendText_RetriesServerError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"messages":[{"id":"wamid.retry"}]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	messageID, err := client.SendText(context.Background(), "+254712345678", "hello")

	assert.NoError(t, err)
	assert.Equal(t, "wamid.retry", messageID)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(2))
}

func TestWhatsAppClient_SendText_EmptyRecipient(t *testing.T) {
	client := newTestClient(t, "http://unused")

	_, err := client.SendText(context.Background(), "", "hello")

	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}
