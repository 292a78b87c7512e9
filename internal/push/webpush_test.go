package push

import (
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carbuddy/backend/internal/config"
	"github.com/carbuddy/backend/internal/models"
)

// newTestSubscription генерирует подписку с валидными ключами,
// указывающую на тестовый HTTP-сервер.
func newTestSubscription(t *testing.T, endpoint string) *models.PushSubscription {
	t.Helper()

	key, err := ecdh.P256().GenerateKey(rand.Reader)
	require.NoError(t, err)

	auth := make([]byte, 16)
	_, err = rand.Read(auth)
	require.NoError(t, err)

	return &models.PushSubscription{
		UserUID:  "user-1",
		Endpoint: endpoint,
		P256DH:   base64.RawURLEncoding.EncodeToString(key.PublicKey().Bytes()),
		Auth:     base64.RawURLEncoding.EncodeToString(auth),
	}
}

func newTestSender(t *testing.T) *WebPushSender {
	t.Helper()

	priv, pub, err := webpush.GenerateVAPIDKeys()
	require.NoError(t, err)

	return NewWebPushSender(config.Push{
		VAPIDPublicKey:  pub,
		VAPIDPrivateKey: priv,
		Subscriber:      "mailto:admin@carbuddy.app",
		PushTTL:         60,
	})
}

func TestWebPushSender_Send(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantErr  bool
		wantGone bool
	}{
		{name: "created", status: http.StatusCreated, wantErr: false},
		{name: "gone endpoint", status: http.StatusGone, wantErr: true, wantGone: true},
		{name: "not found endpoint", status: http.StatusNotFound, wantErr: true, wantGone: true},
		{name: "transient failure", status: http.StatusTooManyRequests, wantErr: true, wantGone: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			sender := newTestSender(t)
			sub := newTestSubscription(t, srv.URL)

			err := sender.Send(context.Background(), sub, []byte(`{"title":"Fluid check due"}`))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantGone, errors.Is(err, ErrSubscriptionGone))
		})
	}
}
