package elevenlabs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesize(t *testing.T) {
	var got speechRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/text-to-speech/voice-abc", r.URL.Path)
		assert.Equal(t, "audio/mpeg", r.Header.Get("Accept"))
		assert.Equal(t, "xi-key", r.Header.Get("xi-api-key"))
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte{0xFF, 0xFB, 0x90})
	}))
	defer srv.Close()

	audio, err := New(srv.URL, "xi-key", "", 0).Synthesize(context.Background(), "Welcome, traveller", "voice-abc")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xFB, 0x90}, audio)
	assert.Equal(t, "Welcome, traveller", got.Text)
	assert.Equal(t, DefaultModel, got.ModelID)
	assert.InDelta(t, 0.5, got.VoiceSettings.Stability, 1e-6)
	assert.InDelta(t, 0.75, got.VoiceSettings.SimilarityBoost, 1e-6)
}

func TestSynthesize_Errors(t *testing.T) {
	status := http.StatusTooManyRequests
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	defer srv.Close()
	c := New(srv.URL, "k", "", 0)

	_, err := c.Synthesize(context.Background(), "x", "v")
	assert.True(t, errors.Is(err, ErrRateLimited))

	status = http.StatusUnauthorized
	_, err = c.Synthesize(context.Background(), "x", "v")
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.Code)

	_, err = New(srv.URL, "", "", 0).Synthesize(context.Background(), "x", "v")
	assert.True(t, errors.Is(err, ErrNotConfigured))
}
