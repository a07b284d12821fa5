package voice

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablekeep/tablekeep/internal/model"
)

type fakeSynth struct {
	audio []byte
	err   error
	calls int
}

func (f *fakeSynth) Synthesize(_ context.Context, _, _ string) ([]byte, error) {
	f.calls++
	return f.audio, f.err
}

func TestSpeak(t *testing.T) {
	f := &fakeSynth{audio: []byte("mp3")}
	out, err := New(f, zerolog.Nop()).Speak(context.Background(), "Halt!", "v1")
	require.NoError(t, err)
	raw, err := base64.StdEncoding.DecodeString(out)
	require.NoError(t, err)
	assert.Equal(t, "mp3", string(raw))
}

func TestSpeak_ValidationSkipsVendor(t *testing.T) {
	f := &fakeSynth{}
	_, err := New(f, zerolog.Nop()).Speak(context.Background(), "", "v1")
	assert.True(t, errors.Is(err, model.ErrValidation))
	assert.Zero(t, f.calls)
}

func TestSpeak_PropagatesVendorError(t *testing.T) {
	boom := errors.New("boom")
	_, err := New(&fakeSynth{err: boom}, zerolog.Nop()).Speak(context.Background(), "hi", "v1")
	assert.ErrorIs(t, err, boom)
}
