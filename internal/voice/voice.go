// Package voice implements the NPC voice proxy.
package voice

import (
	"context"
	"encoding/base64"

	"github.com/rs/zerolog"

	"github.com/tablekeep/tablekeep/internal/api/validate"
)

// Synthesizer turns text into encoded audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
}

type Service struct {
	synth Synthesizer
	log   zerolog.Logger
}

func New(s Synthesizer, log zerolog.Logger) *Service {
	return &Service{synth: s, log: log}
}

// Speak returns base64 MPEG audio of text in voiceID. Vendor errors are
// returned unchanged so the caller can map rate limits.
func (s *Service) Speak(ctx context.Context, text, voiceID string) (string, error) {
	if err := validate.VoiceRequest(text, voiceID); err != nil {
		return "", err
	}
	audio, err := s.synth.Synthesize(ctx, text, voiceID)
	if err != nil {
		return "", err
	}
	s.log.Debug().Str("voice_id", voiceID).Int("bytes", len(audio)).Msg("voice generated")
	return base64.StdEncoding.EncodeToString(audio), nil
}
