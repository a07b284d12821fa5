// Package apitest starts the full HTTP router over SQLite and an in-memory
// bucket with scripted vendors, for handler and client tests.
package apitest

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/tablekeep/tablekeep/internal/api"
	"github.com/tablekeep/tablekeep/internal/assistant"
	"github.com/tablekeep/tablekeep/internal/auth"
	"github.com/tablekeep/tablekeep/internal/llm"
	"github.com/tablekeep/tablekeep/internal/objstore"
	"github.com/tablekeep/tablekeep/internal/services"
	"github.com/tablekeep/tablekeep/internal/store/sqlstore"
	"github.com/tablekeep/tablekeep/internal/store/sqlite"
	"github.com/tablekeep/tablekeep/internal/voice"
)

// Secret signs the JWTs accepted by the fixture.
const Secret = "apitest-secret"

// LLM is a scripted llm.Provider.
type LLM struct {
	mu    sync.Mutex
	Reply string
	Err   error
	Last  llm.Request
}

func (f *LLM) Complete(_ context.Context, req llm.Request) (*llm.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Last = req
	if f.Err != nil {
		return nil, f.Err
	}
	return &llm.Response{Content: f.Reply}, nil
}

// Script sets the next reply and error.
func (f *LLM) Script(reply string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Reply, f.Err = reply, err
}

// LastRequest returns the most recent request.
func (f *LLM) LastRequest() llm.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Last
}

// Synth is a scripted voice.Synthesizer.
type Synth struct {
	mu    sync.Mutex
	Audio []byte
	Err   error
}

func (f *Synth) Synthesize(context.Context, string, string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Audio, f.Err
}

// Script sets the next audio and error.
func (f *Synth) Script(audio []byte, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Audio, f.Err = audio, err
}

// Fixture is a running service.
type Fixture struct {
	Server *httptest.Server
	Store  *sqlstore.Store
	Blobs  *objstore.Store
	LLM    *LLM
	Synth  *Synth
}

// Token issues a bearer token for userID.
func (f *Fixture) Token(t *testing.T, userID string) string {
	t.Helper()
	tok, err := auth.IssueToken(Secret, userID, time.Hour)
	require.NoError(t, err)
	return tok
}

// Start runs the router until the test ends. maxUpload 0 keeps the default.
func Start(t *testing.T, maxUpload int64) *Fixture {
	t.Helper()
	ctx := context.Background()
	st, err := sqlite.New(ctx, filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	blobs, err := objstore.Open(ctx, "mem://", "")
	require.NoError(t, err)

	log := zerolog.Nop()
	f := &Fixture{Store: st, Blobs: blobs, LLM: &LLM{Reply: "ok"}, Synth: &Synth{Audio: []byte("ID3")}}
	router := api.NewRouter(api.Deps{
		Auth:           auth.New(Secret, true),
		Campaigns:      services.NewCampaignService(st, log),
		Players:        services.NewPlayerService(st, log),
		Encounters:     services.NewEncounterService(st, log),
		Sessions:       services.NewSessionService(st, log),
		Maps:           services.NewMapService(st, blobs, log),
		Assistant:      assistant.New(st, f.LLM, log, assistant.DefaultOptions()),
		Voice:          voice.New(f.Synth, log),
		MaxUploadBytes: maxUpload,
	})
	f.Server = httptest.NewServer(router)
	t.Cleanup(func() {
		f.Server.Close()
		_ = blobs.Close()
		_ = st.Close()
	})
	return f
}
