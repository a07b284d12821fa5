package workspace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablekeep/tablekeep/internal/model"
)

func TestConversation_SendConfirms(t *testing.T) {
	f := newFake()
	f.reply = "Roll for initiative."
	w, _ := open(t, f)
	conv, err := w.Conversation("c1")
	require.NoError(t, err)

	reply, err := conv.Send(context.Background(), "What now?")
	require.NoError(t, err)
	assert.Equal(t, "Roll for initiative.", reply)

	entries := conv.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, model.RoleUser, entries[0].Role)
	assert.IsType(t, Confirmed{}, entries[0].State)
	assert.Equal(t, model.RoleAssistant, entries[1].Role)
	assert.Equal(t, "Roll for initiative.", entries[1].Content)

	same, err := w.Conversation("c1")
	require.NoError(t, err)
	assert.Same(t, conv, same)
}

func TestConversation_FailureThenRetry(t *testing.T) {
	f := newFake()
	w, rec := open(t, f)
	conv, err := w.Conversation("c1")
	require.NoError(t, err)

	f.fail["chat"] = true
	_, err = conv.Send(context.Background(), "hello")
	require.ErrorIs(t, err, errRemote)

	entries := conv.Entries()
	require.Len(t, entries, 1)
	failed, ok := entries[0].State.(Failed)
	require.True(t, ok)
	assert.ErrorIs(t, failed.Err, errRemote)
	assert.Equal(t, "assistant chat", rec.Errors()[0].Op)

	f.fail["chat"] = false
	reply, err := conv.Retry(context.Background(), entries[0].LocalID)
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)

	entries = conv.Entries()
	require.Len(t, entries, 2)
	assert.IsType(t, Confirmed{}, entries[0].State)

	_, err = conv.Retry(context.Background(), entries[0].LocalID)
	assert.ErrorIs(t, err, model.ErrValidation)
	_, err = conv.Retry(context.Background(), 999)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestConversation_LoadReplacesWithHistory(t *testing.T) {
	f := newFake()
	w, _ := open(t, f)
	other, err := w.Conversation("c2")
	require.NoError(t, err)
	_, err = other.Send(context.Background(), "elsewhere")
	require.NoError(t, err)

	conv, err := w.Conversation("c1")
	require.NoError(t, err)
	_, err = conv.Send(context.Background(), "first")
	require.NoError(t, err)

	fresh := &Conversation{w: w, campaignID: "c1"}
	require.NoError(t, fresh.Load(context.Background()))
	entries := fresh.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0].Content)
	confirmed, ok := entries[0].State.(Confirmed)
	require.True(t, ok)
	assert.NotEmpty(t, confirmed.MessageID)

	f.fail["chat history"] = true
	assert.Error(t, fresh.Load(context.Background()))
	assert.Len(t, fresh.Entries(), 2)
}

func TestConversation_LoadKeepsInFlightSend(t *testing.T) {
	f := newFake()
	f.reply = "The door creaks."
	w, _ := open(t, f)
	conv, err := w.Conversation("c1")
	require.NoError(t, err)
	_, err = conv.Send(context.Background(), "knock")
	require.NoError(t, err)

	f.chatStarted = make(chan struct{})
	f.chatGate = make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := conv.Send(context.Background(), "open it")
		done <- err
	}()
	<-f.chatStarted

	require.NoError(t, conv.Load(context.Background()))
	entries := conv.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "knock", entries[0].Content)
	assert.Equal(t, "open it", entries[2].Content)
	assert.IsType(t, Pending{}, entries[2].State)

	close(f.chatGate)
	require.NoError(t, <-done)
	entries = conv.Entries()
	require.Len(t, entries, 4)
	assert.Equal(t, model.RoleUser, entries[2].Role)
	assert.IsType(t, Confirmed{}, entries[2].State)
	assert.Equal(t, model.RoleAssistant, entries[3].Role)
	assert.Equal(t, "The door creaks.", entries[3].Content)
}
