package workspace

import (
	"context"
	"fmt"
	"sync"

	"github.com/tablekeep/tablekeep/internal/model"
)

// Chatter is the assistant part of Remote.
type Chatter interface {
	Chat(ctx context.Context, campaignID, message string) (string, error)
	ChatHistory(ctx context.Context, campaignID string, limit int) ([]*model.ChatMessage, error)
}

// MessageState is one of Pending, Confirmed or Failed.
type MessageState interface {
	isMessageState()
}

// Pending: sent, no answer yet.
type Pending struct{}

// Confirmed: stored by the service. MessageID is empty until the history
// is reloaded.
type Confirmed struct {
	MessageID string
}

// Failed: the assistant call failed; the message was not stored.
type Failed struct {
	Err error
}

func (Pending) isMessageState()   {}
func (Confirmed) isMessageState() {}
func (Failed) isMessageState()    {}

// ChatEntry is one line of a conversation as the user sees it.
type ChatEntry struct {
	LocalID int
	Role    model.ChatRole
	Content string
	State   MessageState
}

// Conversation is the chat log of one campaign.
type Conversation struct {
	w          *Workspace
	campaignID string

	mu      sync.Mutex
	entries []ChatEntry
	nextID  int
}

// Conversation returns the log for campaignID, creating it on first use.
func (w *Workspace) Conversation(campaignID string) (*Conversation, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil, ErrClosed
	}
	c, ok := w.convs[campaignID]
	if !ok {
		c = &Conversation{w: w, campaignID: campaignID}
		w.convs[campaignID] = c
	}
	return c, nil
}

func (c *Conversation) CampaignID() string { return c.campaignID }

// Load replaces the log with the service's recent history. Pending entries
// are kept after it.
func (c *Conversation) Load(ctx context.Context) error {
	if err := c.w.check(); err != nil {
		return err
	}
	msgs, err := c.w.remote.ChatHistory(ctx, c.campaignID, 0)
	if err != nil {
		c.w.fail("load chat", err)
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entries := make([]ChatEntry, 0, len(msgs)+len(c.entries))
	for _, m := range msgs {
		entries = append(entries, ChatEntry{
			LocalID: c.next(),
			Role:    m.Role,
			Content: m.Content,
			State:   Confirmed{MessageID: m.ID},
		})
	}
	// Sends still in flight keep their LocalID so deliver can settle them.
	for _, e := range c.entries {
		if _, pending := e.State.(Pending); pending {
			entries = append(entries, e)
		}
	}
	c.entries = entries
	return nil
}

func (c *Conversation) next() int {
	c.nextID++
	return c.nextID
}

// Entries returns a copy of the log, oldest first.
func (c *Conversation) Entries() []ChatEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ChatEntry(nil), c.entries...)
}

// Send appends message as Pending, asks the assistant and then moves the
// entry to Confirmed (followed by the reply) or Failed.
func (c *Conversation) Send(ctx context.Context, message string) (string, error) {
	if err := c.w.check(); err != nil {
		return "", err
	}
	c.mu.Lock()
	id := c.next()
	c.entries = append(c.entries, ChatEntry{LocalID: id, Role: model.RoleUser, Content: message, State: Pending{}})
	c.mu.Unlock()
	return c.deliver(ctx, id, message)
}

// Retry resends a Failed entry.
func (c *Conversation) Retry(ctx context.Context, localID int) (string, error) {
	c.mu.Lock()
	i := c.indexOf(localID)
	if i < 0 {
		c.mu.Unlock()
		return "", fmt.Errorf("chat entry %d: %w", localID, model.ErrNotFound)
	}
	if _, failed := c.entries[i].State.(Failed); !failed {
		c.mu.Unlock()
		return "", fmt.Errorf("%w: chat entry %d has not failed", model.ErrValidation, localID)
	}
	c.entries[i].State = Pending{}
	message := c.entries[i].Content
	c.mu.Unlock()
	return c.deliver(ctx, localID, message)
}

func (c *Conversation) deliver(ctx context.Context, localID int, message string) (string, error) {
	reply, err := c.w.remote.Chat(ctx, c.campaignID, message)

	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(localID)
	if err != nil {
		if i >= 0 {
			c.entries[i].State = Failed{Err: err}
		}
		c.w.fail("assistant chat", err)
		return "", err
	}
	if i >= 0 {
		c.entries[i].State = Confirmed{}
	}
	c.entries = append(c.entries, ChatEntry{LocalID: c.next(), Role: model.RoleAssistant, Content: reply, State: Confirmed{}})
	return reply, nil
}

func (c *Conversation) indexOf(localID int) int {
	for i, e := range c.entries {
		if e.LocalID == localID {
			return i
		}
	}
	return -1
}
