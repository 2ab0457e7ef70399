package handlers_test

import (
	"context"
	"io"
	"log/slog"
	"sync"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/podcast-bot/internal/podcast"
)

type edit struct {
	what interface{}
	opts []interface{}
}

type sent struct {
	what interface{}
	opts []interface{}
}

// fakeContext implements the subset of telebot.Context the flow touches.
type fakeContext struct {
	telebot.Context

	text      string
	message   *telebot.Message
	callback  *telebot.Callback
	chat      *telebot.Chat
	sent      []sent
	edits     []edit
	responses []*telebot.CallbackResponse
	responded int
	store     map[string]interface{}
}

func newTextContext(chatID int64, text string) *fakeContext {
	chat := &telebot.Chat{ID: chatID}
	return &fakeContext{
		text:    text,
		chat:    chat,
		message: &telebot.Message{ID: 1, Chat: chat, Text: text},
	}
}

func newCallbackContext(chatID int64, menuID int, data string) *fakeContext {
	chat := &telebot.Chat{ID: chatID}
	return &fakeContext{
		chat: chat,
		callback: &telebot.Callback{
			ID:      "cb",
			Data:    data,
			Message: &telebot.Message{ID: menuID, Chat: chat},
		},
	}
}

func (c *fakeContext) Text() string                { return c.text }
func (c *fakeContext) Message() *telebot.Message   { return c.message }
func (c *fakeContext) Callback() *telebot.Callback { return c.callback }
func (c *fakeContext) Chat() *telebot.Chat         { return c.chat }
func (c *fakeContext) Sender() *telebot.User       { return &telebot.User{ID: c.chat.ID} }

func (c *fakeContext) Send(what interface{}, opts ...interface{}) error {
	c.sent = append(c.sent, sent{what: what, opts: opts})
	return nil
}

func (c *fakeContext) Edit(what interface{}, opts ...interface{}) error {
	c.edits = append(c.edits, edit{what: what, opts: opts})
	return nil
}

func (c *fakeContext) Respond(resp ...*telebot.CallbackResponse) error {
	c.responded++
	c.responses = append(c.responses, resp...)
	return nil
}

func (c *fakeContext) Get(key string) interface{} {
	return c.store[key]
}

func (c *fakeContext) Set(key string, val interface{}) {
	if c.store == nil {
		c.store = make(map[string]interface{})
	}
	c.store[key] = val
}

type fakeMessenger struct {
	mu     sync.Mutex
	nextID int
	sent   []sent
}

func (m *fakeMessenger) Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.nextID == 0 {
		m.nextID = 100
	}
	msg := &telebot.Message{ID: m.nextID}
	m.nextID++
	m.sent = append(m.sent, sent{what: what, opts: opts})
	return msg, nil
}

type fakeSearcher struct {
	results map[string][]podcast.Candidate
	err     error
	calls   int
}

func (s *fakeSearcher) Search(_ context.Context, query string) ([]podcast.Candidate, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if res, ok := s.results[query]; ok {
		return res, nil
	}
	return nil, podcast.ErrNoResults
}

type fakeLister struct {
	episodes map[string][]podcast.Episode
	err      error
	calls    int
}

func (l *fakeLister) ListEpisodes(_ context.Context, podcastID string) ([]podcast.Episode, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	if eps, ok := l.episodes[podcastID]; ok {
		return eps, nil
	}
	return nil, podcast.ErrNoResults
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func markupOf(opts []interface{}) *telebot.ReplyMarkup {
	for _, opt := range opts {
		if m, ok := opt.(*telebot.ReplyMarkup); ok {
			return m
		}
	}
	return nil
}
