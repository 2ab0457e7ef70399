package state

import "time"

// State is a position in the podcast selection protocol.
type State string

const (
	// StateAwaitingQuery waits for a free-text podcast search.
	StateAwaitingQuery State = "awaiting_query"
	// StateAwaitingPodcastChoice means a podcast menu is on screen.
	StateAwaitingPodcastChoice State = "awaiting_podcast_choice"
	// StateAwaitingEpisodeChoice means an episode menu is on screen.
	StateAwaitingEpisodeChoice State = "awaiting_episode_choice"
	// StateDone means an audio reply was sent for the current menu.
	StateDone State = "done"
)

// Session captures where a chat currently is in the selection protocol.
type Session struct {
	ChatID        int64     `json:"chat_id"`
	State         State     `json:"state"`
	MenuMessageID int       `json:"menu_message_id,omitempty"`
	Query         string    `json:"query,omitempty"`
	PodcastID     string    `json:"podcast_id,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Patch carries session fields to change; zero values keep what is stored.
type Patch struct {
	MenuMessageID int
	Query         string
	PodcastID     string
}

func (s *Session) apply(p Patch) {
	if p.MenuMessageID != 0 {
		s.MenuMessageID = p.MenuMessageID
	}
	if p.Query != "" {
		s.Query = p.Query
	}
	if p.PodcastID != "" {
		s.PodcastID = p.PodcastID
	}
}

// Accepts reports whether a button press on messageID moving to next belongs to the menu
// this session last showed. A nil session accepts everything.
func (s *Session) Accepts(next State, messageID int) bool {
	if s == nil {
		return true
	}
	if s.MenuMessageID != 0 && messageID != 0 && s.MenuMessageID != messageID {
		return false
	}
	return IsTransitionAllowed(s.State, next)
}
