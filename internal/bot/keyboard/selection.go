package keyboard

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// SelectionSeparator splits a kind prefix from its value. Only the first one counts.
	SelectionSeparator     = "_"
	CallbackDataLimitBytes = 64

	episodePrefix    = "url"
	episodeRefPrefix = "ref"
)

// ErrMalformedSelection is returned for payloads that decode to nothing usable.
var ErrMalformedSelection = errors.New("malformed selection")

// ErrSelectionTooLong is returned when an encoded payload exceeds Telegram's callback data limit.
var ErrSelectionTooLong = errors.New("selection exceeds callback data limit")

// Kind tags what a button press selects.
type Kind int

const (
	KindPodcast Kind = iota + 1
	KindEpisode
	KindEpisodeRef
)

func (k Kind) String() string {
	switch k {
	case KindPodcast:
		return "podcast"
	case KindEpisode:
		return "episode"
	case KindEpisodeRef:
		return "episode_ref"
	default:
		return "unknown"
	}
}

// Selection is the value carried by a menu button. Value is a podcast id, an audio URL
// or a link store key depending on Kind.
type Selection struct {
	Kind  Kind
	Value string
}

func PodcastChoice(id string) Selection {
	return Selection{Kind: KindPodcast, Value: id}
}

func EpisodeChoice(audioURL string) Selection {
	return Selection{Kind: KindEpisode, Value: audioURL}
}

func EpisodeRefChoice(key string) Selection {
	return Selection{Kind: KindEpisodeRef, Value: key}
}

// Encode renders the selection as callback data.
func (s Selection) Encode() (string, error) {
	if s.Value == "" {
		return "", fmt.Errorf("%w: empty %s value", ErrMalformedSelection, s.Kind)
	}

	var payload string
	switch s.Kind {
	case KindPodcast:
		payload = s.Value
	case KindEpisode:
		payload = episodePrefix + SelectionSeparator + s.Value
	case KindEpisodeRef:
		payload = episodeRefPrefix + SelectionSeparator + s.Value
	default:
		return "", fmt.Errorf("%w: unknown kind %d", ErrMalformedSelection, s.Kind)
	}

	if len(payload) > CallbackDataLimitBytes {
		return "", fmt.Errorf("%w: got %d bytes", ErrSelectionTooLong, len(payload))
	}

	return payload, nil
}

// ParseSelection decodes callback data produced by Encode.
func ParseSelection(data string) (Selection, error) {
	if data == "" {
		return Selection{}, fmt.Errorf("%w: empty payload", ErrMalformedSelection)
	}

	prefix, value, found := strings.Cut(data, SelectionSeparator)
	if found {
		switch prefix {
		case episodePrefix:
			return nonEmpty(EpisodeChoice(value))
		case episodeRefPrefix:
			return nonEmpty(EpisodeRefChoice(value))
		}
	}

	return PodcastChoice(data), nil
}

func nonEmpty(s Selection) (Selection, error) {
	if s.Value == "" {
		return Selection{}, fmt.Errorf("%w: empty %s value", ErrMalformedSelection, s.Kind)
	}
	return s, nil
}
