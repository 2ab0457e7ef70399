package state

// validTransitions contains the permitted moves of the selection protocol.
var validTransitions = map[State][]State{
	StateAwaitingQuery: {
		StateAwaitingPodcastChoice,
	},
	StateAwaitingPodcastChoice: {
		StateAwaitingEpisodeChoice,
	},
	StateAwaitingEpisodeChoice: {
		StateDone,
	},
	StateDone: {
		StateDone,
	},
}

// IsTransitionAllowed reports whether moving from one state to another is valid.
// A new query always restarts the protocol.
func IsTransitionAllowed(from, to State) bool {
	if to == StateAwaitingQuery {
		return true
	}

	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}

	for _, state := range allowed {
		if state == to {
			return true
		}
	}

	return false
}
