package state

// validTransitions contains the permitted forward steps of the dialog.
// Returning to idle (cancel or completion) is always allowed.
var validTransitions = map[State][]State{
	StateIdle: {
		StateAwaitPhoto,
	},
	StateAwaitPhoto: {
		StateAwaitName,
	},
	StateAwaitName: {
		StateAwaitRarity,
	},
	StateAwaitRarity: {
		StateAwaitDescription,
	},
	StateAwaitDescription: {
		StateConfirm,
	},
}

// IsTransitionAllowed reports whether moving from one state to another is valid.
func IsTransitionAllowed(from, to State) bool {
	if to == StateIdle {
		return true
	}

	for _, state := range validTransitions[from] {
		if state == to {
			return true
		}
	}

	return false
}
