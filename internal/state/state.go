// Package state tracks the multi-step admin card-creation dialog. Each
// admin has at most one session; the session walks photo, name, rarity
// and description before a final confirmation.
package state

import "time"

// State is one step of the add-card dialog.
type State string

const (
	// StateIdle indicates no dialog is in progress.
	StateIdle State = "idle"
	// StateAwaitPhoto waits for the card image.
	StateAwaitPhoto State = "await_photo"
	// StateAwaitName waits for the card name.
	StateAwaitName State = "await_name"
	// StateAwaitRarity waits for the rarity choice.
	StateAwaitRarity State = "await_rarity"
	// StateAwaitDescription waits for the card description.
	StateAwaitDescription State = "await_description"
	// StateConfirm waits for the final yes/no.
	StateConfirm State = "confirm"
)

// CardDraft accumulates the fields collected during the dialog.
type CardDraft struct {
	Name        string `json:"name"`
	Rarity      string `json:"rarity"`
	ImageRef    string `json:"image_ref"`
	Description string `json:"description"`
}

// Session is one admin's dialog position plus the draft collected so far.
type Session struct {
	UserID       int64     `json:"user_id"`
	CurrentState State     `json:"current_state"`
	Draft        CardDraft `json:"draft"`
	UpdatedAt    time.Time `json:"updated_at"`
}
