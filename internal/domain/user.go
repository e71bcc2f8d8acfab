package domain

import (
	"fmt"
	"strings"
)

// Path is the meme "life path" a player picks before drawing cards.
type Path string

const (
	PathGay      Path = "гей"
	PathStraight Path = "натурал"
	PathLesbian  Path = "лесбійка"
)

// Paths lists all selectable paths.
var Paths = []Path{PathGay, PathStraight, PathLesbian}

// ParsePath resolves user input to a known path.
func ParsePath(raw string) (Path, bool) {
	p := Path(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Paths {
		if p == known {
			return p, true
		}
	}
	return "", false
}

// User is a player profile. Created on first interaction, never deleted.
type User struct {
	ID               int64
	Username         string
	FirstName        string
	Path             Path
	Coins            int64
	EquippedWeaponID string
	RaidBoostUntil   int64
	LastSeen         int64
}

// HasRaidBoost reports whether the raid damage boost is active at now.
func (u *User) HasRaidBoost(now int64) bool {
	return u != nil && u.RaidBoostUntil > now
}

// Label renders the user reference shown in chat: @username when known,
// otherwise first name with the numeric id.
func (u *User) Label() string {
	if u == nil {
		return ""
	}
	if u.Username != "" {
		return "@" + u.Username
	}
	name := u.FirstName
	if name == "" {
		name = "user"
	}
	return fmt.Sprintf("%s(%d)", name, u.ID)
}
