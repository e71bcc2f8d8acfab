package domain

// ItemType classifies inventory entries.
type ItemType string

const (
	// ItemWeapon contributes power to raid damage and duels once equipped.
	ItemWeapon ItemType = "weapon"
)

// InventoryItem is a stackable per-user item keyed by (UserID, ItemID).
type InventoryItem struct {
	UserID int64
	ItemID string
	Type   ItemType
	Name   string
	Power  int
	Qty    int
}
