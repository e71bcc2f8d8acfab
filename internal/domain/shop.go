package domain

import "fmt"

// ShopItemType classifies the trader's daily stock.
type ShopItemType string

const (
	// ShopPack grants three independent card draws.
	ShopPack ShopItemType = "pack"
	// ShopBoost grants +20% raid damage for twelve hours.
	ShopBoost ShopItemType = "boost"
	// ShopWeapon adds a weapon to the buyer's inventory.
	ShopWeapon ShopItemType = "weapon"
)

// Shop base prices before any raid-kill discount.
const (
	ShopPackBasePrice   = 60
	ShopBoostBasePrice  = 40
	ShopWeaponBasePrice = 120
)

// BoostDurationSeconds is how long a purchased raid boost lasts.
const BoostDurationSeconds = 12 * 3600

// ShopItem is one entry of the deterministic daily listing. The ID encodes
// the day (and weapon power) so it is stable across calls and survives a
// day's price changes.
type ShopItem struct {
	ID    string
	Type  ShopItemType
	Name  string
	Price int
	Power int // weapons only
}

// ShopPackID returns the id of the day's card pack.
func ShopPackID(day string) string { return fmt.Sprintf("pack_%s_3", day) }

// ShopBoostID returns the id of the day's raid boost.
func ShopBoostID(day string) string { return fmt.Sprintf("boost_%s_raid20", day) }

// ShopWeaponID returns the id of the day's weapon with the given power.
func ShopWeaponID(day string, power int) string {
	return fmt.Sprintf("weapon_%s_%d", day, power)
}
