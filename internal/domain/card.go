package domain

import "strings"

// Rarity is one of four ordered tiers governing draw odds, raid damage and
// sale price.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Rarities lists all tiers in draw-table order.
var Rarities = []Rarity{RarityCommon, RarityRare, RarityEpic, RarityLegendary}

// DrawWeights are the tier weights used by the gacha engine. They do not
// need to sum to 100.
var DrawWeights = map[Rarity]int{
	RarityCommon:    75,
	RarityRare:      20,
	RarityEpic:      4,
	RarityLegendary: 1,
}

// RaidDamage is the base raid damage dealt by a card of each tier.
var RaidDamage = map[Rarity]int{
	RarityCommon:    5,
	RarityRare:      12,
	RarityEpic:      25,
	RarityLegendary: 50,
}

// SellPrices are the fixed per-card payouts when selling to the trader.
var SellPrices = map[Rarity]int{
	RarityCommon:    5,
	RarityRare:      15,
	RarityEpic:      40,
	RarityLegendary: 120,
}

// rarityAliases maps user-facing spellings (the bot speaks Ukrainian) to
// canonical tiers.
var rarityAliases = map[string]Rarity{
	"common":    RarityCommon,
	"rare":      RarityRare,
	"epic":      RarityEpic,
	"legendary": RarityLegendary,
	"звичайна":  RarityCommon,
	"рідкісна":  RarityRare,
	"епічна":    RarityEpic,
	"легендарна": RarityLegendary,
}

// ParseRarity resolves a free-form rarity name to a canonical tier.
func ParseRarity(raw string) (Rarity, bool) {
	r, ok := rarityAliases[strings.ToLower(strings.TrimSpace(raw))]
	return r, ok
}

// Valid reports whether the rarity is one of the four known tiers.
func (r Rarity) Valid() bool {
	_, ok := DrawWeights[r]
	return ok
}

// Local returns the Ukrainian display name used in chat replies.
func (r Rarity) Local() string {
	switch r {
	case RarityCommon:
		return "звичайна"
	case RarityRare:
		return "рідкісна"
	case RarityEpic:
		return "епічна"
	case RarityLegendary:
		return "легендарна"
	}
	return string(r)
}

// Card is a catalog entry created by the admin. Weight is stored for
// catalog compatibility but draws are uniform within a tier.
type Card struct {
	ID          int64
	Name        string
	Rarity      Rarity
	Weight      int
	ImageRef    string
	Description string
}

// OwnedCard is a collection row joined with its catalog entry.
type OwnedCard struct {
	Card  Card
	Count int
}
