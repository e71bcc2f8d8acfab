package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/kartka-game/kartka-bot/internal/game"
)

// NewTravelStartHandler handles /travel_start <hours>.
func NewTravelStartHandler(svc *game.Service, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		args := commandArgs(c)
		if len(args) < 1 {
			return usageErr("/travel_start <години 1-12>")
		}

		hours, err := parseCount(args[0])
		if err != nil {
			return err
		}

		travel, err := svc.StartTravel(context.Background(), c.Sender().ID, hours)
		if err != nil {
			return err
		}

		back := time.Unix(travel.EndTS, 0).UTC().Format("15:04")
		return c.Send(fmt.Sprintf(
			"🧭 Ти вирушив у подорож на %d год. Повернення о %s UTC. Потім: /travel_claim",
			hours, back,
		))
	}
}

// NewTravelClaimHandler handles /travel_claim.
func NewTravelClaimHandler(svc *game.Service, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		reward, err := svc.ClaimTravel(context.Background(), c.Sender().ID)
		if err != nil {
			return err
		}

		msg := fmt.Sprintf("🎒 Ти повернувся з подорожі!\n💰 +%d монет", reward.Coins)
		if reward.BoostUntil > 0 {
			msg += "\n🔥 Бонус: буст рейду на 6 годин!"
		}
		if reward.Weapon != nil {
			msg += fmt.Sprintf("\n🗡 Бонус: %s! Одягни: /equip %s", reward.Weapon.Name, reward.Weapon.ItemID)
		}

		return c.Send(msg)
	}
}
