package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	telebot "gopkg.in/telebot.v3"

	"github.com/kartka-game/kartka-bot/internal/domain"
	"github.com/kartka-game/kartka-bot/internal/game"
)

// NewDuelHandler handles /duel <@user|id>: creates a pending challenge and
// shows the opponent inline accept/decline buttons.
func NewDuelHandler(svc *game.Service, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		args := commandArgs(c)
		if len(args) < 1 {
			return usageErr("/duel <@user|id>")
		}

		duel, target, err := svc.Challenge(context.Background(), c.Sender().ID, args[0])
		if err != nil {
			return err
		}

		markup := &telebot.ReplyMarkup{}
		duelID := strconv.FormatInt(duel.ID, 10)
		markup.Inline(markup.Row(
			markup.Data("⚔️ Прийняти", "duel_accept", duelID),
			markup.Data("🙅 Відхилити", "duel_decline", duelID),
		))

		return c.Send(fmt.Sprintf(
			"⚔️ Дуель #%d: %s викликає %s!\n%s, приймаєш? (/duel_accept %d або /duel_decline %d)",
			duel.ID, c.Sender().FirstName, target.Label(), target.Label(), duel.ID, duel.ID,
		), markup)
	}
}

// NewDuelAcceptHandler handles /duel_accept <duel_id>.
func NewDuelAcceptHandler(svc *game.Service, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		args := commandArgs(c)
		if len(args) < 1 {
			return usageErr("/duel_accept <duel_id>")
		}

		duelID, err := parseID(args[0], "duel_id")
		if err != nil {
			return err
		}

		return acceptDuel(c, svc, duelID)
	}
}

// NewDuelDeclineHandler handles /duel_decline <duel_id>.
func NewDuelDeclineHandler(svc *game.Service, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		args := commandArgs(c)
		if len(args) < 1 {
			return usageErr("/duel_decline <duel_id>")
		}

		duelID, err := parseID(args[0], "duel_id")
		if err != nil {
			return err
		}

		return declineDuel(c, svc, duelID)
	}
}

// NewDuelAcceptCallbackHandler handles the inline accept button.
func NewDuelAcceptCallbackHandler(svc *game.Service, log *slog.Logger) CallbackHandler {
	return func(c telebot.Context) error {
		duelID, err := parseID(callbackPayload(c, "duel_accept"), "duel_id")
		if err != nil {
			return err
		}

		if err := acceptDuel(c, svc, duelID); err != nil {
			return err
		}
		return c.Respond(&telebot.CallbackResponse{})
	}
}

// NewDuelDeclineCallbackHandler handles the inline decline button.
func NewDuelDeclineCallbackHandler(svc *game.Service, log *slog.Logger) CallbackHandler {
	return func(c telebot.Context) error {
		duelID, err := parseID(callbackPayload(c, "duel_decline"), "duel_id")
		if err != nil {
			return err
		}

		if err := declineDuel(c, svc, duelID); err != nil {
			return err
		}
		return c.Respond(&telebot.CallbackResponse{})
	}
}

func acceptDuel(c telebot.Context, svc *game.Service, duelID int64) error {
	outcome, err := svc.Accept(context.Background(), duelID, c.Sender().ID)
	if err != nil {
		return err
	}

	if outcome.Tie {
		return c.Send(fmt.Sprintf(
			"🤝 Дуель #%d — нічия! Сила %d проти %d. Монети лишаються при своїх.",
			outcome.Duel.ID, outcome.ChallengerPower, outcome.OpponentPower,
		))
	}

	return c.Send(fmt.Sprintf(
		"⚔️ Дуель #%d завершена!\nСила: %d проти %d\n🏆 Переможець отримує %d монет, переможений — %d.",
		outcome.Duel.ID, outcome.ChallengerPower, outcome.OpponentPower,
		domain.DuelWinnerPrize, domain.DuelLoserPrize,
	))
}

func declineDuel(c telebot.Context, svc *game.Service, duelID int64) error {
	if err := svc.Decline(context.Background(), duelID, c.Sender().ID); err != nil {
		return err
	}

	return c.Send(fmt.Sprintf("🙅 Дуель #%d відхилена.", duelID))
}
