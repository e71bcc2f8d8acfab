package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/kartka-game/kartka-bot/internal/domain"
	apperrors "github.com/kartka-game/kartka-bot/internal/errors"
	"github.com/kartka-game/kartka-bot/internal/game"
	"github.com/kartka-game/kartka-bot/internal/state"
)

const skipToken = "-"

// Admin bundles the catalog commands and the add-card dialog. Every
// handler rejects non-admin senders.
type Admin struct {
	svc     *game.Service
	fsm     state.Machine
	log     *slog.Logger
	isAdmin func(int64) bool
}

// NewAdmin constructs the admin handler set.
func NewAdmin(svc *game.Service, fsm state.Machine, log *slog.Logger, isAdmin func(int64) bool) *Admin {
	if log == nil {
		log = slog.Default()
	}

	return &Admin{
		svc:     svc,
		fsm:     fsm,
		log:     log,
		isAdmin: isAdmin,
	}
}

func (a *Admin) guard(c telebot.Context) error {
	if a.isAdmin != nil && a.isAdmin(c.Sender().ID) {
		return nil
	}

	return apperrors.NewPrecondition(
		fmt.Sprintf("user %d is not an admin", c.Sender().ID),
		"Ця команда лише для адміна.",
	)
}

// Help handles /admin: the admin command overview.
func (a *Admin) Help() Handler {
	return func(c telebot.Context) error {
		if err := a.guard(c); err != nil {
			return err
		}

		return c.Send(`🔧 Адмін-команди:
/addkartka — додати карту (діалог)
/listkartky — список карт
/delkartka <card_id> — видалити карту
/cancel — скасувати діалог`)
	}
}

// ListCards handles /listkartky.
func (a *Admin) ListCards() Handler {
	return func(c telebot.Context) error {
		if err := a.guard(c); err != nil {
			return err
		}

		cards, err := a.svc.ListCatalog(context.Background())
		if err != nil {
			return err
		}

		if len(cards) == 0 {
			return c.Send("База карт порожня. Додай першу: /addkartka")
		}

		var b strings.Builder
		b.WriteString("🗃 Каталог карт:\n")
		for _, card := range cards {
			fmt.Fprintf(&b, "#%d %s (%s)\n", card.ID, card.Name, card.Rarity.Local())
		}

		return c.Send(b.String())
	}
}

// DeleteCard handles /delkartka <card_id>.
func (a *Admin) DeleteCard() Handler {
	return func(c telebot.Context) error {
		if err := a.guard(c); err != nil {
			return err
		}

		args := commandArgs(c)
		if len(args) < 1 {
			return usageErr("/delkartka <card_id>")
		}

		cardID, err := parseID(args[0], "card_id")
		if err != nil {
			return err
		}

		if err := a.svc.DeleteCard(context.Background(), cardID); err != nil {
			return err
		}

		return c.Send(fmt.Sprintf("🗑 Карту #%d видалено разом з усіма копіями.", cardID))
	}
}

// StartDialog handles /addkartka: begins the add-card conversation.
func (a *Admin) StartDialog() Handler {
	return func(c telebot.Context) error {
		if err := a.guard(c); err != nil {
			return err
		}

		if err := a.fsm.Begin(context.Background(), c.Sender().ID); err != nil {
			return err
		}

		return c.Send("📷 Надішли фото карти (або «-» щоб пропустити).")
	}
}

// Cancel handles /cancel: abandons the dialog.
func (a *Admin) Cancel() Handler {
	return func(c telebot.Context) error {
		if err := a.fsm.Clear(context.Background(), c.Sender().ID); err != nil {
			return err
		}

		return c.Send("Скасовано.")
	}
}

// StepPhoto consumes the card image (or the skip token).
func (a *Admin) StepPhoto() Handler {
	return func(c telebot.Context) error {
		if err := a.guard(c); err != nil {
			return err
		}

		imageRef := ""
		if photo := c.Message().Photo; photo != nil {
			imageRef = photo.FileID
		} else if strings.TrimSpace(c.Text()) != skipToken {
			return c.Send("Надішли фото або «-».")
		}

		_, err := a.fsm.Advance(context.Background(), c.Sender().ID, state.StateAwaitName, func(d *state.CardDraft) {
			d.ImageRef = imageRef
		})
		if err != nil {
			return err
		}

		return c.Send("✏️ Назва карти?")
	}
}

// StepName consumes the card name.
func (a *Admin) StepName() Handler {
	return func(c telebot.Context) error {
		if err := a.guard(c); err != nil {
			return err
		}

		name := strings.TrimSpace(c.Text())
		if len([]rune(name)) < 2 {
			return c.Send("Назва закоротка. Мінімум 2 символи.")
		}

		_, err := a.fsm.Advance(context.Background(), c.Sender().ID, state.StateAwaitRarity, func(d *state.CardDraft) {
			d.Name = name
		})
		if err != nil {
			return err
		}

		return c.Send("⭐ Рідкість? (common / rare / epic / legendary)")
	}
}

// StepRarity consumes the rarity choice.
func (a *Admin) StepRarity() Handler {
	return func(c telebot.Context) error {
		if err := a.guard(c); err != nil {
			return err
		}

		rarity, ok := domain.ParseRarity(c.Text())
		if !ok {
			return c.Send("Невірна рідкість. Варіанти: common, rare, epic, legendary.")
		}

		_, err := a.fsm.Advance(context.Background(), c.Sender().ID, state.StateAwaitDescription, func(d *state.CardDraft) {
			d.Rarity = string(rarity)
		})
		if err != nil {
			return err
		}

		return c.Send("📝 Опис карти? (або «-» щоб пропустити)")
	}
}

// StepDescription consumes the description and shows the confirmation.
func (a *Admin) StepDescription() Handler {
	return func(c telebot.Context) error {
		if err := a.guard(c); err != nil {
			return err
		}

		description := strings.TrimSpace(c.Text())
		if description == skipToken {
			description = ""
		}

		session, err := a.fsm.Advance(context.Background(), c.Sender().ID, state.StateConfirm, func(d *state.CardDraft) {
			d.Description = description
		})
		if err != nil {
			return err
		}

		markup := &telebot.ReplyMarkup{}
		markup.Inline(markup.Row(
			markup.Data("✅ Так", "addcard_yes"),
			markup.Data("❌ Ні", "addcard_no"),
		))

		draft := session.Draft
		return c.Send(fmt.Sprintf(
			"Додати карту?\nНазва: %s\nРідкість: %s\nОпис: %s",
			draft.Name, draft.Rarity, orDash(draft.Description),
		), markup)
	}
}

// ConfirmCallback finalizes the dialog from the inline buttons.
func (a *Admin) ConfirmCallback(confirm bool) CallbackHandler {
	return func(c telebot.Context) error {
		if err := a.guard(c); err != nil {
			return err
		}

		ctx := context.Background()
		userID := c.Sender().ID

		if !confirm {
			if err := a.fsm.Clear(ctx, userID); err != nil {
				return err
			}
			if err := c.Send("Скасовано."); err != nil {
				return err
			}
			return c.Respond(&telebot.CallbackResponse{})
		}

		session, err := a.fsm.GetSession(ctx, userID)
		if err != nil {
			return err
		}
		if session.CurrentState != state.StateConfirm {
			return apperrors.NewPrecondition(
				"confirm pressed outside confirm step",
				"Діалог уже завершено.",
			)
		}

		draft := session.Draft
		card, err := a.svc.AddCard(ctx, draft.Name, draft.Rarity, draft.ImageRef, draft.Description)
		if err != nil {
			return err
		}

		if err := a.fsm.Clear(ctx, userID); err != nil {
			a.log.Error("failed to clear dialog session", slog.Int64("user_id", userID), slog.Any("error", err))
		}

		if err := c.Send(fmt.Sprintf("✅ Карту #%d додано!", card.ID)); err != nil {
			return err
		}
		return c.Respond(&telebot.CallbackResponse{})
	}
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
