// Package bot wires the Telegram transport: command routing, the admin
// dialog dispatcher and the middleware chain around every handler.
package bot

import (
	"fmt"
	"log/slog"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/kartka-game/kartka-bot/internal/bot/handlers"
	apperrors "github.com/kartka-game/kartka-bot/internal/errors"
	"github.com/kartka-game/kartka-bot/internal/game"
	"github.com/kartka-game/kartka-bot/internal/state"
	"github.com/kartka-game/kartka-bot/pkg/config"
)

const defaultPollTimeout = 10 * time.Second

// Bot wraps telebot.Bot with the game engine and dialog machinery.
type Bot struct {
	telebot    *telebot.Bot
	log        *slog.Logger
	cfg        config.BotConfig
	game       *game.Service
	fsm        state.Machine
	router     *Router
	dispatcher *Dispatcher
	errHandler *apperrors.Handler
}

// New builds a telegram bot instance configured according to the
// application settings.
func New(cfg config.BotConfig, log *slog.Logger, svc *game.Service, fsm state.Machine, errHandler *apperrors.Handler) (*Bot, error) {
	if log == nil {
		log = slog.Default()
	}

	pollTimeout := cfg.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = defaultPollTimeout
	}

	tb, err := telebot.NewBot(telebot.Settings{
		Token:  cfg.Token,
		Poller: &telebot.LongPoller{Timeout: pollTimeout},
	})
	if err != nil {
		return nil, fmt.Errorf("initialize telebot: %w", err)
	}

	dispatcher := NewDispatcher(fsm, log)
	router := NewRouter(dispatcher, log)

	b := &Bot{
		telebot:    tb,
		log:        log,
		cfg:        cfg,
		game:       svc,
		fsm:        fsm,
		router:     router,
		dispatcher: dispatcher,
		errHandler: errHandler,
	}

	b.setupRouter()
	b.registerTelebotHandlers()

	return b, nil
}

// Start runs the telegram bot event loop.
func (b *Bot) Start() {
	if b.telebot != nil {
		b.telebot.Start()
	}
}

// Stop gracefully stops the telegram bot.
func (b *Bot) Stop() {
	if b.telebot == nil {
		return
	}

	b.log.Info("stopping telegram bot...")
	b.telebot.Stop()
}

func (b *Bot) setupRouter() {
	b.router.Use(RecoveryMiddleware(b.log, b.errHandler))
	b.router.Use(ErrorHandlingMiddleware(b.errHandler))
	b.router.Use(LoggingMiddleware(b.log))
	b.router.Use(TouchMiddleware(b.game, b.log))

	svc, log := b.game, b.log

	b.router.RegisterCommand(CommandStart, handlers.NewStartHandler(svc, log))
	b.router.RegisterCommand(CommandPath, handlers.NewPathCommandHandler(svc, log))
	b.router.RegisterCommand(CommandDraw, handlers.NewDrawHandler(svc, log))
	b.router.RegisterCommand(CommandCollection, handlers.NewCollectionHandler(svc, log))
	b.router.RegisterCommand(CommandExchange, handlers.NewExchangeHandler(svc, log))
	b.router.RegisterCommand(CommandRaid, handlers.NewRaidHandler(svc, log))
	b.router.RegisterCommand(CommandAttack, handlers.NewAttackHandler(svc, log))
	b.router.RegisterCommand(CommandDuel, handlers.NewDuelHandler(svc, log))
	b.router.RegisterCommand(CommandDuelAccept, handlers.NewDuelAcceptHandler(svc, log))
	b.router.RegisterCommand(CommandDuelDecline, handlers.NewDuelDeclineHandler(svc, log))
	b.router.RegisterCommand(CommandGive, handlers.NewGiveHandler(svc, log))
	b.router.RegisterCommand(CommandTrader, handlers.NewTraderHandler(svc, log))
	b.router.RegisterCommand(CommandSell, handlers.NewSellHandler(svc, log))
	b.router.RegisterCommand(CommandBuy, handlers.NewBuyHandler(svc, log))
	b.router.RegisterCommand(CommandMe, handlers.NewMeHandler(svc, log))
	b.router.RegisterCommand(CommandEquip, handlers.NewEquipHandler(svc, log))
	b.router.RegisterCommand(CommandTravelStart, handlers.NewTravelStartHandler(svc, log))
	b.router.RegisterCommand(CommandTravelClaim, handlers.NewTravelClaimHandler(svc, log))
	b.router.RegisterCommand(CommandID, handlers.NewIDHandler(log))

	b.router.RegisterCallback(CallbackPathPrefix, handlers.NewPathCallbackHandler(svc, log))
	b.router.RegisterCallback(CallbackDuelAccept, handlers.NewDuelAcceptCallbackHandler(svc, log))
	b.router.RegisterCallback(CallbackDuelDecline, handlers.NewDuelDeclineCallbackHandler(svc, log))

	admin := handlers.NewAdmin(svc, b.fsm, log, b.cfg.IsAdmin)
	b.router.RegisterCommand(CommandAdmin, admin.Help())
	b.router.RegisterCommand(CommandListCards, admin.ListCards())
	b.router.RegisterCommand(CommandDeleteCard, admin.DeleteCard())
	b.router.RegisterCommand(CommandAddCard, admin.StartDialog())
	b.router.RegisterCommand(CommandCancel, admin.Cancel())

	b.router.RegisterCallback(CallbackAddConfirm, admin.ConfirmCallback(true))
	b.router.RegisterCallback(CallbackAddCancel, admin.ConfirmCallback(false))

	b.dispatcher.RegisterStateHandler(state.StateAwaitPhoto, admin.StepPhoto())
	b.dispatcher.RegisterStateHandler(state.StateAwaitName, admin.StepName())
	b.dispatcher.RegisterStateHandler(state.StateAwaitRarity, admin.StepRarity())
	b.dispatcher.RegisterStateHandler(state.StateAwaitDescription, admin.StepDescription())
}

func (b *Bot) registerTelebotHandlers() {
	b.telebot.Handle(telebot.OnText, b.router.Route)
	b.telebot.Handle(telebot.OnPhoto, b.router.Route)
	b.telebot.Handle(telebot.OnCallback, b.router.Route)
}
