package bot

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	telebot "gopkg.in/telebot.v3"

	"github.com/kartka-game/kartka-bot/internal/bot/handlers"
	"github.com/kartka-game/kartka-bot/internal/state"
)

// Dispatcher routes non-command messages to the handler of the sender's
// current dialog step. Users outside a dialog are ignored.
type Dispatcher struct {
	fsm           state.Machine
	stateHandlers map[state.State]handlers.Handler
	log           *slog.Logger
	mu            sync.RWMutex
}

// NewDispatcher creates a Dispatcher with an empty handlers registry.
func NewDispatcher(fsm state.Machine, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}

	return &Dispatcher{
		fsm:           fsm,
		stateHandlers: make(map[state.State]handlers.Handler),
		log:           log,
	}
}

// RegisterStateHandler registers a handler for the provided dialog step.
func (d *Dispatcher) RegisterStateHandler(s state.State, h handlers.Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stateHandlers[s] = h
}

// Dispatch routes the update based on the sender's current dialog step.
func (d *Dispatcher) Dispatch(c telebot.Context) error {
	if c == nil || c.Sender() == nil {
		return nil
	}

	if d.fsm == nil {
		return nil
	}

	session, err := d.fsm.GetSession(context.Background(), c.Sender().ID)
	if err != nil {
		if errors.Is(err, state.ErrSessionNotFound) {
			return nil
		}
		return err
	}

	handler := d.getHandler(session.CurrentState)
	if handler == nil {
		d.log.Debug("no handler registered for dialog step",
			"state", session.CurrentState, "user_id", c.Sender().ID)
		return nil
	}

	return handler(c)
}

func (d *Dispatcher) getHandler(s state.State) handlers.Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.stateHandlers[s]
}
