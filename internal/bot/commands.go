package bot

// Command constants for Telegram bot commands.
const (
	CommandStart       = "/start"
	CommandPath        = "/shliakh"
	CommandDraw        = "/kartka"
	CommandCollection  = "/kolektsiia"
	CommandExchange    = "/obmin10"
	CommandRaid        = "/raid"
	CommandAttack      = "/attack"
	CommandDuel        = "/duel"
	CommandDuelAccept  = "/duel_accept"
	CommandDuelDecline = "/duel_decline"
	CommandGive        = "/give"
	CommandTrader      = "/trader"
	CommandSell        = "/sell"
	CommandBuy         = "/buy"
	CommandMe          = "/me"
	CommandEquip       = "/equip"
	CommandTravelStart = "/travel_start"
	CommandTravelClaim = "/travel_claim"
	CommandID          = "/id"

	CommandAdmin      = "/admin"
	CommandListCards  = "/listkartky"
	CommandDeleteCard = "/delkartka"
	CommandAddCard    = "/addkartka"
	CommandCancel     = "/cancel"
)

// Callback prefix constants for inline button interactions.
const (
	CallbackPathPrefix  = "path"
	CallbackDuelAccept  = "duel_accept"
	CallbackDuelDecline = "duel_decline"
	CallbackAddConfirm  = "addcard_yes"
	CallbackAddCancel   = "addcard_no"
)
