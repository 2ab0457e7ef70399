package bot

// Command constants for Telegram bot commands.
const (
	CommandStart  = "/start"
	CommandSearch = "/search"
	CommandCancel = "/cancel"
)
