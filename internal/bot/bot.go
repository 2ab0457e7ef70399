package bot

import (
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/podcast-bot/internal/bot/handlers"
	"github.com/Proton-105/podcast-bot/internal/bot/keyboard"
	errors "github.com/Proton-105/podcast-bot/internal/errors"
	"github.com/Proton-105/podcast-bot/internal/i18n"
	"github.com/Proton-105/podcast-bot/internal/idempotency"
	"github.com/Proton-105/podcast-bot/internal/linkstore"
	"github.com/Proton-105/podcast-bot/internal/middleware"
	"github.com/Proton-105/podcast-bot/internal/podcast"
	"github.com/Proton-105/podcast-bot/internal/state"
	"github.com/Proton-105/podcast-bot/pkg/config"
)

// Deps are the collaborators the bot wires into the selection flow.
type Deps struct {
	Searcher    podcast.Searcher
	Episodes    podcast.EpisodeLister
	Links       linkstore.Store
	Sessions    state.StateMachine
	Idempotency idempotency.Manager
	Translator  i18n.Translator
}

// Bot wraps telebot.Bot with application dependencies required for handling updates.
type Bot struct {
	telebot    *telebot.Bot
	log        *slog.Logger
	cfg        config.Config
	router     *Router
	dispatcher *Dispatcher
	flow       *handlers.Flow
	errHandler *errors.Handler
	deps       Deps
}

// New builds a telegram bot instance configured according to the application settings.
func New(cfg config.Config, log *slog.Logger, deps Deps) (*Bot, error) {
	if log == nil {
		log = slog.Default()
	}

	settings := telebot.Settings{
		Token:       cfg.Bot.Token,
		Synchronous: cfg.Bot.Synchronous,
		OnError: func(err error, c telebot.Context) {
			log.Error("telebot error", slog.Any("error", err))
		},
	}

	if cfg.Bot.Mode == "webhook" {
		settings.Poller = &telebot.Webhook{
			Listen:   cfg.Bot.WebhookListen,
			Endpoint: &telebot.WebhookEndpoint{PublicURL: cfg.Bot.WebhookURL},
		}
	} else {
		settings.Poller = &telebot.LongPoller{
			Timeout: cfg.Bot.Timeout,
		}
	}

	tb, err := telebot.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("initialize telebot: %w", err)
	}

	return newBot(tb, cfg, log, deps), nil
}

func newBot(tb *telebot.Bot, cfg config.Config, log *slog.Logger, deps Deps) *Bot {
	flow := handlers.NewFlow(handlers.Deps{
		Searcher:    deps.Searcher,
		Episodes:    deps.Episodes,
		Menus:       keyboard.NewBuilder(deps.Links, log),
		Links:       deps.Links,
		Sessions:    deps.Sessions,
		Messenger:   tb,
		Translator:  deps.Translator,
		RejectStale: cfg.Bot.RejectStaleMenus,
		Log:         log,
	})

	dispatcher := NewDispatcher(log)
	router := NewRouter(dispatcher, log)

	b := &Bot{
		telebot:    tb,
		log:        log,
		cfg:        cfg,
		router:     router,
		dispatcher: dispatcher,
		flow:       flow,
		errHandler: errors.NewHandler(log, cfg.Sentry.Enabled, deps.Translator),
		deps:       deps,
	}

	b.setupRouter()
	b.registerTelebotHandlers()

	return b
}

// Start runs the telegram bot event loop.
func (b *Bot) Start() {
	if b.telebot != nil {
		b.log.Info("starting telegram bot", slog.String("mode", b.cfg.Bot.Mode))
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

// Telebot exposes the underlying telebot.Bot instance for integrations such as health checks.
func (b *Bot) Telebot() *telebot.Bot {
	return b.telebot
}

// Router exposes the update router.
func (b *Bot) Router() *Router {
	return b.router
}

func (b *Bot) setupRouter() {
	b.router.Use(ContextMiddleware(b.cfg.Bot.UpdateTimeout))
	b.router.Use(RecoveryMiddleware(b.log, b.errHandler))
	b.router.Use(ErrorHandlingMiddleware(b.errHandler))
	b.router.Use(middleware.Idempotency(b.deps.Idempotency, b.cfg.Bot.DedupTTL, b.log))
	b.router.Use(LoggingMiddleware(b.log))
	b.router.Use(middleware.Metrics)

	b.router.RegisterCommand(CommandStart, b.flow.Start)
	b.router.RegisterCommand(CommandSearch, b.flow.Search)
	b.router.RegisterCommand(CommandCancel, b.flow.Cancel)
	b.router.SetDefault(b.flow.Search)

	b.dispatcher.Register(keyboard.KindPodcast, b.flow.ChoosePodcast)
	b.dispatcher.Register(keyboard.KindEpisode, b.flow.ChooseEpisode)
	b.dispatcher.Register(keyboard.KindEpisodeRef, b.flow.ChooseEpisode)
}

func (b *Bot) registerTelebotHandlers() {
	if b.telebot == nil {
		return
	}

	b.telebot.Handle(telebot.OnText, b.router.Route)
	b.telebot.Handle(telebot.OnCallback, b.router.Route)
}
