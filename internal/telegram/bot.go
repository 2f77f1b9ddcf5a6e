package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/app"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/config"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/generation"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/metrics"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/request"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/session"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/supabase"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const commandTimeout = 3 * time.Minute

// botAPI is the part of the Telegram API the bot uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	HandleUpdate(r *http.Request) (*tgbotapi.Update, error)
}

// TokenVerifier checks the access tokens sent with /login.
type TokenVerifier interface {
	VerifyUserToken(token string) (*supabase.UserClaims, error)
}

// Deps are the collaborators of a Bot. Usage and Metrics are optional.
type Deps struct {
	Service  *app.Service
	Auth     TokenVerifier
	Sessions *SessionRepository
	Usage    *metrics.Store
	Metrics  *metrics.Manager
	DataDir  string
}

// Bot wraps the Telegram API around the application service.
type Bot struct {
	api      botAPI
	cfg      *config.Config
	svc      *app.Service
	auth     TokenVerifier
	sessions *SessionRepository
	usage    *metrics.Store
	metrics  *metrics.Manager
	dataDir  string
	timers   *session.Registry

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, deps Deps) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	log.Infof("Authorized on account %s", api.Self.UserName)

	webhookURL := cfg.TelegramWebhookURL
	wh, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook url %s: %w", webhookURL, err)
	}
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", webhookURL, err)
	}
	log.Infof("Webhook set response: %s", resp.Description)

	return newBot(api, cfg, deps), nil
}

func newBot(api botAPI, cfg *config.Config, deps Deps) *Bot {
	ctx, cancel := context.WithCancel(context.Background())
	b := &Bot{
		api:      api,
		cfg:      cfg,
		svc:      deps.Service,
		auth:     deps.Auth,
		sessions: deps.Sessions,
		usage:    deps.Usage,
		metrics:  deps.Metrics,
		dataDir:  deps.DataDir,
		ctx:      ctx,
		cancel:   cancel,
	}
	b.timers = session.NewRegistry(time.Second, b.notifyRestOver, func(active int) {
		if b.metrics != nil {
			b.metrics.SetActiveTimers(active)
		}
	})
	return b
}

// Router returns the HTTP routes of the bot.
func (b *Bot) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/webhook", b.handleWebhook).Methods(http.MethodPost)
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods(http.MethodGet)
	if b.metrics != nil {
		r.Handle("/metrics", b.metrics.Handler()).Methods(http.MethodGet)
	}
	return r
}

// Close waits for in-flight updates and stops every workout timer.
func (b *Bot) Close() error {
	b.cancel()
	b.wg.Wait()
	b.timers.Close()
	return nil
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Warnf("Error parsing update: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch {
	case update.CallbackQuery != nil:
		query := update.CallbackQuery
		if !b.allowed(query.From) {
			return
		}
		b.dispatch(func() { b.handleCallbackQuery(query) })
	case update.Message != nil:
		msg := update.Message
		if !b.allowed(msg.From) {
			return
		}
		b.dispatch(func() { b.processMessage(msg) })
	}
}

func (b *Bot) allowed(user *tgbotapi.User) bool {
	if user == nil {
		return false
	}
	if !b.cfg.IsAllowed(user.ID) {
		log.Warnf("⚠️ Unauthorized access attempt from UserID: %d (@%s)", user.ID, user.UserName)
		return false
	}
	return true
}

// dispatch answers Telegram right away and handles the update in the background.
func (b *Bot) dispatch(fn func()) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		fn()
	}()
}

// call is one command invocation.
type call struct {
	chatID    int64
	fromID    int64
	messageID int
	args      []string
	session   *Session
	data      SessionContextData
}

func (c *call) userID() string {
	if c.session == nil {
		return ""
	}
	return c.session.UserID
}

type command struct {
	run func(b *Bot, ctx context.Context, c *call) (string, error)
	// public commands work without /login.
	public bool
	admin  bool
}

var commands = map[string]command{
	"start":    {run: (*Bot).cmdHelp, public: true},
	"help":     {run: (*Bot).cmdHelp, public: true},
	"login":    {run: (*Bot).cmdLogin, public: true},
	"logout":   {run: (*Bot).cmdLogout, public: true},
	"prefs":    {run: (*Bot).cmdPrefs},
	"week":     {run: (*Bot).cmdWeek},
	"day":      {run: (*Bot).cmdDay},
	"shopping": {run: (*Bot).cmdShopping},
	"check":    {run: (*Bot).cmdCheck},
	"export":   {run: (*Bot).cmdExport},
	"email":    {run: (*Bot).cmdEmail},
	"workout":  {run: (*Bot).cmdWorkout},
	"done":     {run: (*Bot).cmdDone},
	"reset":    {run: (*Bot).cmdReset},
	"timer":    {run: (*Bot).cmdTimer, public: true},
	"rest":     {run: (*Bot).cmdRest, public: true},
	"skip":     {run: (*Bot).cmdSkip, public: true},
	"regen":    {run: (*Bot).cmdRegen},
	"program":  {run: (*Bot).cmdProgram},
	"exchange": {run: (*Bot).cmdExchange},
	"snack":    {run: (*Bot).cmdSnack},
	"remove":   {run: (*Bot).cmdRemove},
	"swap":     {run: (*Bot).cmdSwap},
	"cancel":   {run: (*Bot).cmdCancel},
	"metrics":  {run: (*Bot).cmdMetrics, public: true, admin: true},
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	cmd, ok := commands[msg.Command()]
	if !ok {
		b.send(chatID, helpText)
		return
	}
	if cmd.admin && msg.From.ID != b.cfg.AdminTelegramID {
		b.send(chatID, "⛔ *Access Denied*: Admin only.")
		return
	}

	ctx, cancel := context.WithTimeout(b.ctx, commandTimeout)
	defer cancel()

	c := &call{
		chatID:    chatID,
		fromID:    msg.From.ID,
		messageID: msg.MessageID,
		args:      strings.Fields(msg.CommandArguments()),
	}
	if !cmd.public {
		if err := b.loadSession(ctx, c); err != nil {
			b.replyError(chatID, err)
			return
		}
	}

	text, err := cmd.run(b, ctx, c)
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	if text != "" {
		b.send(chatID, text)
	}
}

func (b *Bot) loadSession(ctx context.Context, c *call) error {
	s, err := b.sessions.GetActive(ctx, c.chatID, SessionTypeAuth)
	if err != nil {
		return err
	}
	if s == nil {
		return app.ErrNotAuthenticated
	}
	data, err := s.GetContextData()
	if err != nil {
		log.Warnf("chat %d: unreadable session data: %s", c.chatID, err)
	}
	c.session, c.data = s, data
	return nil
}

// withStatus shows a status message while fn runs, then replaces it with the outcome.
func (b *Bot) withStatus(chatID int64, status string, fn func() (string, error)) {
	msg := tgbotapi.NewMessage(chatID, status)
	msg.ParseMode = tgbotapi.ModeMarkdown
	sent, err := b.api.Send(msg)
	if err != nil {
		log.Errorf("Failed to send initial reply: %v", err)
		return
	}

	text, err := fn()
	if err != nil {
		text = userMessage(err)
	}
	b.edit(chatID, sent.MessageID, text)
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		log.Errorf("chat %d: failed to send message: %v", chatID, err)
	}
}

func (b *Bot) edit(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(edit); err != nil {
		log.Errorf("chat %d: failed to edit message: %v", chatID, err)
	}
}

func (b *Bot) replyError(chatID int64, err error) {
	if !isExpected(err) {
		log.Errorf("chat %d: %v", chatID, err)
	}
	b.send(chatID, userMessage(err))
}

// usageError is a malformed command. Its text is shown as is.
type usageError string

func (e usageError) Error() string { return string(e) }

func isExpected(err error) bool {
	var usage usageError
	return errors.As(err, &usage) ||
		errors.Is(err, app.ErrNotAuthenticated) ||
		errors.Is(err, app.ErrNoActivePlan) ||
		errors.Is(err, app.ErrNotFound) ||
		errors.Is(err, app.ErrStale) ||
		errors.Is(err, request.ErrInFlight)
}

// userMessage turns an error into the text shown in the chat.
func userMessage(err error) string {
	var (
		usage  usageError
		genErr *generation.Error
	)
	switch {
	case errors.As(err, &usage):
		return "⚠️ " + escape(usage.Error())
	case errors.Is(err, app.ErrNotAuthenticated):
		return "🔒 Please /login with your access token first."
	case errors.Is(err, app.ErrNoActivePlan):
		return "🗓️ Nothing planned for that week yet. Use /regen for meals or /program for workouts."
	case errors.Is(err, app.ErrNotFound):
		return "🤷 " + escape(err.Error())
	case errors.Is(err, app.ErrStale):
		return "🛑 Request cancelled, its result was discarded."
	case errors.Is(err, request.ErrInFlight):
		return "⏳ Already working on that, hang on."
	case errors.As(err, &genErr):
		return "❌ *Generation failed:* " + escape(genErr.Message)
	default:
		return "❌ Something went wrong, please try again."
	}
}

func (b *Bot) notifyRestOver(chatID int64, exerciseID string) {
	text := "⏰ Rest is over, next set!"
	if exerciseID != "" {
		text = fmt.Sprintf("⏰ Rest is over, next set of `%s`!", exerciseID)
	}
	b.send(chatID, text)
}

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	// Answer callback to remove spinner
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		log.Warnf("failed to answer callback: %v", err)
	}
	if query.Message == nil {
		return
	}

	chatID, messageID := query.Message.Chat.ID, query.Message.MessageID
	parts := strings.Split(query.Data, "|")
	if len(parts) != 3 || parts[0] != "regen" {
		b.edit(chatID, messageID, "👌 Kept as it is.")
		return
	}
	offset, err := strconv.Atoi(parts[2])
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(b.ctx, commandTimeout)
	defer cancel()

	c := &call{chatID: chatID, fromID: query.From.ID, messageID: messageID}
	if err := b.loadSession(ctx, c); err != nil {
		b.edit(chatID, messageID, userMessage(err))
		return
	}

	b.edit(chatID, messageID, "🧑‍🍳 *Thinking...*")
	var text string
	switch parts[1] {
	case "program":
		text, err = b.generateProgram(ctx, c, offset)
	default:
		text, err = b.generatePlan(ctx, c, offset)
	}
	if err != nil {
		text = userMessage(err)
	}
	b.edit(chatID, messageID, text)
}

// confirmRegen asks before replacing an existing plan or program.
func (b *Bot) confirmRegen(chatID int64, kind string, offset int, prompt string) {
	data := fmt.Sprintf("regen|%s|%d", kind, offset)
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Replace it", data),
			tgbotapi.NewInlineKeyboardButtonData("✋ Keep it", "keep"),
		),
	)
	msg := tgbotapi.NewMessage(chatID, prompt)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = keyboard
	if _, err := b.api.Send(msg); err != nil {
		log.Errorf("chat %d: failed to send confirmation: %v", chatID, err)
	}
}
