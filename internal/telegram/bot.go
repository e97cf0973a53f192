package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pantry-planner/internal/app"
	"pantry-planner/internal/config"
	"pantry-planner/internal/mealplan"
	"pantry-planner/internal/metrics"
	"pantry-planner/internal/planner"
	"pantry-planner/internal/recipe"
	"pantry-planner/internal/shared"
	"pantry-planner/internal/tools"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	defaultPlanDays = 7
	maxPlanDays     = 31

	// contextBloatTokens triggers an admin alert for oversized prompts.
	contextBloatTokens = 4000
)

const helpText = `🥕 *Pantry Planner*

/inventory - list what's in the kitchen
/add <name>, <quantity> - add an ingredient
/remove <id> - remove an ingredient
/recipes - list recipes
/recipe <id> - show a recipe
/can <recipe id> - check if you can cook it
/find [a, b, c] - recipes within 2 missing ingredients
/plan [days] - plan meals starting today
/current - show the current plan
/suggest - tips for your kitchen
/prefs - show preferences
/set key=value ... - change preferences
Send a recipe URL to import it.`

// sender is the subset of the Telegram API the bot talks through.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot wraps the Telegram API and the application services.
type Bot struct {
	api    *tgbotapi.BotAPI
	out    sender
	app    *app.App
	cfg    *config.Config
	logger *zap.Logger
	now    func() time.Time
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, application *app.App, logger *zap.Logger) (*Bot, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	logger.Info("authorized on telegram", zap.String("account", api.Self.UserName))

	wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook url %s: %w", cfg.TelegramWebhookURL, err)
	}
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	logger.Info("webhook set", zap.String("description", resp.Description))

	b := newBot(api, application, cfg, logger)
	b.api = api
	return b, nil
}

func newBot(out sender, application *app.App, cfg *config.Config, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{out: out, app: application, cfg: cfg, logger: logger, now: time.Now}
}

// RegisterHandlers registers the webhook and health handlers on mux.
func (b *Bot) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/webhook", b.handleWebhook)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		b.logger.Warn("error parsing update", zap.Error(err))
		return
	}

	if update.CallbackQuery != nil {
		if b.isAllowed(update.CallbackQuery.From.ID) {
			go b.handleCallbackQuery(update.CallbackQuery)
		}
		return
	}
	if update.Message == nil || update.Message.From == nil {
		return
	}
	if !b.isAllowed(update.Message.From.ID) {
		b.logger.Warn("unauthorized access attempt",
			zap.Int64("user_id", update.Message.From.ID),
			zap.String("username", update.Message.From.UserName))
		return
	}

	go b.processMessage(update.Message)
}

// isAllowed accepts everyone when no allow list is configured.
func (b *Bot) isAllowed(userID int64) bool {
	if len(b.cfg.TelegramAllowedUserIDs) == 0 {
		return true
	}
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if userID == id {
			return true
		}
	}
	return false
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	ctx := context.Background()
	text := strings.TrimSpace(msg.Text)
	chatID := msg.Chat.ID

	if strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://") {
		b.handleClipperRequest(ctx, chatID, text)
		return
	}

	args := strings.TrimSpace(msg.CommandArguments())
	switch msg.Command() {
	case "inventory":
		b.reply(chatID, formatInventory(b.app.Store.Inventory(ctx)))
	case "add":
		b.handleAdd(ctx, chatID, args)
	case "remove":
		if b.app.Store.DeleteIngredient(ctx, args) {
			b.reply(chatID, "🗑 Removed.")
		} else {
			b.reply(chatID, "❓ No ingredient with that id.")
		}
	case "recipes":
		b.reply(chatID, formatRecipes(b.app.Store.Recipes(ctx)))
	case "recipe":
		r, ok := b.app.Store.Recipe(ctx, args)
		if !ok {
			b.reply(chatID, "❓ No recipe with that id.")
			return
		}
		b.reply(chatID, formatRecipe(r))
	case "can":
		b.handleCan(ctx, chatID, args)
	case "find":
		b.handleFind(ctx, chatID, args)
	case "plan":
		b.handlePlannerRequest(ctx, chatID, args)
	case "current":
		plan, ok := b.app.Planner.RecheckCurrent(ctx)
		if !ok {
			b.reply(chatID, "📭 No plan covers today. Try /plan.")
			return
		}
		planText, shoppingText := formatPlanMarkdownParts(plan)
		b.reply(chatID, planText)
		b.reply(chatID, shoppingText)
	case "suggest":
		b.reply(chatID, formatSuggestions(b.app.Planner.GenerateSuggestions(ctx, nil)))
	case "prefs":
		b.reply(chatID, formatPreferences(b.app.Store.Preferences(ctx)))
	case "set":
		prefs, err := b.app.UpdatePreferences(ctx, strings.Fields(args))
		if err != nil {
			b.reply(chatID, "❌ "+escape(err.Error()))
			return
		}
		b.reply(chatID, formatPreferences(prefs))
	case "metrics":
		b.handleMetricsRequest(ctx, msg.From.ID, chatID)
	default:
		b.reply(chatID, helpText)
	}
}

func (b *Bot) handleAdd(ctx context.Context, chatID int64, args string) {
	name, quantity, _ := strings.Cut(args, ",")
	name = strings.TrimSpace(name)
	if name == "" {
		b.reply(chatID, "Usage: /add <name>, <quantity>")
		return
	}
	item := b.app.Store.CreateIngredient(ctx, recipe.Ingredient{Name: name, Quantity: strings.TrimSpace(quantity)})
	b.reply(chatID, fmt.Sprintf("✅ Added *%s* (`%s`)", escape(item.Name), item.ID))
}

func (b *Bot) handleCan(ctx context.Context, chatID int64, recipeID string) {
	res, err := b.app.Tools.Call(ctx, "check_recipe_availability", toolInput("recipeId", recipeID))
	if err != nil {
		b.reply(chatID, "❌ "+escape(err.Error()))
		return
	}
	report, ok := res.Data.(tools.AvailabilityReport)
	if !ok {
		b.reply(chatID, "❓ "+escape(res.Message))
		return
	}
	if report.Available {
		b.reply(chatID, fmt.Sprintf("✅ You can make *%s*", escape(report.RecipeName)))
		return
	}
	b.reply(chatID, fmt.Sprintf("🛒 For *%s* you still need: %s", escape(report.RecipeName), escape(strings.Join(report.Missing, ", "))))
}

func (b *Bot) handleFind(ctx context.Context, chatID int64, args string) {
	var names []string
	for _, part := range strings.Split(args, ",") {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	if len(names) == 0 {
		for _, it := range b.app.Store.Inventory(ctx) {
			names = append(names, it.Name)
		}
	}
	b.reply(chatID, formatMatches(tools.FindRecipes(b.app.Store.Recipes(ctx), names, tools.MaxMissing)))
}

func (b *Bot) handleClipperRequest(ctx context.Context, chatID int64, url string) {
	sentMsg, err := b.send(chatID, "✂️ *Clipping recipe...*")
	if err != nil {
		return
	}

	r, err := b.app.ClipRecipe(ctx, url)
	var finalText string
	if err != nil {
		b.logger.Warn("error clipping recipe", zap.String("url", url), zap.Error(err))
		safeErr := strings.ReplaceAll(err.Error(), "`", "'")
		finalText = fmt.Sprintf("❌ *Error clipping recipe:*\n```\n%v\n```", safeErr)
	} else {
		finalText = fmt.Sprintf("✅ *Recipe Saved!*\n\n*%s* (`%s`)\n%d ingredients", escape(r.Name), r.ID, len(r.Ingredients))
	}
	b.edit(chatID, sentMsg.MessageID, finalText, nil)
}

func (b *Bot) handlePlannerRequest(ctx context.Context, chatID int64, args string) {
	days := defaultPlanDays
	if args != "" {
		n, err := strconv.Atoi(args)
		if err != nil || n < 1 || n > maxPlanDays {
			b.reply(chatID, fmt.Sprintf("Usage: /plan [days], with days between 1 and %d", maxPlanDays))
			return
		}
		days = n
	}

	sentMsg, err := b.send(chatID, "🧑‍🍳 *Thinking...*")
	if err != nil {
		return
	}

	if current, ok := b.app.Store.CurrentMealPlan(ctx, b.now()); ok {
		promptText := fmt.Sprintf("🗓️ A plan already covers today (until *%s*).\nWhat would you like to do?", current.EndDate)
		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🔄 Replace it", fmt.Sprintf("replace|%d", days)),
				tgbotapi.NewInlineKeyboardButtonData("⏭️ Plan after it", fmt.Sprintf("after|%d", days)),
			),
		)
		b.edit(chatID, sentMsg.MessageID, promptText, &keyboard)
		return
	}

	b.generateAndSendPlan(ctx, chatID, sentMsg.MessageID, b.now(), days)
}

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	ctx := context.Background()
	action, rawDays, ok := strings.Cut(query.Data, "|")
	days, err := strconv.Atoi(rawDays)
	if !ok || err != nil || days < 1 || days > maxPlanDays || query.Message == nil {
		return
	}

	start := b.now()
	if action == "after" {
		if current, ok := b.app.Store.CurrentMealPlan(ctx, start); ok {
			if end, err := time.Parse(mealplan.DateLayout, current.EndDate); err == nil {
				start = end.AddDate(0, 0, 1)
			}
		}
	}

	// Answer callback to remove spinner
	b.out.Request(tgbotapi.NewCallback(query.ID, ""))
	b.edit(query.Message.Chat.ID, query.Message.MessageID, "🧑‍🍳 *Thinking...*", nil)

	b.generateAndSendPlan(ctx, query.Message.Chat.ID, query.Message.MessageID, start, days)
}

func (b *Bot) generateAndSendPlan(ctx context.Context, chatID int64, messageID int, start time.Time, days int) {
	planType := mealplan.Weekly
	if days > 7 {
		planType = mealplan.Monthly
	}
	plan, metas := b.app.GeneratePlan(ctx, planner.Request{
		StartDate: start.Format(mealplan.DateLayout),
		EndDate:   start.AddDate(0, 0, days-1).Format(mealplan.DateLayout),
		Type:      planType,
	})
	b.alertOnBloat(metas)

	planText, shoppingListText := formatPlanMarkdownParts(plan)
	b.edit(chatID, messageID, planText, nil)
	b.reply(chatID, shoppingListText)
}

func (b *Bot) alertOnBloat(metas []shared.AgentMeta) {
	for _, m := range metas {
		if m.Usage.PromptTokens > contextBloatTokens {
			b.sendAdminAlert(fmt.Sprintf("⚠️ *Context Bloat Alert*\nAgent: %s\nModel: %s\nPrompt Tokens: %d",
				escape(m.AgentName), escape(m.Usage.Model), m.Usage.PromptTokens))
		}
	}
}

func (b *Bot) handleMetricsRequest(ctx context.Context, userID, chatID int64) {
	if userID != b.cfg.AdminTelegramID {
		b.reply(chatID, "⛔ *Access Denied*: Admin only.")
		return
	}

	usage, err := b.app.Metrics.GetDailyUsage(ctx, 7)
	if err != nil {
		b.logger.Error("failed to fetch metrics", zap.Error(err))
		b.reply(chatID, "❌ Error fetching metrics.")
		return
	}
	b.reply(chatID, formatMetrics(usage, metrics.GetSysHealth(b.cfg.DataDir)))
}

func (b *Bot) sendAdminAlert(text string) {
	if b.cfg.AdminTelegramID == 0 {
		return
	}
	b.reply(b.cfg.AdminTelegramID, text)
}

func (b *Bot) send(chatID int64, text string) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	sent, err := b.out.Send(msg)
	if err != nil {
		b.logger.Warn("failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
	return sent, err
}

func (b *Bot) reply(chatID int64, text string) {
	_, _ = b.send(chatID, text)
}

func (b *Bot) edit(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdown
	edit.ReplyMarkup = keyboard
	if _, err := b.out.Send(edit); err != nil {
		b.logger.Warn("failed to edit message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
