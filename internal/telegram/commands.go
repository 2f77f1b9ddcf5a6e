package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/app"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/metrics"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

func (b *Bot) cmdHelp(_ context.Context, _ *call) (string, error) {
	return helpText, nil
}

func (b *Bot) cmdLogin(ctx context.Context, c *call) (string, error) {
	if len(c.args) != 1 {
		return "", usageError("usage: /login <access-token>")
	}

	// The token should not linger in the chat history.
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(c.chatID, c.messageID)); err != nil {
		log.Debugf("chat %d: could not delete login message: %v", c.chatID, err)
	}

	claims, err := b.auth.VerifyUserToken(c.args[0])
	if err != nil {
		log.Infof("chat %d: rejected login: %v", c.chatID, err)
		return "❌ That access token is not valid or has expired.", nil
	}

	// Preferences survive a new login.
	var data SessionContextData
	if prev, err := b.sessions.GetActive(ctx, c.chatID, SessionTypeAuth); err == nil && prev != nil {
		data, _ = prev.GetContextData()
	}
	data.Email = claims.Email

	if _, err := b.sessions.Create(ctx, c.chatID, SessionTypeAuth, claims.Subject, data, claims.ExpiresAt.Time); err != nil {
		return "", err
	}

	who := claims.Subject
	if claims.Email != "" {
		who = claims.Email
	}
	return fmt.Sprintf("✅ Logged in as %s until %s.", escape(who), claims.ExpiresAt.Time.Format("Jan 2 15:04")), nil
}

func (b *Bot) cmdLogout(ctx context.Context, c *call) (string, error) {
	if err := b.sessions.Delete(ctx, c.chatID, SessionTypeAuth); err != nil {
		return "", err
	}
	b.timers.Remove(c.chatID)
	return "👋 Logged out.", nil
}

func (b *Bot) cmdPrefs(ctx context.Context, c *call) (string, error) {
	if len(c.args) == 0 {
		return formatPreferences(c.data.Preferences), nil
	}

	prefs, err := applyPreferences(c.data.Preferences, c.args)
	if err != nil {
		return "", err
	}
	c.data.Preferences = prefs
	if err := b.sessions.Update(ctx, c.session.ID, c.data); err != nil {
		return "", err
	}
	return formatPreferences(prefs), nil
}

func (b *Bot) cmdWeek(ctx context.Context, c *call) (string, error) {
	offset, err := intArg(c.args, 0, 0, "offset")
	if err != nil {
		return "", err
	}
	view, err := b.svc.Week(ctx, c.userID(), offset)
	if err != nil {
		return "", err
	}
	return formatWeek(view), nil
}

func (b *Bot) cmdDay(ctx context.Context, c *call) (string, error) {
	if len(c.args) == 0 {
		return "", usageError("usage: /day <1-7> [offset]")
	}
	day, err := intArg(c.args, 0, 0, "day")
	if err != nil {
		return "", err
	}
	offset, err := intArg(c.args, 1, 0, "offset")
	if err != nil {
		return "", err
	}
	view, err := b.svc.Day(ctx, c.userID(), day, offset)
	if err != nil {
		return "", err
	}
	return formatDay(view), nil
}

func (b *Bot) cmdShopping(ctx context.Context, c *call) (string, error) {
	offset, err := intArg(c.args, 0, 0, "offset")
	if err != nil {
		return "", err
	}
	view, err := b.svc.ShoppingList(ctx, c.userID(), offset)
	if err != nil {
		return "", err
	}
	return formatShopping(view), nil
}

func (b *Bot) cmdCheck(ctx context.Context, c *call) (string, error) {
	if len(c.args) == 0 {
		return "", usageError("usage: /check <n> [offset]")
	}
	n, err := intArg(c.args, 0, 0, "item number")
	if err != nil {
		return "", err
	}
	offset, err := intArg(c.args, 1, 0, "offset")
	if err != nil {
		return "", err
	}

	item, checked, err := b.svc.ToggleItem(ctx, c.userID(), offset, n)
	if err != nil {
		return "", err
	}
	if checked {
		return fmt.Sprintf("✅ %s checked.", escape(item.Name)), nil
	}
	return fmt.Sprintf("⬜ %s unchecked.", escape(item.Name)), nil
}

func (b *Bot) cmdExport(ctx context.Context, c *call) (string, error) {
	offset, err := intArg(c.args, 0, 0, "offset")
	if err != nil {
		return "", err
	}
	html, text, err := b.svc.ExportShoppingList(ctx, c.userID(), offset)
	if err != nil {
		return "", err
	}

	doc := tgbotapi.NewDocument(c.chatID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("shopping-list-%s.html", b.svc.MealWeek().Start(offset).Format(time.DateOnly)),
		Bytes: []byte(html),
	})
	doc.Caption = "🖨 Printable shopping list"
	if _, err := b.api.Send(doc); err != nil {
		return "", fmt.Errorf("failed to send shopping list document: %w", err)
	}

	// Plain text goes without Markdown, it is already formatted.
	msg := tgbotapi.NewMessage(c.chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		return "", fmt.Errorf("failed to send shopping list text: %w", err)
	}
	return "", nil
}

func (b *Bot) cmdEmail(ctx context.Context, c *call) (string, error) {
	if len(c.args) == 0 {
		return "", usageError("usage: /email <address> [offset]")
	}
	offset, err := intArg(c.args, 1, 0, "offset")
	if err != nil {
		return "", err
	}

	address := c.args[0]
	if !strings.Contains(address, "@") {
		return "", usageError(fmt.Sprintf("%q does not look like an email address", address))
	}
	b.withStatus(c.chatID, "📧 *Sending...*", func() (string, error) {
		if err := b.svc.EmailShoppingList(ctx, c.userID(), address, offset); err != nil {
			return "", err
		}
		return fmt.Sprintf("📧 Shopping list sent to %s.", escape(address)), nil
	})
	return "", nil
}

func (b *Bot) cmdWorkout(ctx context.Context, c *call) (string, error) {
	offset, err := intArg(c.args, 0, 0, "offset")
	if err != nil {
		return "", err
	}
	view, err := b.svc.Workout(ctx, c.userID(), offset)
	if err != nil {
		return "", err
	}
	return formatWorkout(view), nil
}

func (b *Bot) cmdDone(ctx context.Context, c *call) (string, error) {
	if len(c.args) == 0 {
		return "", usageError("usage: /done <exercise-id> [sets] [reps]")
	}
	sets, err := intArg(c.args, 1, 0, "sets")
	if err != nil {
		return "", err
	}
	var reps string
	if len(c.args) > 2 {
		reps = c.args[2]
	}

	rec, err := b.svc.CompleteExercise(ctx, c.userID(), 0, c.args[0], sets, reps, "")
	if err != nil {
		return "", err
	}
	if timer, ok := b.timers.Lookup(c.chatID); ok && timer.State().ActiveExerciseID == rec.ID {
		timer.Deactivate()
	}
	return fmt.Sprintf("💪 %s done: %d x %s", escape(rec.Name), rec.ActualSets, escape(rec.ActualReps)), nil
}

func (b *Bot) cmdReset(ctx context.Context, c *call) (string, error) {
	if len(c.args) != 1 {
		return "", usageError("usage: /reset <exercise-id>")
	}
	rec, err := b.svc.ResetExercise(ctx, c.userID(), 0, c.args[0])
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("↩️ %s is open again.", escape(rec.Name)), nil
}

func (b *Bot) cmdTimer(_ context.Context, c *call) (string, error) {
	action := "status"
	if len(c.args) > 0 {
		action = strings.ToLower(c.args[0])
	}

	if action == "start" {
		timer := b.timers.Get(b.ctx, c.chatID)
		if len(c.args) > 1 {
			timer.Activate(c.args[1])
		}
		timer.Start()
		return formatTimer(timer.State()), nil
	}

	timer, ok := b.timers.Lookup(c.chatID)
	if !ok {
		if action == "status" || action == "stop" {
			return "⏱ No timer running. Start one with /timer start \\[exercise-id].", nil
		}
		return "", usageError("no timer yet, use /timer start")
	}

	switch action {
	case "pause":
		timer.Pause()
	case "resume":
		timer.Resume()
	case "reset":
		timer.Reset()
	case "status":
	case "stop":
		state := timer.State()
		b.timers.Remove(c.chatID)
		return fmt.Sprintf("🏁 Stopped at %s.", formatClock(state.Elapsed)), nil
	default:
		return "", usageError("usage: /timer start|pause|resume|reset|stop|status")
	}
	return formatTimer(timer.State()), nil
}

func (b *Bot) cmdRest(_ context.Context, c *call) (string, error) {
	seconds, err := intArg(c.args, 0, 0, "seconds")
	if err != nil {
		return "", err
	}
	if seconds <= 0 {
		return "", usageError("usage: /rest <seconds>")
	}

	timer := b.timers.Get(b.ctx, c.chatID)
	set := timer.NextSet()
	timer.StartRest(seconds)

	if set > 0 {
		return fmt.Sprintf("😮‍💨 Resting %ds, set %d is next.", seconds, set), nil
	}
	return fmt.Sprintf("😮‍💨 Resting %ds.", seconds), nil
}

func (b *Bot) cmdSkip(_ context.Context, c *call) (string, error) {
	timer, ok := b.timers.Lookup(c.chatID)
	if !ok || !timer.State().Resting {
		return "Not resting right now.", nil
	}
	timer.SkipRest()
	return "⏭️ Rest skipped.", nil
}

func (b *Bot) cmdRegen(ctx context.Context, c *call) (string, error) {
	offset, err := intArg(c.args, 0, 0, "offset")
	if err != nil {
		return "", err
	}

	_, err = b.svc.Week(ctx, c.userID(), offset)
	switch {
	case err == nil:
		b.confirmRegen(c.chatID, "plan", offset,
			fmt.Sprintf("🗓️ A meal plan already exists for *%s*.\nWhat would you like to do?", b.svc.MealWeek().Range(offset)))
		return "", nil
	case !errors.Is(err, app.ErrNoActivePlan):
		return "", err
	}

	b.withStatus(c.chatID, "🧑‍🍳 *Thinking...* \n(Generating your meal plan)", func() (string, error) {
		return b.generatePlan(ctx, c, offset)
	})
	return "", nil
}

func (b *Bot) cmdProgram(ctx context.Context, c *call) (string, error) {
	offset, err := intArg(c.args, 0, 0, "offset")
	if err != nil {
		return "", err
	}

	_, err = b.svc.Workout(ctx, c.userID(), offset)
	switch {
	case err == nil:
		b.confirmRegen(c.chatID, "program", offset,
			fmt.Sprintf("🏋️ A program already exists for *%s*.\nWhat would you like to do?", b.svc.ExerciseWeek().Range(offset)))
		return "", nil
	case !errors.Is(err, app.ErrNoActivePlan):
		return "", err
	}

	b.withStatus(c.chatID, "🏋️ *Thinking...* \n(Generating your exercise program)", func() (string, error) {
		return b.generateProgram(ctx, c, offset)
	})
	return "", nil
}

func (b *Bot) generatePlan(ctx context.Context, c *call, offset int) (string, error) {
	if _, err := b.svc.RegeneratePlan(ctx, c.userID(), offset, c.data.Preferences); err != nil {
		return "", err
	}
	view, err := b.svc.Week(ctx, c.userID(), offset)
	if err != nil {
		return "", err
	}
	return formatWeek(view), nil
}

func (b *Bot) generateProgram(ctx context.Context, c *call, offset int) (string, error) {
	if _, err := b.svc.RegenerateProgram(ctx, c.userID(), offset, c.data.Preferences); err != nil {
		return "", err
	}
	view, err := b.svc.Workout(ctx, c.userID(), offset)
	if err != nil {
		return "", err
	}
	return formatWorkout(view), nil
}

func (b *Bot) cmdExchange(ctx context.Context, c *call) (string, error) {
	if len(c.args) == 0 {
		return "", usageError("usage: /exchange <meal-id> [reason]")
	}
	mealID, reason := c.args[0], strings.Join(c.args[1:], " ")

	b.withStatus(c.chatID, "🧑‍🍳 *Finding an alternative...*", func() (string, error) {
		meal, err := b.svc.ExchangeMeal(ctx, c.userID(), 0, mealID, reason, c.data.Preferences)
		if err != nil {
			return "", err
		}
		return "🔁 *Meal exchanged*\n\n" + formatMeal(*meal), nil
	})
	return "", nil
}

func (b *Bot) cmdRemove(ctx context.Context, c *call) (string, error) {
	if len(c.args) == 0 {
		return "", usageError("usage: /remove <meal-id> [offset]")
	}
	offset, err := intArg(c.args, 1, 0, "offset")
	if err != nil {
		return "", err
	}

	meal, err := b.svc.RemoveMeal(ctx, c.userID(), offset, c.args[0])
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("🗑 %s removed.", escape(meal.Name)), nil
}

func (b *Bot) cmdSnack(ctx context.Context, c *call) (string, error) {
	if len(c.args) == 0 {
		return "", usageError("usage: /snack <day> [offset]")
	}
	day, err := intArg(c.args, 0, 0, "day")
	if err != nil {
		return "", err
	}
	offset, err := intArg(c.args, 1, 0, "offset")
	if err != nil {
		return "", err
	}

	b.withStatus(c.chatID, "🍎 *Picking a snack...*", func() (string, error) {
		snack, err := b.svc.AddSnack(ctx, c.userID(), offset, day, c.data.Preferences)
		if err != nil {
			return "", err
		}
		if snack == nil {
			return fmt.Sprintf("🍎 Snack added to day %d, see /day %d.", day, day), nil
		}
		return "🍎 *Snack added*\n\n" + formatMeal(*snack), nil
	})
	return "", nil
}

func (b *Bot) cmdSwap(ctx context.Context, c *call) (string, error) {
	if len(c.args) == 0 {
		return "", usageError("usage: /swap <exercise-id> [reason]")
	}
	exerciseID, reason := c.args[0], strings.Join(c.args[1:], " ")

	b.withStatus(c.chatID, "🏋️ *Finding an alternative...*", func() (string, error) {
		rec, err := b.svc.SwapExercise(ctx, c.userID(), 0, exerciseID, reason, c.data.Preferences)
		if err != nil {
			return "", err
		}
		return "🔁 *Exercise swapped*\n" + formatExercise(*rec), nil
	})
	return "", nil
}

func (b *Bot) cmdCancel(_ context.Context, c *call) (string, error) {
	for _, scope := range []string{app.ScopePlan, app.ScopeMeal, app.ScopeSnack, app.ScopeProgram, app.ScopeExercise} {
		b.svc.Cancel(c.userID(), scope)
	}
	return "🛑 Pending generations cancelled.", nil
}

func (b *Bot) cmdMetrics(ctx context.Context, _ *call) (string, error) {
	var usage []metrics.DailyUsage
	if b.usage != nil {
		var err error
		if usage, err = b.usage.GetDailyUsage(ctx, 7); err != nil {
			return "", err
		}
	}
	health := metrics.GetSysHealth(b.dataDir, b.timers.Active())
	health.CacheHitRate = b.svc.CacheHitRate()
	return "📊 *Usage & Health Report*\n\n" + escape(metrics.Report(health, usage)), nil
}

// intArg parses args[i] as an integer, returning fallback when it is absent.
func intArg(args []string, i, fallback int, name string) (int, error) {
	if i >= len(args) {
		return fallback, nil
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, usageError(fmt.Sprintf("%s must be a number, got %q", name, args[i]))
	}
	return n, nil
}
