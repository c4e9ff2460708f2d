package telegram

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aviaquiz/aviaquiz-bot/internal/config"
	"github.com/aviaquiz/aviaquiz-bot/internal/service"
	"github.com/aviaquiz/aviaquiz-bot/internal/storage"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var answerLetters = []string{"A", "B", "C", "D"}

type Bot struct {
	api      *tgbotapi.BotAPI
	sessions *service.SessionManager
	activity *storage.ActivityStore
	admins   map[int64]bool
	delay    time.Duration
	debug    bool

	// pending holds the scheduled feedback-to-next-question transition
	// per chat. Any competing action cancels it before rendering. gen
	// counts scheduling turns per chat; a fired timer re-checks its
	// generation under mu, so a cancellation that lost the race to
	// Stop still wins.
	mu      sync.Mutex
	pending map[int64]*time.Timer
	gen     map[int64]uint64
}

func NewBot(cfg config.Config, sessions *service.SessionManager, activity *storage.ActivityStore) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}

	admins := make(map[int64]bool)
	for _, id := range cfg.AdminUserIDs {
		admins[id] = true
	}

	return &Bot{
		api:      api,
		sessions: sessions,
		activity: activity,
		admins:   admins,
		delay:    cfg.AnswerDelay,
		debug:    cfg.Debug,
		pending:  make(map[int64]*time.Timer),
		gen:      make(map[int64]uint64),
	}, nil
}

func (b *Bot) Start() {
	b.api.Debug = b.debug
	log.Printf("Authorised on account: %s", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message != nil {
			switch update.Message.Command() {
			case "start":
				b.handleStart(update.Message)
			case "myid":
				b.handleMyID(update.Message)
			case "stats":
				b.handleStats(update.Message)
			default:
				b.sendLanguageMenu(update.Message.Chat.ID)
			}
		}
		if update.CallbackQuery != nil {
			b.handleCallback(update.CallbackQuery)
		}
	}
}

func (b *Bot) handleCallback(callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID
	data := callback.Data
	user := callback.From

	callbackConfig := tgbotapi.NewCallback(callback.ID, "")
	if _, err := b.api.Request(callbackConfig); err != nil {
		log.Printf("Error answering callback: %v", err)
	}

	switch {
	case strings.HasPrefix(data, "lang_"):
		b.cancelPending(chatID)
		b.sessions.SetLanguage(user.ID, strings.TrimPrefix(data, "lang_"))
		b.showMainMenu(chatID, messageID, user.ID)
	case data == "change_language":
		b.cancelPending(chatID)
		b.editLanguageMenu(chatID, messageID)
	case data == "main_menu":
		b.cancelPending(chatID)
		b.showMainMenu(chatID, messageID, user.ID)
	case strings.HasPrefix(data, "subject_"):
		b.handleSubject(chatID, messageID, user, strings.TrimPrefix(data, "subject_"))
	case strings.HasPrefix(data, "answer_"):
		b.handleAnswer(chatID, messageID, user, strings.TrimPrefix(data, "answer_"))
	case data == "next":
		b.cancelPending(chatID)
		b.handleNext(chatID, messageID, user)
	case data == "prev":
		b.cancelPending(chatID)
		if b.sessions.Retreat(user.ID) {
			b.showQuestion(chatID, messageID, user.ID)
		}
	case data == "restart":
		b.cancelPending(chatID)
		b.handleRestart(chatID, messageID, user)
	default:
		log.Printf("Unknown callback data: %q", data)
	}
}

func (b *Bot) handleStart(msg *tgbotapi.Message) {
	b.logActivity(msg.From, storage.ActivityBotStarted, "")
	b.sendLanguageMenu(msg.Chat.ID)
}

func (b *Bot) handleMyID(msg *tgbotapi.Message) {
	user := msg.From
	text := fmt.Sprintf("👤 Your details:\n\n🆔 User ID: %d\n👤 Name: %s\n", user.ID, user.FirstName)
	if user.UserName != "" {
		text += fmt.Sprintf("📝 Username: @%s", user.UserName)
	} else {
		text += "📝 Username: none"
	}
	b.sendMessage(msg.Chat.ID, text)
}

func (b *Bot) handleStats(msg *tgbotapi.Message) {
	if !b.admins[msg.From.ID] {
		b.sendMessage(msg.Chat.ID, "❌ You are not allowed to use this command.")
		return
	}

	summary, err := b.activity.Summary(context.Background())
	if err != nil {
		log.Printf("Error building stats summary: %v", err)
		b.sendMessage(msg.Chat.ID, "📊 No statistics available yet.")
		return
	}

	text := fmt.Sprintf("📊 Bot statistics\n\n👥 Users: %d\n📝 Tests started: %d\n✅ Tests completed: %d\n\n🏆 Most active users:\n",
		summary.UniqueUsers, summary.StartedTests, summary.CompletedTests)
	for i, u := range summary.TopUsers {
		username := "unknown"
		if u.Username != "" {
			username = "@" + u.Username
		}
		text += fmt.Sprintf("%d. %s (%s) - %d tests\n", i+1, u.FirstName, username, u.Tests)
	}
	b.sendMessage(msg.Chat.ID, text)
}

func (b *Bot) handleSubject(chatID int64, messageID int, user *tgbotapi.User, subject string) {
	known := false
	for _, s := range config.Subjects() {
		if s.Key == subject {
			known = true
			break
		}
	}
	if !known {
		log.Printf("Unknown subject in callback: %q", subject)
		return
	}

	lang := b.sessions.Language(user.ID)
	b.cancelPending(chatID)
	if !b.sessions.StartQuiz(context.Background(), user.ID, subject) {
		b.editMessage(chatID, messageID, tr(lang, "load_failed"), menuOnlyKeyboard(lang))
		return
	}

	b.logActivity(user, storage.ActivityTestStarted, subject)
	b.editMessage(chatID, messageID, tr(lang, "test_starting"), tgbotapi.InlineKeyboardMarkup{})

	userID := user.ID
	b.schedule(chatID, func() {
		b.showQuestion(chatID, messageID, userID)
	})
}

func (b *Bot) handleAnswer(chatID int64, messageID int, user *tgbotapi.User, arg string) {
	choice, err := strconv.Atoi(arg)
	if err != nil {
		log.Printf("Bad answer callback %q: %v", arg, err)
		return
	}

	b.cancelPending(chatID)
	question, hasQuestion := b.sessions.CurrentQuestion(user.ID)
	isCorrect, ok := b.sessions.SubmitAnswer(user.ID, choice)
	if !ok || !hasQuestion {
		// stale click: no session or quiz already finished
		return
	}

	lang := b.sessions.Language(user.ID)
	var feedback string
	if isCorrect {
		feedback = tr(lang, "correct_answer")
	} else {
		feedback = fmt.Sprintf("%s %s", tr(lang, "wrong_answer"), question.Options[question.Correct])
	}
	b.editMessage(chatID, messageID, feedback, tgbotapi.InlineKeyboardMarkup{})

	userID := user.ID
	u := *user
	b.schedule(chatID, func() {
		b.sessions.Advance(userID)
		if b.sessions.IsFinished(userID) {
			b.showResults(chatID, messageID, &u)
		} else {
			b.showQuestion(chatID, messageID, userID)
		}
	})
}

func (b *Bot) handleNext(chatID int64, messageID int, user *tgbotapi.User) {
	if !b.sessions.IsFinished(user.ID) {
		b.sessions.Advance(user.ID)
		if b.sessions.IsFinished(user.ID) {
			b.showResults(chatID, messageID, user)
		} else {
			b.showQuestion(chatID, messageID, user.ID)
		}
		return
	}
	b.showResults(chatID, messageID, user)
}

func (b *Bot) handleRestart(chatID int64, messageID int, user *tgbotapi.User) {
	subject, ok := b.sessions.Subject(user.ID)
	if !ok {
		subject = "aviation"
	}
	lang := b.sessions.Language(user.ID)
	if !b.sessions.StartQuiz(context.Background(), user.ID, subject) {
		b.editMessage(chatID, messageID, tr(lang, "load_failed"), menuOnlyKeyboard(lang))
		return
	}
	b.showQuestion(chatID, messageID, user.ID)
}

func (b *Bot) sendLanguageMenu(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "🌍 Tilni tanlang / Выберите язык / Choose language:")
	msg.ReplyMarkup = languageKeyboard()
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending language menu: %v", err)
	}
}

func (b *Bot) editLanguageMenu(chatID int64, messageID int) {
	b.editMessage(chatID, messageID, "🌍 Tilni tanlang / Выберите язык / Choose language:", languageKeyboard())
}

func (b *Bot) showMainMenu(chatID int64, messageID int, userID int64) {
	lang := b.sessions.Language(userID)
	text := fmt.Sprintf("%s\n\n%s", tr(lang, "start_message"), tr(lang, "choose_subject"))

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, s := range config.Subjects() {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(tr(lang, s.Key), "subject_"+s.Key),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(tr(lang, "choose_language"), "change_language"),
	))

	b.editMessage(chatID, messageID, text, tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (b *Bot) showQuestion(chatID int64, messageID int, userID int64) {
	text, keyboard, ok := b.renderQuestion(userID)
	if !ok {
		log.Printf("No current question to show for user %d", userID)
		return
	}
	b.editMessage(chatID, messageID, text, keyboard)
}

// renderQuestion formats the current question with lettered options, the
// running correct count, answer buttons in rows of two, and navigation.
func (b *Bot) renderQuestion(userID int64) (string, tgbotapi.InlineKeyboardMarkup, bool) {
	question, ok := b.sessions.CurrentQuestion(userID)
	if !ok {
		return "", tgbotapi.InlineKeyboardMarkup{}, false
	}
	progress, ok := b.sessions.Progress(userID)
	if !ok {
		return "", tgbotapi.InlineKeyboardMarkup{}, false
	}
	lang := b.sessions.Language(userID)

	text := fmt.Sprintf("📝 %s %d (%d/%d)\n\n❓ %s\n\n",
		tr(lang, "question"), question.ID, progress.Position, progress.Total, question.Text)
	for i, option := range question.Options {
		if i >= len(answerLetters) {
			break
		}
		text += fmt.Sprintf("%s) %s\n", answerLetters[i], option)
	}
	text += fmt.Sprintf("\n✅ %s: %d", tr(lang, "correct_answers"), progress.Correct)

	var answerButtons []tgbotapi.InlineKeyboardButton
	for i := range question.Options {
		if i >= len(answerLetters) {
			break
		}
		answerButtons = append(answerButtons,
			tgbotapi.NewInlineKeyboardButtonData(answerLetters[i], fmt.Sprintf("answer_%d", i)))
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(answerButtons); i += 2 {
		end := i + 2
		if end > len(answerButtons) {
			end = len(answerButtons)
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(answerButtons[i:end]...))
	}

	var nav []tgbotapi.InlineKeyboardButton
	if progress.Position > 1 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(tr(lang, "back"), "prev"))
	}
	nav = append(nav,
		tgbotapi.NewInlineKeyboardButtonData(tr(lang, "forward"), "next"),
		tgbotapi.NewInlineKeyboardButtonData(tr(lang, "restart"), "restart"),
	)
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(nav...))
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(tr(lang, "back_to_menu"), "main_menu"),
	))

	return text, tgbotapi.NewInlineKeyboardMarkup(rows...), true
}

func (b *Bot) showResults(chatID int64, messageID int, user *tgbotapi.User) {
	progress, ok := b.sessions.Progress(user.ID)
	if !ok {
		return
	}

	subject, _ := b.sessions.Subject(user.ID)
	b.logActivity(user, storage.ActivityTestCompleted, subject)

	lang := b.sessions.Language(user.ID)
	percentage := float64(progress.Correct) / float64(progress.Total) * 100

	text := fmt.Sprintf("🎯 %s\n\n✅ %s: %d/%d\n📊 %s: %.1f%%\n\n",
		tr(lang, "test_completed"),
		tr(lang, "correct_answers"), progress.Correct, progress.Total,
		tr(lang, "final_result"), percentage)

	switch {
	case percentage >= 90:
		text += tr(lang, "excellent")
	case percentage >= 80:
		text += tr(lang, "good")
	case percentage >= 70:
		text += tr(lang, "satisfactory")
	default:
		text += tr(lang, "poor")
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(tr(lang, "restart"), "restart"),
			tgbotapi.NewInlineKeyboardButtonData(tr(lang, "back_to_menu"), "main_menu"),
		),
	)
	b.editMessage(chatID, messageID, text, keyboard)
}

// schedule arms the delayed transition for a chat, replacing any pending
// one. The timer fires on its own goroutine and runs fn only if its
// generation is still current, so a transition canceled after the timer
// fired never touches the session.
func (b *Bot) schedule(chatID int64, fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if t, ok := b.pending[chatID]; ok {
		t.Stop()
	}
	b.gen[chatID]++
	g := b.gen[chatID]
	b.pending[chatID] = time.AfterFunc(b.delay, func() {
		b.mu.Lock()
		if b.gen[chatID] != g {
			b.mu.Unlock()
			return
		}
		delete(b.pending, chatID)
		b.mu.Unlock()
		fn()
	})
}

func (b *Bot) cancelPending(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cancelPendingLocked(chatID)
}

// cancelPendingLocked requires b.mu held. Bumping the generation disarms
// a timer that already fired but has not passed its generation check yet.
func (b *Bot) cancelPendingLocked(chatID int64) {
	if t, ok := b.pending[chatID]; ok {
		t.Stop()
		delete(b.pending, chatID)
	}
	b.gen[chatID]++
}

// logActivity is fire-and-forget: a failed write is logged and the quiz
// flow continues.
func (b *Bot) logActivity(user *tgbotapi.User, activity, subject string) {
	err := b.activity.Record(context.Background(), storage.Entry{
		UserID:    user.ID,
		Username:  user.UserName,
		FirstName: user.FirstName,
		Activity:  activity,
		Subject:   subject,
		Timestamp: time.Now(),
	})
	if err != nil {
		log.Printf("Error recording activity %s: %v", activity, err)
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

func (b *Bot) editMessage(chatID int64, messageID int, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	if len(keyboard.InlineKeyboard) == 0 {
		edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
		if _, err := b.api.Send(edit); err != nil {
			log.Printf("Error editing message: %v", err)
		}
		return
	}
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, keyboard)
	if _, err := b.api.Send(edit); err != nil {
		log.Printf("Error editing message: %v", err)
	}
}

func languageKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🇺🇿 O'zbekcha", "lang_uz"),
			tgbotapi.NewInlineKeyboardButtonData("🇷🇺 Русский", "lang_ru"),
			tgbotapi.NewInlineKeyboardButtonData("🇺🇸 English", "lang_en"),
		),
	)
}

func menuOnlyKeyboard(lang string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(tr(lang, "back_to_menu"), "main_menu"),
		),
	)
}
