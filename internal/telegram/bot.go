package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/attendanceterminal/internal/feedback"
	"github.com/attendanceterminal/internal/statistics"
	"github.com/attendanceterminal/internal/templates"
	"github.com/attendanceterminal/internal/terms"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const helpText = `/start <term-id> subscribes this chat and selects a term
/report [term-id] Subject=count Subject=NN% generates a report
/feedback <text> sends feedback
/stop unsubscribes this chat`

type Bot struct {
	logger            *slog.Logger
	api               *tgbotapi.BotAPI
	store             *Store
	termsService      *terms.Service
	statisticsService *statistics.Service
	feedbackService   *feedback.Service
}

func NewBot(
	logger *slog.Logger,
	store *Store,
	token string,
	termsService *terms.Service,
	statisticsService *statistics.Service,
	feedbackService *feedback.Service,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Bot{
		logger:            logger,
		api:               api,
		store:             store,
		termsService:      termsService,
		statisticsService: statisticsService,
		feedbackService:   feedbackService,
	}, nil
}

func (b *Bot) Broadcast(ctx context.Context, message string) error {
	chats, err := b.store.ListChats(ctx)
	if err != nil {
		return fmt.Errorf("list chats: %w", err)
	}
	for _, chat := range chats {
		msg := tgbotapi.NewMessage(chat.ID, message)
		if _, err := b.api.Send(msg); err != nil {
			return fmt.Errorf("send message: %w", err)
		}
	}
	return nil
}

func (b *Bot) BroadcastSlogRecord(ctx context.Context, r slog.Record) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s", r.Level, r.Message)
	r.Attrs(func(attr slog.Attr) bool {
		fmt.Fprintf(&sb, "\n%s=%s", attr.Key, attr.Value)
		return true
	})
	return b.Broadcast(ctx, sb.String())
}

func (b *Bot) Listen(ctx context.Context) error {
	offset, err := b.store.GetUpdatesOffset(ctx)
	if err != nil {
		return fmt.Errorf("get updates offset: %w", err)
	}
	config := tgbotapi.NewUpdate(offset)
	config.Timeout = 60
	updates := b.api.GetUpdatesChan(config)
	defer b.api.StopReceivingUpdates()
	for {
		select {
		case <-ctx.Done():
			b.logger.InfoContext(ctx, "stopping listening for telegram updates")
			return nil
		case update := <-updates:
			if update.Message != nil && update.Message.IsCommand() {
				if err := b.handleCommand(ctx, update.Message); err != nil {
					b.logger.ErrorContext(ctx, "handle command", "command", update.Message.Command(), "error", err)
				}
			}

			if err := b.store.SetUpdatesOffset(ctx, update.UpdateID+1); err != nil {
				b.logger.ErrorContext(ctx, "set updates offset", "error", err)
			}
		}
	}
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) error {
	switch message.Command() {
	case "start":
		return b.handleStart(ctx, message)
	case "stop":
		return b.handleStop(ctx, message)
	case "report":
		return b.handleReport(ctx, message)
	case "feedback":
		return b.handleFeedback(ctx, message)
	case "help":
		return b.reply(message, helpText)
	default:
		return nil
	}
}

func (b *Bot) handleStart(ctx context.Context, message *tgbotapi.Message) error {
	chat := Chat{
		ID:        message.Chat.ID,
		FirstName: message.Chat.FirstName,
	}
	if id := strings.TrimSpace(message.CommandArguments()); id != "" {
		term, err := b.termsService.Get(ctx, terms.ID(id))
		if errors.Is(err, terms.ErrNotFound) {
			return b.reply(message, fmt.Sprintf("Unknown term %q.", id))
		} else if err != nil {
			return fmt.Errorf("get term: %w", err)
		}
		chat.TermID = term.ID
	}
	if err := b.store.InsertChat(ctx, &chat); err != nil {
		return fmt.Errorf("insert chat: %w", err)
	}
	return b.reply(message, helpText)
}

func (b *Bot) handleStop(ctx context.Context, message *tgbotapi.Message) error {
	if err := b.store.DeleteChat(ctx, message.Chat.ID); err != nil {
		return fmt.Errorf("delete chat: %w", err)
	}
	return b.reply(message, "Unsubscribed.")
}

func (b *Bot) handleReport(ctx context.Context, message *tgbotapi.Message) error {
	args := strings.Fields(message.CommandArguments())
	var termID terms.ID
	if len(args) > 0 && !strings.Contains(args[0], "=") {
		termID, args = terms.ID(args[0]), args[1:]
	} else {
		chat, err := b.store.FindChat(ctx, message.Chat.ID)
		if err != nil {
			return err
		}
		if chat == nil || chat.TermID == "" {
			return b.reply(message, "No term selected, use /start <term-id> or /report <term-id> ...")
		}
		termID = chat.TermID
	}

	term, err := b.termsService.Get(ctx, termID)
	if errors.Is(err, terms.ErrNotFound) {
		return b.reply(message, fmt.Sprintf("Unknown term %q.", termID))
	} else if err != nil {
		return fmt.Errorf("get term: %w", err)
	}

	inputs, err := statistics.ParseInputs(args, term.Timetable.Subjects())
	if errors.Is(err, statistics.ErrInvalidInput) {
		return b.reply(message, err.Error())
	} else if err != nil {
		return err
	}

	report, err := b.statisticsService.Generate(ctx, term, term.ReferenceDate(time.Now()), inputs, statistics.Options{})
	if err != nil {
		return fmt.Errorf("generate report: %w", err)
	}
	var buf bytes.Buffer
	if err := templates.Report(&buf, report); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return b.reply(message, buf.String())
}

func (b *Bot) handleFeedback(ctx context.Context, message *tgbotapi.Message) error {
	_, err := b.feedbackService.Submit(ctx, message.CommandArguments())
	switch {
	case errors.Is(err, feedback.ErrEmpty), errors.Is(err, feedback.ErrTooLong):
		return b.reply(message, err.Error())
	case err != nil:
		return fmt.Errorf("submit feedback: %w", err)
	default:
		return b.reply(message, "Thanks!")
	}
}

func (b *Bot) reply(message *tgbotapi.Message, text string) error {
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyToMessageID = message.MessageID
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}
