package telegram

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"adscore-bot/internal/api/render"
	app "adscore-bot/internal/application"
	"adscore-bot/internal/domain/entity"
	"adscore-bot/internal/infrastructure/vision"
)

var errFileTooLarge = errors.New("файл больше 10 МБ")

const (
	maxMessageLength = 4000
	maxFileSize      = 10 << 20
	handleTimeout    = time.Minute
)

// Bot представляет Telegram-бота
type Bot struct {
	api      *tgbotapi.BotAPI
	sessions *app.SessionService
	creative *app.CreativeService
	validate *validator.Validate
	client   *http.Client
	log      *logrus.Logger
}

// NewBot создаёт нового бота
func NewBot(token string, sessions *app.SessionService, creative *app.CreativeService, log *logrus.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.WithField("account", api.Self.UserName).Info("telegram bot authorized")

	return &Bot{
		api:      api,
		sessions: sessions,
		creative: creative,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		client:   &http.Client{Timeout: 30 * time.Second},
		log:      log,
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.From == nil {
				continue
			}
			go b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(ctx, handleTimeout)
	defer cancel()

	session, err := b.sessions.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		b.log.WithError(err).Error("get session")
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg, session)
		return
	}

	if session.Busy() {
		b.sendMessage(msg.Chat.ID, msgBusy)
		return
	}

	switch {
	case len(msg.Photo) > 0 && (session.State == entity.StateAwaitingPhoto || session.State == entity.StateMainMenu):
		b.process(ctx, msg, session, b.palette(msg.Photo[len(msg.Photo)-1].FileID))
	case msg.Document != nil && isImage(msg.Document.MimeType) && session.State != entity.StateAwaitingLayout && session.State != entity.StateAwaitingVariants:
		b.process(ctx, msg, session, b.palette(msg.Document.FileID))
	case session.State == entity.StateAwaitingLayout:
		b.process(ctx, msg, session, b.score)
	case session.State == entity.StateAwaitingVariants:
		b.process(ctx, msg, session, b.abtest)
	default:
		b.sendMessage(msg.Chat.ID, msgUnexpected)
	}
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, session *entity.Session) {
	userID, chatID := session.UserID, msg.Chat.ID

	var err error
	switch msg.Command() {
	case "start":
		_, err = b.sessions.Cancel(ctx, userID, chatID)
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "palette":
		_, err = b.sessions.BeginPalette(ctx, userID, chatID)
		b.sendMessage(chatID, msgAwaitingPhoto)

	case "score":
		_, err = b.sessions.BeginScore(ctx, userID, chatID)
		b.sendMessage(chatID, msgAwaitingLayout)

	case "abtest":
		_, err = b.sessions.BeginABTest(ctx, userID, chatID)
		b.sendMessage(chatID, msgAwaitingVariants)

	case "industry":
		industry := strings.TrimSpace(msg.CommandArguments())
		if industry == "" {
			b.sendMessage(chatID, msgIndustryUsage)
			return
		}
		var updated *entity.Session
		updated, err = b.sessions.SetIndustry(ctx, userID, chatID, industry)
		if err == nil {
			if b.creative.KnownIndustry(updated.Industry) {
				b.sendMessage(chatID, fmt.Sprintf(msgIndustrySet, updated.Industry))
			} else {
				b.sendMessage(chatID, fmt.Sprintf(msgIndustryUnknown, updated.Industry))
			}
		}

	case "cancel":
		_, err = b.sessions.Cancel(ctx, userID, chatID)
		b.sendMessage(chatID, msgCancelled)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}

	if err != nil {
		b.log.WithError(err).WithField("command", msg.Command()).Error("update session")
	}
}

// handler выполняет расчёт и возвращает текст ответа
type handler func(ctx context.Context, msg *tgbotapi.Message, session *entity.Session) (string, error)

// process переводит сессию в обработку, выполняет расчёт и возвращает пользователя в главное меню
func (b *Bot) process(ctx context.Context, msg *tgbotapi.Message, session *entity.Session, h handler) {
	_, ok, err := b.sessions.StartProcessing(ctx, session.UserID, msg.Chat.ID)
	if err != nil {
		b.log.WithError(err).Error("start processing")
		return
	}
	if !ok {
		b.sendMessage(msg.Chat.ID, msgBusy)
		return
	}
	defer func() {
		if _, err := b.sessions.Cancel(context.WithoutCancel(ctx), session.UserID, msg.Chat.ID); err != nil {
			b.log.WithError(err).Error("reset session")
		}
	}()

	b.sendMessage(msg.Chat.ID, msgProcessing)

	reply, err := h(ctx, msg, session)
	if err != nil {
		b.log.WithFields(logrus.Fields{
			"user_id": session.UserID,
			"state":   session.State,
			"error":   err.Error(),
		}).Warn("request failed")
		b.sendMessage(msg.Chat.ID, userError(err))
		return
	}
	b.sendPre(msg.Chat.ID, reply)
}

func (b *Bot) palette(fileID string) handler {
	return func(ctx context.Context, msg *tgbotapi.Message, session *entity.Session) (string, error) {
		data, err := b.downloadFile(ctx, fileID)
		if err != nil {
			return "", err
		}
		report, err := b.creative.ExtractPalette(ctx, data)
		if err != nil {
			return "", err
		}
		return render.Palette(report), nil
	}
}

func (b *Bot) score(ctx context.Context, msg *tgbotapi.Message, session *entity.Session) (string, error) {
	raw, err := b.payload(ctx, msg)
	if errors.Is(err, errFileTooLarge) {
		return "", inputError{format: msgLayoutError, err: err}
	}
	if err != nil {
		return "", err
	}
	doc, err := parseLayout(raw, b.validate)
	if err != nil {
		return "", inputError{format: msgLayoutError, err: err}
	}
	if doc.Industry == "" {
		doc.Industry = session.Industry
	}
	report, err := b.creative.Analyze(ctx, app.AnalyzeRequest{Document: doc})
	if err != nil {
		return "", err
	}
	return render.Creative(report), nil
}

func (b *Bot) abtest(ctx context.Context, msg *tgbotapi.Message, session *entity.Session) (string, error) {
	raw, err := b.payload(ctx, msg)
	if errors.Is(err, errFileTooLarge) {
		return "", inputError{format: msgVariantsError, err: err}
	}
	if err != nil {
		return "", err
	}
	variants, err := parseVariants(raw, b.validate)
	if err != nil {
		return "", inputError{format: msgVariantsError, err: err}
	}
	report, err := b.creative.PredictABTest(ctx, variants, 0)
	if err != nil {
		return "", err
	}
	return render.ABTest(report), nil
}

// payload текст сообщения или содержимое приложенного файла
func (b *Bot) payload(ctx context.Context, msg *tgbotapi.Message) ([]byte, error) {
	if msg.Document != nil {
		if msg.Document.FileSize > maxFileSize {
			return nil, errFileTooLarge
		}
		return b.downloadFile(ctx, msg.Document.FileID)
	}
	return []byte(msg.Text), nil
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFileSize))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.WithError(err).Error("send message")
	}
}

// sendPre отправляет моноширинный текст, чтобы таблицы не разъезжались
func (b *Bot) sendPre(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, preformatted(text))
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(msg); err != nil {
		b.log.WithError(err).Error("send message")
	}
}

// preformatted экранирует текст и обрезает его до лимита сообщения
func preformatted(text string) string {
	if utf8.RuneCountInString(text) > maxMessageLength {
		runes := []rune(text)
		text = string(runes[:maxMessageLength]) + "\n…"
	}
	return "<pre>" + html.EscapeString(text) + "</pre>"
}

func isImage(mime string) bool {
	return strings.HasPrefix(mime, "image/")
}

// inputError ошибка разбора пользовательского ввода, показывается как есть
type inputError struct {
	format string
	err    error
}

func (e inputError) Error() string { return e.err.Error() }
func (e inputError) Unwrap() error { return e.err }

// userError переводит ошибку в сообщение для пользователя
func userError(err error) string {
	var in inputError
	switch {
	case errors.As(err, &in):
		return fmt.Sprintf(in.format, in.err.Error())
	case errors.Is(err, vision.ErrDecode), errors.Is(err, app.ErrEmptyImage):
		return msgImageError
	default:
		return msgProcessingError
	}
}
