package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	app "tomato-health/internal/application"
	"tomato-health/internal/container"
	"tomato-health/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я бот для диагностики болезней томатов по фото листа.

📸 Отправьте мне фото листа, и я определю болезнь и подскажу, что делать.

📋 Команды:
/check — начать проверку листа
/history — последние проверки
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте фото листа томата
2️⃣ Бот проверит, что на фото растение, и распознает болезнь
3️⃣ Вы получите диагноз, уверенность и рекомендацию по лечению

💡 Рекомендации:
• Снимайте при хорошем освещении
• Лист должен занимать большую часть кадра
• Фото должно быть чётким

📋 Команды:
/check — начать проверку
/history — последние проверки
/cancel — отменить операцию`

	msgAwaitingPhoto    = "📸 Отправьте фото листа томата для проверки."
	msgCancelled        = "❌ Операция отменена. Отправьте /check для новой проверки."
	msgSendPhoto        = "📸 Пожалуйста, отправьте фото листа томата для проверки."
	msgUnknownCommand   = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing       = "⏳ Обрабатываю изображение..."
	msgProcessingError  = "⚠️ Не удалось обработать изображение. Попробуйте сделать другое фото."
	msgModelUnavailable = "⚠️ Модель недоступна. Обратитесь к администратору."
	msgHistoryEmpty     = "📋 История пуста. Отправьте /check для первой проверки."
)

// botAPI подмножество *tgbotapi.BotAPI, которым пользуется бот
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFile(config tgbotapi.FileConfig) (tgbotapi.File, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot представляет Telegram-бота
type Bot struct {
	api       botAPI
	token     string
	container *container.Container
	download  func(ctx context.Context, fileID string) ([]byte, error)
}

// NewBot создаёт нового бота
func NewBot(token string, debug bool, c *container.Container) (*Bot, error) {
	if err := tgbotapi.SetLogger(log.StandardLogger()); err != nil {
		return nil, err
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	api.Debug = debug

	log.WithField("account", api.Self.UserName).Info("telegram bot authorized")

	return newBot(api, token, c), nil
}

func newBot(api botAPI, token string, c *container.Container) *Bot {
	b := &Bot{api: api, token: token, container: c}
	b.download = b.downloadFile
	return b
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
			// Сообщения обрабатываются по очереди
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	// Обработка фото
	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg)
		return
	}

	// Текстовое сообщение (не команда)
	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chats := b.container.ChatService
	userID, chatID := msg.From.ID, msg.Chat.ID

	var err error
	switch msg.Command() {
	case "start":
		_, err = chats.Cancel(ctx, userID, chatID)
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "check":
		_, err = chats.BeginCheck(ctx, userID, chatID)
		b.sendMessage(chatID, msgAwaitingPhoto)

	case "cancel":
		_, err = chats.Cancel(ctx, userID, chatID)
		b.sendMessage(chatID, msgCancelled)

	case "history":
		b.sendHistory(ctx, msg)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
	if err != nil {
		log.WithError(err).WithField("telegram_id", userID).Error("failed to save chat session")
	}
}

// handlePhoto прогоняет фото через конвейер диагностики
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	chats := b.container.ChatService
	userID, chatID := msg.From.ID, msg.Chat.ID
	logger := log.WithField("telegram_id", userID)

	if _, err := chats.StartProcessing(ctx, userID, chatID); err != nil {
		logger.WithError(err).Error("failed to save chat session")
	}
	defer func() {
		// Возвращаем в главное меню
		if _, err := chats.Cancel(ctx, userID, chatID); err != nil {
			logger.WithError(err).Error("failed to save chat session")
		}
	}()

	b.sendMessage(chatID, msgProcessing)

	user, err := b.container.UserService.EnsureTelegramUser(ctx, userID)
	if err != nil {
		logger.WithError(err).Error("failed to provision user")
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	// Получаем файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	imageData, err := b.download(ctx, photo.FileID)
	if err != nil {
		logger.WithError(err).Error("failed to download photo")
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	diagnosis, err := b.container.DiagnosisService.Diagnose(ctx, user.ID, app.Upload{
		Data:        imageData,
		Filename:    photo.FileUniqueID + ".jpg",
		ContentType: "image/jpeg",
	})
	switch {
	case errors.Is(err, app.ErrModelUnavailable):
		b.sendMessage(chatID, msgModelUnavailable)
	case err != nil:
		logger.WithError(err).Error("diagnosis failed")
		b.sendMessage(chatID, msgProcessingError)
	case !diagnosis.Accepted():
		b.sendMessage(chatID, "⚠️ "+diagnosis.Reason)
	default:
		b.sendMessage(chatID, formatDiagnosis(diagnosis))
	}
}

func formatDiagnosis(d *entity.Diagnosis) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🌿 Диагноз: %s\n", d.Record.Label)
	fmt.Fprintf(&sb, "📊 Уверенность: %.1f%%\n\n", d.Record.ConfidencePercent())
	fmt.Fprintf(&sb, "💊 Рекомендация: %s", d.Treatment)
	if len(d.Top) > 1 {
		sb.WriteString("\n\n🔎 Наиболее вероятные:")
		for _, s := range d.Top {
			fmt.Fprintf(&sb, "\n• %s — %.1f%%", s.Label, s.Probability*100)
		}
	}
	return sb.String()
}

func (b *Bot) sendHistory(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	user, err := b.container.UserService.EnsureTelegramUser(ctx, msg.From.ID)
	if err != nil {
		log.WithError(err).Error("failed to provision user")
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	dashboard, err := b.container.HistoryService.Dashboard(ctx, user.ID)
	if err != nil {
		log.WithError(err).Error("failed to load history")
		b.sendMessage(chatID, msgProcessingError)
		return
	}
	if dashboard.Total == 0 {
		b.sendMessage(chatID, msgHistoryEmpty)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 Всего проверок: %d", dashboard.Total)
	for _, r := range dashboard.Recent {
		fmt.Fprintf(&sb, "\n• %s — %s (%.1f%%)", r.CreatedAt.Format("02.01.2006 15:04"), r.Label, r.ConfidencePercent())
	}
	b.sendMessage(chatID, sb.String())
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.token), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).Error("failed to send message")
	}
}
