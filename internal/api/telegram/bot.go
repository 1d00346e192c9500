package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "pcb-inspector/internal/application"
	"pcb-inspector/internal/apperr"
	"pcb-inspector/internal/domain/entity"
	"pcb-inspector/internal/domain/port"
	"pcb-inspector/internal/logger"
)

const (
	msgStart = `👋 Привет! Я бот для поиска дефектов на фотографиях печатных плат.

📸 Отправьте мне фото платы, и я отмечу найденные дефекты.

📋 Команды:
/check — начать проверку платы
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте фото платы (можно файлом: PNG, JPG, BMP, TIFF)
2️⃣ Бот проанализирует изображение
3️⃣ Вы получите результат: фото с рамками дефектов и текстовый отчёт

💡 Рекомендации:
• Снимайте плату сверху при ровном освещении
• Плата должна занимать большую часть кадра
• Фото должно быть чётким

📋 Команды:
/check — начать проверку
/cancel — отменить операцию`

	msgAwaitingPhoto   = "📸 Отправьте фото платы для проверки на дефекты."
	msgCancelled       = "❌ Операция отменена. Отправьте /check для новой проверки."
	msgSendPhoto       = "📸 Пожалуйста, отправьте фото платы для проверки на дефекты."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Обрабатываю изображение..."
	msgBusy            = "⏳ Предыдущее изображение ещё обрабатывается, подождите."
	msgDecodeError     = "⚠️ Файл не похож на изображение. Отправьте фото в формате PNG, JPG, BMP или TIFF."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте сделать другое фото."
)

// Ограничение Telegram на длину подписи к фото
const maxCaptionRunes = 1024

// API часть клиента Telegram, которой пользуется бот.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFileDirectURL(fileID string) (string, error)
}

type poller interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Deps зависимости бота.
type Deps struct {
	Users       *app.UserService
	Inspections *app.InspectionService
	Policy      app.UploadPolicy
	Spool       port.UploadSpool
	Logger      *slog.Logger
}

// Bot представляет Telegram-бота
type Bot struct {
	api    API
	poller poller
	deps   Deps
	client *http.Client
	log    *slog.Logger
}

// NewBot создаёт нового бота
func NewBot(token string, deps Deps) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram client: %w", err)
	}

	b := newBot(api, api, deps)
	b.log.Info("authorized on account", "username", api.Self.UserName)
	return b, nil
}

func newBot(api API, p poller, deps Deps) *Bot {
	log := deps.Logger
	if log == nil {
		log = logger.Discard()
	}
	return &Bot{
		api:    api,
		poller: p,
		deps:   deps,
		client: http.DefaultClient,
		log:    log.With("component", "telegram"),
	}
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.poller.GetUpdatesChan(u)
	defer b.poller.StopReceivingUpdates()

	// Каждое сообщение обрабатывается в своей горутине, порядок для
	// одного пользователя задаёт его состояние.
	var wg sync.WaitGroup
	defer wg.Wait()

	b.log.Info("bot is running")
	for {
		select {
		case <-ctx.Done():
			b.log.Info("bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			msg := update.Message
			wg.Go(func() {
				b.handleMessage(ctx, msg)
			})
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	// Обработка фото
	if len(msg.Photo) > 0 {
		// Берём файл с максимальным разрешением
		photo := msg.Photo[len(msg.Photo)-1]
		b.handleImage(ctx, msg, photo.FileID, "photo.jpg", int64(photo.FileSize))
		return
	}

	// Изображение, отправленное файлом без сжатия
	if msg.Document != nil {
		b.handleImage(ctx, msg, msg.Document.FileID, msg.Document.FileName, int64(msg.Document.FileSize))
		return
	}

	// Текстовое сообщение (не команда)
	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	switch msg.Command() {
	case "start":
		b.setState(ctx, userID, chatID, entity.StateMainMenu)
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "check":
		if _, err := b.deps.Users.BeginCheck(ctx, userID, chatID); err != nil {
			b.log.Error("begin check", "user_id", userID, "error", err)
		}
		b.sendMessage(chatID, msgAwaitingPhoto)

	case "cancel":
		if _, err := b.deps.Users.Cancel(ctx, userID, chatID); err != nil {
			b.log.Error("cancel", "user_id", userID, "error", err)
		}
		b.sendMessage(chatID, msgCancelled)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

// handleImage скачивает изображение, проверяет его и отвечает размеченным фото
func (b *Bot) handleImage(ctx context.Context, msg *tgbotapi.Message, fileID, filename string, size int64) {
	userID, chatID := msg.From.ID, msg.Chat.ID
	log := b.log.With("user_id", userID, "file_id", fileID)

	// Устанавливаем состояние "обработка", если предыдущее фото уже готово
	if _, err := b.deps.Users.StartProcessing(ctx, userID, chatID); err != nil {
		if errors.Is(err, app.ErrBusy) {
			b.sendMessage(chatID, msgBusy)
			return
		}
		log.Error("start processing", "error", err)
		b.sendMessage(chatID, msgProcessingError)
		return
	}
	b.sendMessage(chatID, msgProcessing)

	out, enc, err := b.inspect(ctx, fileID, filename, size)
	b.deps.Inspections.Track(app.SourceTelegram, err)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindInternal {
			log.Error("inspection failed", "error", err)
		} else {
			log.Info("image rejected", "error", err)
		}
		b.sendMessage(chatID, userMessage(err))
		b.setState(ctx, userID, chatID, entity.StateMainMenu)
		return
	}

	caption := msgProcessingError
	if rep, err := b.deps.Inspections.Describe(ctx, out.Result); err != nil {
		log.Warn("describe result", "error", err)
	} else {
		caption = rep.Text
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "result.jpg", Bytes: enc.AnnotatedJPEG})
	photo.Caption = truncateRunes(caption, maxCaptionRunes)
	if _, err := b.api.Send(photo); err != nil {
		log.Error("send result photo", "error", err)
	}

	// Возвращаем в главное меню
	if _, err := b.deps.Users.RecordInspection(ctx, userID, chatID, out.Result.Summary); err != nil {
		log.Error("record inspection", "error", err)
	}
	log.Info("inspection sent", "defects", out.Result.Summary.TotalDefects)
}

func (b *Bot) inspect(ctx context.Context, fileID, filename string, size int64) (*app.InspectionOutput, *app.EncodedOutput, error) {
	if err := b.deps.Policy.Validate(filename, size); err != nil {
		return nil, nil, err
	}

	data, err := b.downloadFile(ctx, fileID, filename)
	if err != nil {
		return nil, nil, err
	}

	out, err := b.deps.Inspections.Inspect(ctx, data)
	if err != nil {
		return nil, nil, err
	}

	enc, err := b.deps.Inspections.Encode(out)
	if err != nil {
		return nil, nil, err
	}
	return out, enc, nil
}

// downloadFile скачивает файл из Telegram через временный файл с лимитом размера
func (b *Bot) downloadFile(ctx context.Context, fileID, filename string) ([]byte, error) {
	fileURL, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: unexpected status %s", resp.Status)
	}

	spooled, err := b.deps.Spool.Spool(resp.Body, filename, b.deps.Policy.MaxFileSize)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := spooled.Remove(); err != nil {
			b.log.Warn("failed to remove temp file", "path", spooled.Path(), "error", err)
		}
	}()

	return spooled.ReadAll()
}

func (b *Bot) setState(ctx context.Context, userID, chatID int64, state entity.UserState) {
	if _, err := b.deps.Users.SetState(ctx, userID, chatID, state); err != nil {
		b.log.Error("set user state", "user_id", userID, "state", state, "error", err)
	}
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send message", "chat_id", chatID, "error", err)
	}
}

func userMessage(err error) string {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return "⚠️ " + apperr.Message(err)
	case apperr.KindDecode:
		return msgDecodeError
	default:
		return msgProcessingError
	}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
