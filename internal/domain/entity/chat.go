package entity

// ChatState состояние пользователя в диалоге с ботом
type ChatState string

const (
	StateMainMenu      ChatState = "main_menu"      // В главном меню
	StateAwaitingPhoto ChatState = "awaiting_photo" // Ожидание фото листа
	StateProcessing    ChatState = "processing"     // Обработка изображения
)

// ChatSession хранит состояние диалога одного Telegram-пользователя
type ChatSession struct {
	TelegramID int64     // Telegram User ID
	ChatID     int64     // Telegram Chat ID
	State      ChatState // Текущее состояние диалога
}

// NewChatSession создаёт сессию с начальным состоянием
func NewChatSession(telegramID, chatID int64) *ChatSession {
	return &ChatSession{
		TelegramID: telegramID,
		ChatID:     chatID,
		State:      StateMainMenu,
	}
}

// SetState обновляет состояние диалога
func (s *ChatSession) SetState(state ChatState) {
	s.State = state
}
