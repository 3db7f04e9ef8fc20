package app

import (
	"context"

	"tomato-health/internal/domain/entity"
	"tomato-health/internal/domain/port"
)

// ChatService управляет состоянием диалога с ботом.
type ChatService struct {
	repo port.ChatSessionRepository
}

func NewChatService(repo port.ChatSessionRepository) *ChatService {
	return &ChatService{repo: repo}
}

func (s *ChatService) Get(ctx context.Context, telegramID, chatID int64) (*entity.ChatSession, error) {
	return s.repo.Get(ctx, telegramID, chatID)
}

func (s *ChatService) SetState(ctx context.Context, telegramID, chatID int64, state entity.ChatState) (*entity.ChatSession, error) {
	session, err := s.repo.Get(ctx, telegramID, chatID)
	if err != nil {
		return nil, err
	}

	session.SetState(state)
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func (s *ChatService) BeginCheck(ctx context.Context, telegramID, chatID int64) (*entity.ChatSession, error) {
	return s.SetState(ctx, telegramID, chatID, entity.StateAwaitingPhoto)
}

func (s *ChatService) StartProcessing(ctx context.Context, telegramID, chatID int64) (*entity.ChatSession, error) {
	return s.SetState(ctx, telegramID, chatID, entity.StateProcessing)
}

func (s *ChatService) Cancel(ctx context.Context, telegramID, chatID int64) (*entity.ChatSession, error) {
	return s.SetState(ctx, telegramID, chatID, entity.StateMainMenu)
}
