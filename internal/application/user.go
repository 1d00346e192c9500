package app

import (
	"context"
	"errors"

	"pcb-inspector/internal/domain/entity"
	"pcb-inspector/internal/domain/port"
)

// ErrBusy пользователь уже ждёт результата предыдущей проверки.
var ErrBusy = errors.New("previous image is still being processed")

type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Get(ctx, userID, chatID)
}

func (s *UserService) SetState(ctx context.Context, userID, chatID int64, state entity.UserState) (*entity.User, error) {
	return s.repo.Update(ctx, userID, chatID, func(u *entity.User) {
		u.SetState(state)
	})
}

// BeginCheck переводит пользователя в ожидание фото платы.
func (s *UserService) BeginCheck(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateAwaitingPhoto)
}

func (s *UserService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateMainMenu)
}

// StartProcessing атомарно переводит пользователя в обработку.
// Если обработка уже идёт, возвращает ErrBusy и состояние не меняет.
func (s *UserService) StartProcessing(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	busy := false
	user, err := s.repo.Update(ctx, userID, chatID, func(u *entity.User) {
		if u.State == entity.StateProcessing {
			busy = true
			return
		}
		u.SetState(entity.StateProcessing)
	})
	if err != nil {
		return nil, err
	}
	if busy {
		return user, ErrBusy
	}
	return user, nil
}

// RecordInspection сохраняет итог проверки и возвращает пользователя в меню.
func (s *UserService) RecordInspection(ctx context.Context, userID, chatID int64, summary entity.Summary) (*entity.User, error) {
	return s.repo.Update(ctx, userID, chatID, func(u *entity.User) {
		u.RecordInspection(summary)
	})
}
