package storage

import (
	"context"
	"sync"

	"pcb-inspector/internal/domain/entity"
	"pcb-inspector/internal/domain/port"
)

// MemoryUserRepository in-memory хранилище пользователей бота
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[int64]*entity.User
}

// NewMemoryUserRepository создаёт новое in-memory хранилище
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[int64]*entity.User),
	}
}

// Get возвращает копию пользователя по ID, создаёт нового если не найден
func (r *MemoryUserRepository) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	r.mu.RLock()
	user, exists := r.users[userID]
	r.mu.RUnlock()

	if exists {
		return cloneUser(user), nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Пользователя могли создать между RUnlock и Lock.
	if user, exists = r.users[userID]; !exists {
		user = entity.NewUser(userID, chatID)
		r.users[userID] = user
	}

	return cloneUser(user), nil
}

// Update изменяет пользователя под блокировкой и возвращает копию результата
func (r *MemoryUserRepository) Update(ctx context.Context, userID, chatID int64, fn func(u *entity.User)) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.users[userID]
	if !exists {
		user = entity.NewUser(userID, chatID)
		r.users[userID] = user
	}
	fn(user)

	return cloneUser(user), nil
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	if u.LastSummary != nil {
		s := *u.LastSummary
		s.DefectTypes = append([]entity.DefectType(nil), u.LastSummary.DefectTypes...)
		c.LastSummary = &s
	}
	return &c
}

// Проверка реализации интерфейса
var _ port.UserRepository = (*MemoryUserRepository)(nil)
