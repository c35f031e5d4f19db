package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	domainerrors "servhub/contexts/identity-access/account-service/domain/errors"
	"servhub/contexts/identity-access/account-service/ports"
)

// Store is the in-memory user repository used by application tests and
// local runs. Username and email uniqueness are enforced the way the
// postgres adapter does through its unique indexes.
type Store struct {
	mu       sync.RWMutex
	users    map[string]ports.User
	sequence uint64
}

func NewStore() *Store {
	return &Store{
		users: make(map[string]ports.User),
	}
}

func (s *Store) CreateUser(ctx context.Context, user ports.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username {
			return domainerrors.ErrUsernameTaken
		}
		if existing.Email == user.Email {
			return domainerrors.ErrEmailTaken
		}
	}
	s.users[user.UserID] = user
	return nil
}

func (s *Store) GetUser(ctx context.Context, userID string) (ports.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return ports.User{}, domainerrors.ErrUserNotFound
	}
	return user, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (ports.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return ports.User{}, domainerrors.ErrUserNotFound
}

func (s *Store) UpdateUser(ctx context.Context, user ports.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.UserID]; !ok {
		return domainerrors.ErrUserNotFound
	}
	s.users[user.UserID] = user
	return nil
}

// Now satisfies ports.Clock so tests can wire the store as clock.
func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

// NewID satisfies ports.IDGenerator with deterministic sequential IDs.
func (s *Store) NewID(ctx context.Context) (string, error) {
	return fmt.Sprintf("user_obj_%06d", atomic.AddUint64(&s.sequence, 1)), nil
}
