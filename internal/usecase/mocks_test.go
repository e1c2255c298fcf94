package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/bloomgram/auth-backend/internal/core/domain"
	"github.com/bloomgram/auth-backend/internal/core/port"
	"github.com/bloomgram/auth-backend/internal/repository"
)

// userRepoMock implements port.UserRepository with overridable behaviour and
// an in-memory store as the default.
type userRepoMock struct {
	mu    sync.Mutex
	users map[string]domain.User

	createFn          func(ctx context.Context, user domain.User) error
	setResetTokenFn   func(ctx context.Context, userID, token string, expiresAt time.Time) error
	consumeResetFn    func(ctx context.Context, userID, passwordHash string, changedAt time.Time) error
	setResetTokenCall int
	consumeResetCall  int
}

var _ port.UserRepository = (*userRepoMock)(nil)

func newUserRepoMock() *userRepoMock {
	return &userRepoMock{users: make(map[string]domain.User)}
}

func (m *userRepoMock) Create(ctx context.Context, user domain.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return repository.ErrEmailTaken
		}
		if existing.Username == user.Username {
			return repository.ErrUsernameTaken
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *userRepoMock) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (m *userRepoMock) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *userRepoMock) GetByIdentifier(_ context.Context, identifier string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Username == identifier || user.Email == identifier {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *userRepoMock) SetResetToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	m.mu.Lock()
	m.setResetTokenCall++
	m.mu.Unlock()

	if m.setResetTokenFn != nil {
		return m.setResetTokenFn(ctx, userID, token, expiresAt)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	user.ResetToken = &token
	user.ResetTokenExpiresAt = &expiresAt
	m.users[userID] = user
	return nil
}

func (m *userRepoMock) ConsumeReset(ctx context.Context, userID, passwordHash string, changedAt time.Time) error {
	m.mu.Lock()
	m.consumeResetCall++
	m.mu.Unlock()

	if m.consumeResetFn != nil {
		return m.consumeResetFn(ctx, userID, passwordHash, changedAt)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	user.PasswordHash = passwordHash
	user.ResetToken = nil
	user.ResetTokenExpiresAt = nil
	user.UpdatedAt = changedAt
	m.users[userID] = user
	return nil
}

// recordingPublisher captures every published event.
type recordingPublisher struct {
	mu         sync.Mutex
	registered []domain.UserRegisteredEvent
	requested  []domain.PasswordResetRequestedEvent
	changed    []domain.PasswordChangedEvent
}

var _ port.EventPublisher = (*recordingPublisher)(nil)

func (p *recordingPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.registered = append(p.registered, event)
	return nil
}

func (p *recordingPublisher) PublishPasswordResetRequested(_ context.Context, event domain.PasswordResetRequestedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requested = append(p.requested, event)
	return nil
}

func (p *recordingPublisher) PublishPasswordChanged(_ context.Context, event domain.PasswordChangedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changed = append(p.changed, event)
	return nil
}
