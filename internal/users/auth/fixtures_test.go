// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/clipstream/internal/platform/dberr"
	"github.com/taibuivan/clipstream/internal/platform/sec"
	"github.com/taibuivan/clipstream/internal/users/auth"
	"github.com/taibuivan/clipstream/pkg/uuid"
)

const (
	fixturePassword = "correct-horse-battery"
	accessTTL       = 15 * time.Minute
	refreshTTL      = 240 * time.Hour
)

// # In-Memory Credential Store

// memoryStore is a mutex-guarded CredentialStore for service tests.
type memoryStore struct {
	mu       sync.Mutex
	accounts map[string]*auth.User
	digests  map[string]string

	findErr   error
	createErr error
	setErr    error
	casErr    error
	clearErr  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		accounts: make(map[string]*auth.User),
		digests:  make(map[string]string),
	}
}

func (store *memoryStore) FindByLogin(_ context.Context, login string) (*auth.User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.findErr != nil {
		return nil, store.findErr
	}
	for _, user := range store.accounts {
		if user.Username == login || user.Email == login {
			copied := *user
			return &copied, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (store *memoryStore) FindByID(_ context.Context, id string) (*auth.User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.findErr != nil {
		return nil, store.findErr
	}
	user, ok := store.accounts[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (store *memoryStore) Create(_ context.Context, user *auth.User) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.createErr != nil {
		return store.createErr
	}
	for _, existing := range store.accounts {
		if existing.Username == user.Username || existing.Email == user.Email {
			return dberr.ErrDuplicate
		}
	}
	copied := *user
	store.accounts[user.ID] = &copied
	return nil
}

func (store *memoryStore) SetRefreshToken(_ context.Context, accountID, digest string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.setErr != nil {
		return store.setErr
	}
	if _, ok := store.accounts[accountID]; !ok {
		return dberr.ErrNotFound
	}
	store.digests[accountID] = digest
	return nil
}

func (store *memoryStore) CompareAndSetRefreshToken(_ context.Context, accountID, expected, next string) (bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.casErr != nil {
		return false, store.casErr
	}
	current, ok := store.digests[accountID]
	if !ok || expected == "" || current != expected {
		return false, nil
	}
	store.digests[accountID] = next
	return true, nil
}

func (store *memoryStore) ClearRefreshToken(_ context.Context, accountID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.clearErr != nil {
		return store.clearErr
	}
	delete(store.digests, accountID)
	return nil
}

func (store *memoryStore) digest(accountID string) (string, bool) {
	store.mu.Lock()
	defer store.mu.Unlock()

	digest, ok := store.digests[accountID]
	return digest, ok
}

func (store *memoryStore) remove(accountID string) {
	store.mu.Lock()
	defer store.mu.Unlock()

	delete(store.accounts, accountID)
	delete(store.digests, accountID)
}

// # Clock

// testClock is a settable time source shared by the token service.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (clock *testClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

func (clock *testClock) Advance(step time.Duration) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.now = clock.now.Add(step)
}

// # Observer

type recordingObserver struct {
	mu     sync.Mutex
	events []string
}

func (observer *recordingObserver) ObserveAuth(operation, outcome string) {
	observer.mu.Lock()
	defer observer.mu.Unlock()
	observer.events = append(observer.events, operation+":"+outcome)
}

func (observer *recordingObserver) Events() []string {
	observer.mu.Lock()
	defer observer.mu.Unlock()
	return append([]string(nil), observer.events...)
}

// # Fixture

type fixture struct {
	service  *auth.Service
	store    *memoryStore
	tokens   *sec.TokenService
	clock    *testClock
	observer *recordingObserver
	user     *auth.User
}

func newTokenService(t *testing.T, clock *testClock) *sec.TokenService {
	t.Helper()

	tokens, err := sec.NewTokenService(sec.TokenConfig{
		AccessSecret:  "access-secret-for-tests",
		RefreshSecret: "refresh-secret-for-tests",
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
		Issuer:        "clipstream.test",
	}, sec.WithClock(clock.Now))
	require.NoError(t, err)

	return tokens
}

// newFixture seeds one account "ada" / "ada@example.com".
func newFixture(t *testing.T) *fixture {
	t.Helper()

	clock := &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	tokens := newTokenService(t, clock)
	store := newMemoryStore()
	observer := &recordingObserver{}

	hash, err := sec.HashPasswordCost(fixturePassword, bcrypt.MinCost)
	require.NoError(t, err)

	id, err := uuid.New()
	require.NoError(t, err)

	user := &auth.User{
		ID:           id,
		Username:     "ada",
		Email:        "ada@example.com",
		PasswordHash: hash,
		FullName:     "Ada Lovelace",
		CreatedAt:    clock.Now(),
		UpdatedAt:    clock.Now(),
	}
	require.NoError(t, store.Create(context.Background(), user))

	return &fixture{
		service:  auth.NewService(store, tokens, auth.WithObserver(observer)),
		store:    store,
		tokens:   tokens,
		clock:    clock,
		observer: observer,
		user:     user,
	}
}

// login performs a successful login for the seeded account.
func (f *fixture) login(t *testing.T) *auth.LoginSession {
	t.Helper()

	session, err := f.service.Login(context.Background(), auth.LoginInput{
		Login:    f.user.Username,
		Password: fixturePassword,
	})
	require.NoError(t, err)

	return session
}
