package auth

import (
	"context"
	"errors"
	"sync"
)

// mockUserStore implements UserStore in memory and enforces the same
// uniqueness rules as the database.
type mockUserStore struct {
	mu    sync.Mutex
	users map[string]User
	err   error
	saves int
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[string]User)}
}

func (m *mockUserStore) find(match func(User) bool) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if match(u) {
			cp := u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *mockUserStore) FindByID(_ context.Context, id string) (*User, error) {
	return m.find(func(u User) bool { return u.ID == id })
}

func (m *mockUserStore) FindByEmail(_ context.Context, email string) (*User, error) {
	return m.find(func(u User) bool { return u.Email == email })
}

func (m *mockUserStore) FindByUsername(_ context.Context, username string) (*User, error) {
	return m.find(func(u User) bool { return u.Username == username })
}

func (m *mockUserStore) FindByEmailOrUsername(_ context.Context, email, username string) (*User, error) {
	return m.find(func(u User) bool { return u.Email == email || u.Username == username })
}

func (m *mockUserStore) conflicts(user *User) bool {
	for id, u := range m.users {
		if id != user.ID && (u.Email == user.Email || u.Username == user.Username) {
			return true
		}
	}
	return false
}

func (m *mockUserStore) Create(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.users[user.ID]; ok || m.conflicts(user) {
		return ErrDuplicateUser
	}
	m.users[user.ID] = *user
	return nil
}

func (m *mockUserStore) Save(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.users[user.ID]; !ok {
		return ErrUserNotFound
	}
	if m.conflicts(user) {
		return ErrDuplicateUser
	}
	m.saves++
	m.users[user.ID] = *user
	return nil
}

func (m *mockUserStore) get(id string) User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id]
}

var errStoreDown = errors.New("connection refused")
