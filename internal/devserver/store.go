package devserver

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskmaster/internal/service"
)

var (
	errUserExists   = errors.New("user already exists")
	errTaskNotFound = errors.New("task not found")
)

type account struct {
	user         service.User
	passwordHash []byte
}

// memStore holds users and their tasks in memory.
type memStore struct {
	mu      sync.RWMutex
	byEmail map[string]*account
	byID    map[string]*account
	tasks   map[string]map[string]service.Task // userID -> taskID -> task
	now     func() time.Time
}

func newMemStore() *memStore {
	return &memStore{
		byEmail: make(map[string]*account),
		byID:    make(map[string]*account),
		tasks:   make(map[string]map[string]service.Task),
		now:     time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *memStore) addUser(username, email string, hash []byte) (service.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := normalizeEmail(email)
	if _, exists := s.byEmail[key]; exists {
		return service.User{}, errUserExists
	}
	acc := &account{
		user: service.User{
			ID:       uuid.NewString(),
			Username: strings.TrimSpace(username),
			Email:    key,
		},
		passwordHash: hash,
	}
	s.byEmail[key] = acc
	s.byID[acc.user.ID] = acc
	s.tasks[acc.user.ID] = make(map[string]service.Task)
	return acc.user, nil
}

func (s *memStore) accountByEmail(email string) (*account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.byEmail[normalizeEmail(email)]
	return acc, ok
}

func (s *memStore) userExists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byID[id]
	return ok
}

// listTasks returns the user's tasks newest first.
func (s *memStore) listTasks(userID string) []service.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]service.Task, 0, len(s.tasks[userID]))
	for _, t := range s.tasks[userID] {
		result = append(result, t)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func (s *memStore) createTask(userID string, in service.NewTask) service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := service.Task{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   s.now().UTC(),
	}
	s.tasks[userID][t.ID] = t
	return t
}

func (s *memStore) updateTask(userID, id string, fn func(*service.Task)) (service.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[userID][id]
	if !ok {
		return service.Task{}, errTaskNotFound
	}
	fn(&t)
	s.tasks[userID][id] = t
	return t, nil
}

func (s *memStore) deleteTask(userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[userID][id]; !ok {
		return errTaskNotFound
	}
	delete(s.tasks[userID], id)
	return nil
}
