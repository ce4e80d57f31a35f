package main

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/loomdi/loom/container"
)

// User is the demo domain entity.
type User struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// UserRepository is the storage port for users.
type UserRepository interface {
	Find(id int) (User, bool)
	All() []User
	Save(name string) User
}

// memoryUserRepository is the in-memory default, shared by every request.
type memoryUserRepository struct {
	mu     sync.RWMutex
	nextID int
	users  map[int]User
	log    *slog.Logger
}

func newMemoryUserRepository(log *slog.Logger) *memoryUserRepository {
	return &memoryUserRepository{
		nextID: 3,
		users: map[int]User{
			1: {ID: 1, Name: "Alice"},
			2: {ID: 2, Name: "Bob"},
		},
		log: log,
	}
}

func (r *memoryUserRepository) Find(id int) (User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	return u, ok
}

func (r *memoryUserRepository) All() []User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *memoryUserRepository) Save(name string) User {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := User{ID: r.nextID, Name: name}
	r.users[u.ID] = u
	r.nextID++
	r.log.Info("user created", "id", u.ID, "name", u.Name)
	return u
}

// UserService answers user queries for handlers. Registered as a factory:
// every resolution builds a fresh service over the repository singleton.
type UserService struct {
	repo UserRepository
}

func (s *UserService) List() []User { return s.repo.All() }

func (s *UserService) Get(id int) (User, bool) { return s.repo.Find(id) }

func (s *UserService) Create(name string) User { return s.repo.Save(name) }

// RequestTrace is scoped per request: the same trace for every resolution
// within one request, gone when the request ends.
type RequestTrace struct {
	ScopeID string    `json:"scope"`
	Started time.Time `json:"started"`
}

func demoModule() *container.Module {
	return container.NewModule("demo",
		container.Single(func(in *container.Injector) (UserRepository, error) {
			log, err := container.Resolve[*slog.Logger](in)
			if err != nil {
				return nil, err
			}
			return newMemoryUserRepository(log), nil
		}, container.Needs(container.KeyOf[*slog.Logger]())),

		container.Factory(func(in *container.Injector) (*UserService, error) {
			repo, err := container.Resolve[UserRepository](in)
			if err != nil {
				return nil, err
			}
			return &UserService{repo: repo}, nil
		}, container.Needs(container.KeyOf[UserRepository]())),

		container.Scoped(func(in *container.Injector) (*RequestTrace, error) {
			return &RequestTrace{ScopeID: in.Scope().ID(), Started: time.Now()}, nil
		}),
	)
}
