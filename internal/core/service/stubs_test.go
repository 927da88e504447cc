package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/lifeweavers/caseflow/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

type stubUserRepo struct {
	order []string
	byID  map[string]*domain.User
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{byID: make(map[string]*domain.User)}
	for _, u := range users {
		r.order = append(r.order, u.ID)
		clone := *u
		r.byID[u.ID] = &clone
	}
	return r
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, id := range r.order {
		if r.byID[id].Email == email {
			clone := *r.byID[id]
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.order))
	for _, id := range r.order {
		clone := *r.byID[id]
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubUserRepo) CountByRole(_ context.Context, role domain.Role) (int64, error) {
	var n int64
	for _, u := range r.byID {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byID, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

type stubClientRepo struct {
	order []string
	byID  map[string]*domain.Client
}

func newStubClientRepo(clients ...*domain.Client) *stubClientRepo {
	r := &stubClientRepo{byID: make(map[string]*domain.Client)}
	for _, c := range clients {
		r.order = append(r.order, c.ID)
		clone := *c
		r.byID[c.ID] = &clone
	}
	return r
}

func (r *stubClientRepo) FindByID(_ context.Context, id string) (*domain.Client, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubClientRepo) List(_ context.Context) ([]*domain.Client, error) {
	out := make([]*domain.Client, 0, len(r.order))
	for _, id := range r.order {
		clone := *r.byID[id]
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubClientRepo) UpdateTeam(_ context.Context, clientID string, teamMemberIDs []string) error {
	c, ok := r.byID[clientID]
	if !ok {
		return domain.ErrClientNotFound
	}
	c.TeamMemberIDs = append([]string(nil), teamMemberIDs...)
	return nil
}

type stubTaskRepo struct {
	byClient map[string][]*domain.ToDoTask
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{byClient: make(map[string][]*domain.ToDoTask)}
}

func (r *stubTaskRepo) ListByClient(_ context.Context, clientID string) ([]*domain.ToDoTask, error) {
	tasks := r.byClient[clientID]
	out := make([]*domain.ToDoTask, 0, len(tasks))
	for _, t := range tasks {
		clone := *t
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubTaskRepo) FindByID(_ context.Context, id string) (*domain.ToDoTask, error) {
	for _, tasks := range r.byClient {
		for _, t := range tasks {
			if t.ID == id {
				clone := *t
				return &clone, nil
			}
		}
	}
	return nil, domain.ErrTaskNotFound
}

func (r *stubTaskRepo) ReplaceAll(_ context.Context, clientID string, tasks []*domain.ToDoTask) error {
	clones := make([]*domain.ToDoTask, 0, len(tasks))
	for _, t := range tasks {
		clone := *t
		clones = append(clones, &clone)
	}
	r.byClient[clientID] = clones
	return nil
}

func (r *stubTaskRepo) Delete(_ context.Context, id string) error {
	for clientID, tasks := range r.byClient {
		for i, t := range tasks {
			if t.ID == id {
				r.byClient[clientID] = append(tasks[:i], tasks[i+1:]...)
				return nil
			}
		}
	}
	return domain.ErrTaskNotFound
}

type stubThreadRepo struct {
	threads []*domain.MessageThread
}

func (r *stubThreadRepo) ListByParticipant(_ context.Context, userID string) ([]*domain.MessageThread, error) {
	var out []*domain.MessageThread
	for _, t := range r.threads {
		if t.HasParticipant(userID) {
			clone := *t
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubThreadRepo) Create(_ context.Context, thread *domain.MessageThread) error {
	clone := *thread
	r.threads = append(r.threads, &clone)
	return nil
}

type stubSessionStore struct {
	mu       sync.Mutex
	byAnchor map[string]*domain.Session
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{byAnchor: make(map[string]*domain.Session)}
}

func (s *stubSessionStore) Get(_ context.Context, anchorID string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byAnchor[anchorID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	clone := *sess
	return &clone, nil
}

func (s *stubSessionStore) Put(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *session
	s.byAnchor[session.AnchorID] = &clone
	return nil
}

func (s *stubSessionStore) Delete(_ context.Context, anchorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byAnchor, anchorID)
	return nil
}

// ---------------------------------------------------------------------------
// Fixture users
// ---------------------------------------------------------------------------

func superAdmin(id string) *domain.User {
	return &domain.User{ID: id, Email: id + "@example.com", Name: "Sam Super", Role: domain.RoleSuperAdmin}
}

func admin(id string) *domain.User {
	return &domain.User{ID: id, Email: id + "@example.com", Name: "Alex Admin", Role: domain.RoleAdmin}
}

func clinician(id, name string) *domain.User {
	return &domain.User{ID: id, Email: id + "@example.com", Name: name, Role: domain.RoleClinician}
}
