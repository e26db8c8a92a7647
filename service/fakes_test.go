package service

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/learnhub/learnhub/data/repository"
	"github.com/learnhub/learnhub/paging"
	"github.com/learnhub/learnhub/structs"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*structs.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*structs.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *structs.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*structs.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*structs.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*structs.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *fakeUserRepo) Update(_ context.Context, user *structs.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *fakeUserRepo) TouchLastLogin(_ context.Context, id string) error {
	return nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*structs.Session // keyed by refresh token
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*structs.Session)}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *structs.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *session
	r.sessions[session.RefreshToken] = &cp
	return nil
}

func (r *fakeSessionRepo) FindByRefreshToken(_ context.Context, refreshToken string) (*structs.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[refreshToken]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (r *fakeSessionRepo) DeleteByRefreshToken(_ context.Context, refreshToken string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[refreshToken]; !ok {
		return sql.ErrNoRows
	}
	delete(r.sessions, refreshToken)
	return nil
}

func (r *fakeSessionRepo) DeleteByUserID(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for token, s := range r.sessions {
		if s.UserID == userID {
			delete(r.sessions, token)
		}
	}
	return nil
}

func (r *fakeSessionRepo) DeleteExpired(_ context.Context) (int64, error) {
	return 0, nil
}

func (r *fakeSessionRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

type fakeResetTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*structs.PasswordResetToken // keyed by token value
}

func newFakeResetTokenRepo() *fakeResetTokenRepo {
	return &fakeResetTokenRepo{tokens: make(map[string]*structs.PasswordResetToken)}
}

func (r *fakeResetTokenRepo) Create(_ context.Context, token *structs.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *token
	r.tokens[token.Token] = &cp
	return nil
}

func (r *fakeResetTokenRepo) FindByToken(_ context.Context, token string) (*structs.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tokens[token]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (r *fakeResetTokenRepo) MarkUsed(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.ID == id {
			t.Used = true
			return nil
		}
	}
	return sql.ErrNoRows
}

type fakeTaskRepo struct {
	mu     sync.Mutex
	nextID int64
	tasks  map[int64]*structs.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[int64]*structs.Task)}
}

func (r *fakeTaskRepo) Create(_ context.Context, task *structs.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	task.ID = r.nextID
	cp := *task
	r.tasks[task.ID] = &cp
	return nil
}

func (r *fakeTaskRepo) FindByID(_ context.Context, userID string, id int64) (*structs.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tasks[id]; ok && t.UserID == userID {
		cp := *t
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (r *fakeTaskRepo) ListAfter(_ context.Context, userID string, filter repository.TaskFilter, after *paging.Position, limit int) ([]*structs.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*structs.Task
	for _, t := range r.tasks {
		if t.UserID != userID {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		if after != nil && t.ID <= after.Key {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, task *structs.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tasks[task.ID]; !ok || t.UserID != task.UserID {
		return sql.ErrNoRows
	}
	cp := *task
	r.tasks[task.ID] = &cp
	return nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, userID string, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tasks[id]; !ok || t.UserID != userID {
		return sql.ErrNoRows
	}
	delete(r.tasks, id)
	return nil
}

func (r *fakeTaskRepo) CountByField(_ context.Context, userID, field string) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int)
	for _, t := range r.tasks {
		if t.UserID != userID {
			continue
		}
		switch field {
		case "status":
			counts[string(t.Status)]++
		case "task_type":
			counts[string(t.Type)]++
		}
	}
	return counts, nil
}

func (r *fakeTaskRepo) RecentCompleted(_ context.Context, userID string, limit int) ([]*structs.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*structs.Task
	for _, t := range r.tasks {
		if t.UserID == userID && t.Status == structs.TaskCompleted {
			cp := *t
			out = append(out, &cp)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeTaskRepo) Upcoming(_ context.Context, userID string, limit int) ([]*structs.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*structs.Task
	for _, t := range r.tasks {
		if t.UserID == userID && t.DueDate != nil && t.Status != structs.TaskCompleted {
			cp := *t
			out = append(out, &cp)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	nextID   int64
	products map[int64]*structs.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[int64]*structs.Product)}
}

func (r *fakeProductRepo) Create(_ context.Context, product *structs.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	product.ID = r.nextID
	cp := *product
	r.products[product.ID] = &cp
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id int64) (*structs.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (r *fakeProductRepo) ListAfter(_ context.Context, after *paging.Position, limit int) ([]*structs.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*structs.Product
	for _, p := range r.products {
		if after != nil && p.ID <= after.Key {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeProductRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.products)), nil
}

type fakeChunkRepo struct {
	mu     sync.Mutex
	nextID int64
	chunks map[int64]*structs.Chunk
}

func newFakeChunkRepo() *fakeChunkRepo {
	return &fakeChunkRepo{chunks: make(map[int64]*structs.Chunk)}
}

func (r *fakeChunkRepo) Create(_ context.Context, chunk *structs.Chunk) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	chunk.ID = r.nextID
	cp := *chunk
	r.chunks[chunk.ID] = &cp
	return nil
}

func (r *fakeChunkRepo) ListAll(_ context.Context) ([]*structs.Chunk, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*structs.Chunk
	for _, c := range r.chunks {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeChunkRepo) DeleteBySource(_ context.Context, source string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.chunks {
		if c.Source == source {
			delete(r.chunks, id)
		}
	}
	return nil
}

func (r *fakeChunkRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.chunks)), nil
}

type fakeEmailSender struct {
	mu    sync.Mutex
	sent  []string // recipient addresses
	links []string
}

func (s *fakeEmailSender) SendPasswordReset(_ context.Context, to, resetURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, to)
	s.links = append(s.links, resetURL)
	return nil
}
