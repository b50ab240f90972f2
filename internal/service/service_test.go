package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/quillhub/blog-service/internal/identity"
	"github.com/quillhub/blog-service/internal/model"
	"github.com/quillhub/blog-service/internal/repository"
	"github.com/quillhub/blog-service/internal/repository/postgres"
	"github.com/quillhub/blog-service/internal/repository/redisrepo"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func newTestService(posts *memPostRepo, gateway identity.Gateway) *Service {
	repos := &repository.Repository{
		Postgres: &postgres.PostgresRepository{Post: posts},
		Redis:    &redisrepo.RedisRepository{Default: newMemCache()},
	}
	return New(zap.NewNop(), repos, gateway)
}

type memPostRow struct {
	doc       model.PostDocument
	createdAt time.Time
}

type memPostRepo struct {
	mu    sync.Mutex
	rows  map[uuid.UUID]*memPostRow
	clock time.Time
}

func newMemPostRepo() *memPostRepo {
	return &memPostRepo{
		rows:  make(map[uuid.UUID]*memPostRow),
		clock: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (m *memPostRepo) Create(_ context.Context, doc model.PostDocument) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.clock = m.clock.Add(time.Minute)
	id := uuid.New()
	m.rows[id] = &memPostRow{doc: doc, createdAt: m.clock}
	return id, nil
}

func (m *memPostRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	createdAt := row.createdAt
	return &model.Post{
		ID:        id,
		Title:     row.doc.Title,
		Content:   row.doc.Content,
		Author:    row.doc.Author,
		CreatedAt: &createdAt,
	}, nil
}

func (m *memPostRepo) FindAll(ctx context.Context) ([]*model.Post, error) {
	m.mu.Lock()
	ids := make([]uuid.UUID, 0, len(m.rows))
	for id := range m.rows {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	var posts []*model.Post
	for _, id := range ids {
		post, err := m.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(*posts[j].CreatedAt)
	})
	return posts, nil
}

func (m *memPostRepo) Update(_ context.Context, id uuid.UUID, doc model.PostDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.rows[id]
	if !ok {
		return pgx.ErrNoRows
	}
	row.doc = doc
	return nil
}

func (m *memPostRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.rows, id)
	return nil
}

type memCache struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemCache() *memCache {
	return &memCache{values: make(map[string]string)}
}

func (m *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = fmt.Sprintf("%v", value)
	return nil
}

func (m *memCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = string(data)
	return nil
}

func (m *memCache) Get(_ context.Context, key string) *redis.StringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	value, ok := m.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func (m *memCache) Del(_ context.Context, keys ...string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	var deleted int64
	for _, key := range keys {
		if _, ok := m.values[key]; ok {
			delete(m.values, key)
			deleted++
		}
	}
	return redis.NewIntResult(deleted, nil)
}

type stubGateway struct {
	verifyErr   error
	getByUIDErr error
	id          *model.Identity
	createCalls int
	getUIDCalls int
}

func (s *stubGateway) CreateAccount(context.Context, string, string) (*model.Identity, error) {
	s.createCalls++
	return s.id, nil
}

func (s *stubGateway) GetByEmail(context.Context, string) (*model.Identity, error) {
	if s.id == nil {
		return nil, identity.ErrUserNotFound
	}
	return s.id, nil
}

func (s *stubGateway) GetByUID(context.Context, string) (*model.Identity, error) {
	s.getUIDCalls++
	if s.getByUIDErr != nil {
		return nil, s.getByUIDErr
	}
	return s.id, nil
}

func (s *stubGateway) VerifyPassword(context.Context, string, string) (*model.Identity, error) {
	if s.verifyErr != nil {
		return nil, s.verifyErr
	}
	return s.id, nil
}
