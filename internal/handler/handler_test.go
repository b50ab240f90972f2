package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/quillhub/blog-service/internal/identity"
	"github.com/quillhub/blog-service/internal/model"
	"github.com/quillhub/blog-service/internal/repository"
	"github.com/quillhub/blog-service/internal/repository/postgres"
	"github.com/quillhub/blog-service/internal/repository/redisrepo"
	"github.com/quillhub/blog-service/internal/service"
	"github.com/quillhub/blog-service/pkg/utils"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSessionSecret = "test-session-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router  *gin.Engine
	posts   *fakePostRepo
	gateway *fakeGateway
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	posts := newFakePostRepo()
	gateway := newFakeGateway()
	repos := &repository.Repository{
		Postgres: &postgres.PostgresRepository{Post: posts},
		Redis:    &redisrepo.RedisRepository{Default: newFakeCache()},
	}
	services := service.New(zap.NewNop(), repos, gateway)
	h := New(services, []byte(testSessionSecret))

	return &testEnv{
		router:  h.InitRoutes("../../web/templates/*.html"),
		posts:   posts,
		gateway: gateway,
	}
}

func doRequest(t *testing.T, router *gin.Engine, method string, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sessionCookieFor(t *testing.T, uid string) *http.Cookie {
	t.Helper()

	token, err := utils.GenerateJWT(jwt.MapClaims{
		"uid": uid,
		"exp": time.Now().Add(time.Hour).Unix(),
	}, []byte(testSessionSecret))
	require.NoError(t, err)

	return &http.Cookie{Name: sessionCookie, Value: token}
}

// --- fakes -----------------------------------------------------------------

type fakePostRow struct {
	doc       model.PostDocument
	createdAt time.Time
	updatedAt time.Time
}

type fakePostRepo struct {
	mu       sync.Mutex
	rows     map[uuid.UUID]*fakePostRow
	clock    time.Time
	failWith error
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{
		rows:  make(map[uuid.UUID]*fakePostRow),
		clock: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fakePostRepo) Create(_ context.Context, doc model.PostDocument) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return uuid.Nil, f.failWith
	}

	f.clock = f.clock.Add(time.Minute)
	id := uuid.New()
	f.rows[id] = &fakePostRow{doc: doc, createdAt: f.clock, updatedAt: f.clock}
	return id, nil
}

func (f *fakePostRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return nil, f.failWith
	}

	row, ok := f.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return row.toPost(id), nil
}

func (f *fakePostRepo) FindAll(_ context.Context) ([]*model.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return nil, f.failWith
	}

	var posts []*model.Post
	for id, row := range f.rows {
		posts = append(posts, row.toPost(id))
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(*posts[j].CreatedAt)
	})
	return posts, nil
}

func (f *fakePostRepo) Update(_ context.Context, id uuid.UUID, doc model.PostDocument) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return f.failWith
	}

	row, ok := f.rows[id]
	if !ok {
		return pgx.ErrNoRows
	}
	f.clock = f.clock.Add(time.Minute)
	row.doc = doc
	row.updatedAt = f.clock
	return nil
}

func (f *fakePostRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return f.failWith
	}

	if _, ok := f.rows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.rows, id)
	return nil
}

func (f *fakePostRepo) get(id uuid.UUID) *fakePostRow {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[id]
}

func (row *fakePostRow) toPost(id uuid.UUID) *model.Post {
	createdAt := row.createdAt
	updatedAt := row.updatedAt

	post := &model.Post{
		ID:        id,
		Title:     row.doc.Title,
		Content:   row.doc.Content,
		Author:    row.doc.Author,
		CreatedAt: &createdAt,
		UpdatedAt: &updatedAt,
		Timestamp: row.doc.Timestamp,
	}
	if post.Title == "" {
		post.Title = "No Title"
	}
	if post.Content == "" {
		post.Content = "No Content"
	}
	if post.Author == "" {
		post.Author = "Anonymous"
	}
	return post
}

func (e *testEnv) seedPost(t *testing.T, title string, content string, author string) uuid.UUID {
	t.Helper()

	id, err := e.posts.Create(context.Background(), model.PostDocument{
		Title:   title,
		Content: content,
		Author:  author,
	})
	require.NoError(t, err)
	return id
}

type fakeAccount struct {
	uid      string
	password string
}

type fakeGateway struct {
	mu          sync.Mutex
	accounts    map[string]fakeAccount
	createCalls int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{accounts: make(map[string]fakeAccount)}
}

func (g *fakeGateway) addAccount(email string, password string) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	uid := fmt.Sprintf("uid-%d", len(g.accounts)+1)
	g.accounts[email] = fakeAccount{uid: uid, password: password}
	return uid
}

func (g *fakeGateway) CreateAccount(_ context.Context, email string, password string) (*model.Identity, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.createCalls++
	if !strings.Contains(email, "@") {
		return nil, identity.ErrInvalidEmail
	}
	if _, ok := g.accounts[email]; ok {
		return nil, identity.ErrEmailExists
	}

	uid := fmt.Sprintf("uid-%d", len(g.accounts)+1)
	g.accounts[email] = fakeAccount{uid: uid, password: password}
	return &model.Identity{UID: uid, Email: email}, nil
}

func (g *fakeGateway) GetByEmail(_ context.Context, email string) (*model.Identity, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	account, ok := g.accounts[email]
	if !ok {
		return nil, identity.ErrUserNotFound
	}
	return &model.Identity{UID: account.uid, Email: email}, nil
}

func (g *fakeGateway) GetByUID(_ context.Context, uid string) (*model.Identity, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for email, account := range g.accounts {
		if account.uid == uid {
			return &model.Identity{UID: uid, Email: email}, nil
		}
	}
	return nil, identity.ErrUserNotFound
}

func (g *fakeGateway) VerifyPassword(_ context.Context, email string, password string) (*model.Identity, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	account, ok := g.accounts[email]
	if !ok {
		return nil, identity.ErrUserNotFound
	}
	if account.password != password {
		return nil, identity.ErrInvalidCredentials
	}
	return &model.Identity{UID: account.uid, Email: email}, nil
}

type fakeCache struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (f *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = fmt.Sprintf("%v", value)
	return nil
}

func (f *fakeCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = string(data)
	return nil
}

func (f *fakeCache) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	value, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func (f *fakeCache) Del(_ context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	var deleted int64
	for _, key := range keys {
		if _, ok := f.values[key]; ok {
			delete(f.values, key)
			deleted++
		}
	}
	return redis.NewIntResult(deleted, nil)
}
