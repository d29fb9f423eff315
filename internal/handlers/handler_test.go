// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides in-memory fakes and request helpers shared by the
// handler tests. Tests that need Valkey are skipped when it is unavailable.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"inkpress/internal/cache"
	"inkpress/internal/models"
	"inkpress/internal/store"
)

var fixedTime = time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

// fakePostStore implements PostStore in memory and records the inputs it
// receives.
type fakePostStore struct {
	mu         sync.Mutex
	posts      map[int64]*models.Post
	nextID     int64
	listCalls  int
	lastParams store.ListParams
	lastInput  store.PostInput
	err        error
	listResult models.PostListResult
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{posts: map[int64]*models.Post{}, nextID: 1}
}

func (f *fakePostStore) toPost(id int64, in store.PostInput) *models.Post {
	cats := []models.Category{}
	for _, cid := range in.CategoryIDs {
		cats = append(cats, models.Category{ID: cid, Name: fmt.Sprintf("Cat %d", cid), Slug: fmt.Sprintf("cat-%d", cid)})
	}
	return &models.Post{
		ID: id, Title: in.Title, Content: in.Content, Slug: in.Slug,
		Published: in.Published, AuthorName: in.AuthorName, ImageURL: in.ImageURL,
		CreatedAt: fixedTime, UpdatedAt: fixedTime, Categories: cats,
	}
}

func (f *fakePostStore) Create(_ context.Context, in store.PostInput) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastInput = in
	if f.err != nil {
		return nil, f.err
	}
	p := f.toPost(f.nextID, in)
	f.posts[p.ID] = p
	f.nextID++
	return p, nil
}

func (f *fakePostStore) Update(_ context.Context, id int64, in store.PostInput) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastInput = in
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.posts[id]; !ok {
		return nil, fmt.Errorf("post %d: %w", id, store.ErrNotFound)
	}
	p := f.toPost(id, in)
	f.posts[id] = p
	return p, nil
}

func (f *fakePostStore) SetPublished(_ context.Context, id int64, published bool) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return nil, fmt.Errorf("post %d: %w", id, store.ErrNotFound)
	}
	p.Published = published
	return p, nil
}

func (f *fakePostStore) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[id]; !ok {
		return fmt.Errorf("post %d: %w", id, store.ErrNotFound)
	}
	delete(f.posts, id)
	return nil
}

func (f *fakePostStore) FindByID(_ context.Context, id int64) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return nil, fmt.Errorf("post %d: %w", id, store.ErrNotFound)
	}
	return p, nil
}

func (f *fakePostStore) FindPublishedBySlug(_ context.Context, slug string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.posts {
		if p.Slug == slug && p.Published {
			return p, nil
		}
	}
	return nil, fmt.Errorf("post %q: %w", slug, store.ErrNotFound)
}

func (f *fakePostStore) ListPublished(_ context.Context, params store.ListParams) (models.PostListResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	f.lastParams = params
	if f.err != nil {
		return models.PostListResult{}, f.err
	}
	if f.listResult.Posts != nil {
		return f.listResult, nil
	}
	return models.NewPostListResult(nil, 0, params.Page, params.Limit), nil
}

func (f *fakePostStore) ListAll(_ context.Context) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := []models.Post{}
	for _, p := range f.posts {
		out = append(out, *p)
	}
	return out, nil
}

// fakeCategoryStore implements CategoryStore in memory.
type fakeCategoryStore struct {
	mu        sync.Mutex
	items     map[int64]*models.Category
	nextID    int64
	lastPatch store.CategoryPatch
	err       error
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{items: map[int64]*models.Category{}, nextID: 1}
}

func (f *fakeCategoryStore) List(_ context.Context) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Category{}
	for _, c := range f.items {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCategoryStore) FindBySlug(_ context.Context, slug string) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.items {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, fmt.Errorf("category %q: %w", slug, store.ErrNotFound)
}

func (f *fakeCategoryStore) Create(_ context.Context, c *models.Category) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	created := *c
	created.ID = f.nextID
	f.nextID++
	f.items[created.ID] = &created
	return &created, nil
}

func (f *fakeCategoryStore) Update(_ context.Context, id int64, patch store.CategoryPatch) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastPatch = patch
	c, ok := f.items[id]
	if !ok {
		return nil, fmt.Errorf("category %d: %w", id, store.ErrNotFound)
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Slug != nil {
		c.Slug = *patch.Slug
	}
	if patch.Description != nil {
		c.Description = patch.Description
	}
	return c, nil
}

func (f *fakeCategoryStore) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return fmt.Errorf("category %d: %w", id, store.ErrNotFound)
	}
	delete(f.items, id)
	return nil
}

// fakeCacheLog records Log calls.
type fakeCacheLog struct {
	mu      sync.Mutex
	entries []store.CacheLogEntry
}

func (f *fakeCacheLog) Log(_ context.Context, entityType string, entityID int64, action string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, store.CacheLogEntry{
		ID: int64(len(f.entries) + 1), EntityType: entityType, EntityID: entityID,
		Action: action, InvalidatedAt: fixedTime,
	})
}

func (f *fakeCacheLog) RecentEntries(_ context.Context, limit int) ([]store.CacheLogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if limit > len(f.entries) {
		limit = len(f.entries)
	}
	return append([]store.CacheLogEntry{}, f.entries[:limit]...), nil
}

func (f *fakeCacheLog) last() store.CacheLogEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.entries) == 0 {
		return store.CacheLogEntry{}
	}
	return f.entries[len(f.entries)-1]
}

// withURLParams attaches chi route parameters to a request so handlers can
// be called directly.
func withURLParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// jsonRequest builds a request with a JSON body.
func jsonRequest(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// decodeBody unmarshals a recorder body into a generic map.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return m
}

// errorFields extracts the "fields" map of a validation response.
func errorFields(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	body := decodeBody(t, w)
	fields, _ := body["fields"].(map[string]any)
	return fields
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:     envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "posts:*").Result()
		client.Del(ctx, append(keys, cache.GenerationKey)...)
		client.Close()
	})

	return client
}
