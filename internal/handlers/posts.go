// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"inkpress/internal/cache"
	"inkpress/internal/models"
	"inkpress/internal/slug"
	"inkpress/internal/store"
)

// PostStore is the persistence the post handlers need. *store.PostStore
// satisfies it.
type PostStore interface {
	Create(ctx context.Context, in store.PostInput) (*models.Post, error)
	Update(ctx context.Context, id int64, in store.PostInput) (*models.Post, error)
	SetPublished(ctx context.Context, id int64, published bool) (*models.Post, error)
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*models.Post, error)
	FindPublishedBySlug(ctx context.Context, slug string) (*models.Post, error)
	ListPublished(ctx context.Context, params store.ListParams) (models.PostListResult, error)
	ListAll(ctx context.Context) ([]models.Post, error)
}

// CacheLogger records listing-cache purges. *store.CacheLogStore satisfies it.
type CacheLogger interface {
	Log(ctx context.Context, entityType string, entityID int64, action string)
	RecentEntries(ctx context.Context, limit int) ([]store.CacheLogEntry, error)
}

// Posts serves the public listing and the post authoring endpoints.
type Posts struct {
	store         PostStore
	listCache     *cache.ListCache
	cacheLog      CacheLogger
	defaultAuthor string
}

// NewPosts creates a new Posts handler group. listCache and cacheLog may be
// nil.
func NewPosts(posts PostStore, listCache *cache.ListCache, cacheLog CacheLogger, defaultAuthor string) *Posts {
	if defaultAuthor == "" {
		defaultAuthor = store.DefaultAuthorName
	}
	return &Posts{
		store:         posts,
		listCache:     listCache,
		cacheLog:      cacheLog,
		defaultAuthor: defaultAuthor,
	}
}

// postRequest is the body of create and update requests. Slug is generated
// from Title when omitted.
type postRequest struct {
	Title       string  `json:"title" validate:"required,max=256"`
	Content     *string `json:"content" validate:"omitempty,max=200000"`
	Slug        string  `json:"slug" validate:"required,min=2,max=256,slug"`
	Published   bool    `json:"published"`
	AuthorName  string  `json:"authorName" validate:"max=256"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,http_url"`
	CategoryIDs []int64 `json:"categoryIds" validate:"max=50,dive,gt=0"`
}

// normalize trims text fields and fills in derived defaults.
func (req *postRequest) normalize(defaultAuthor string) {
	req.Title = strings.TrimSpace(req.Title)
	req.Slug = strings.TrimSpace(req.Slug)
	if req.Slug == "" {
		req.Slug = slug.Generate(req.Title)
	}
	req.AuthorName = strings.TrimSpace(req.AuthorName)
	if req.AuthorName == "" {
		req.AuthorName = defaultAuthor
	}
	if req.ImageURL != nil && strings.TrimSpace(*req.ImageURL) == "" {
		req.ImageURL = nil
	}
}

func (req *postRequest) input() store.PostInput {
	return store.PostInput{
		Title:       req.Title,
		Content:     req.Content,
		Slug:        req.Slug,
		Published:   req.Published,
		AuthorName:  req.AuthorName,
		ImageURL:    req.ImageURL,
		CategoryIDs: req.CategoryIDs,
	}
}

// publishRequest is the body of the publish toggle.
type publishRequest struct {
	Published *bool `json:"published" validate:"required"`
}

// parseListParams reads category, search, page and limit from the query
// string. Missing page and limit take their defaults.
func parseListParams(q url.Values) (store.ListParams, map[string]string) {
	params := store.ListParams{
		CategorySlug: q.Get("category"),
		Search:       q.Get("search"),
		Page:         store.DefaultPage,
		Limit:        store.DefaultLimit,
	}

	fields := map[string]string{}
	for name, dst := range map[string]*int{"page": &params.Page, "limit": &params.Limit} {
		raw := strings.TrimSpace(q.Get(name))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			fields[name] = "must be an integer"
			continue
		}
		*dst = n
	}
	if len(fields) > 0 {
		return params, fields
	}
	return params, nil
}

// List serves the public, paginated listing of published posts. Responses
// are cached per normalized parameter set.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	params, fields := parseListParams(r.URL.Query())
	if fields != nil {
		writeValidation(w, fields)
		return
	}
	if err := params.Validate(); err != nil {
		writeStoreError(w, r, err, "posts")
		return
	}

	ctx := r.Context()
	key := params.CacheKey()
	// The generation is read before the query so a page computed across a
	// purge is stored under a generation no reader asks for again.
	gen, cacheable := h.listCache.Generation(ctx)
	if cacheable {
		if data, ok := h.listCache.Get(ctx, gen, key); ok {
			w.Header().Set("X-Cache", "HIT")
			writeRawJSON(w, http.StatusOK, data)
			return
		}
	}

	result, err := h.store.ListPublished(ctx, params)
	if err != nil {
		writeStoreError(w, r, err, "posts")
		return
	}

	w.Header().Set("X-Cache", "MISS")
	if !cacheable {
		writeJSON(w, http.StatusOK, result)
		return
	}
	data, err := h.listCache.SetJSON(ctx, gen, key, result)
	if err != nil {
		writeStoreError(w, r, err, "posts")
		return
	}
	writeRawJSON(w, http.StatusOK, data)
}

// GetBySlug serves a single published post.
func (h *Posts) GetBySlug(w http.ResponseWriter, r *http.Request) {
	post, err := h.store.FindPublishedBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeStoreError(w, r, err, "post")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// Dashboard lists every post, drafts included.
func (h *Posts) Dashboard(w http.ResponseWriter, r *http.Request) {
	posts, err := h.store.ListAll(r.Context())
	if err != nil {
		writeStoreError(w, r, err, "posts")
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// Get serves one post by id, drafts included, for the edit form.
func (h *Posts) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid post id")
		return
	}
	post, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err, "post")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// Create handles POST /api/posts.
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.normalize(h.defaultAuthor)
	if fields := validationFields(&req); fields != nil {
		writeValidation(w, fields)
		return
	}

	post, err := h.store.Create(r.Context(), req.input())
	if err != nil {
		writeStoreError(w, r, err, "post")
		return
	}

	h.invalidate(r.Context(), post.ID, store.ActionCreate)
	slog.Info("post created", "id", post.ID, "slug", post.Slug, "published", post.Published)
	writeJSON(w, http.StatusCreated, post)
}

// Update handles PUT /api/posts/{id}. Categories are replaced wholesale.
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	var req postRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.normalize(h.defaultAuthor)
	if fields := validationFields(&req); fields != nil {
		writeValidation(w, fields)
		return
	}

	post, err := h.store.Update(r.Context(), id, req.input())
	if err != nil {
		writeStoreError(w, r, err, "post")
		return
	}

	h.invalidate(r.Context(), post.ID, store.ActionUpdate)
	slog.Info("post updated", "id", post.ID, "slug", post.Slug)
	writeJSON(w, http.StatusOK, post)
}

// SetPublished handles PATCH /api/posts/{id}/published.
func (h *Posts) SetPublished(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	var req publishRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if fields := validationFields(&req); fields != nil {
		writeValidation(w, fields)
		return
	}

	post, err := h.store.SetPublished(r.Context(), id, *req.Published)
	if err != nil {
		writeStoreError(w, r, err, "post")
		return
	}

	h.invalidate(r.Context(), post.ID, store.ActionPublish)
	slog.Info("post publish state changed", "id", post.ID, "published", post.Published)
	writeJSON(w, http.StatusOK, post)
}

// Delete handles DELETE /api/posts/{id}.
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		writeStoreError(w, r, err, "post")
		return
	}

	h.invalidate(r.Context(), id, store.ActionDelete)
	slog.Info("post deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// invalidate drops every cached listing page and records why.
func (h *Posts) invalidate(ctx context.Context, id int64, action string) {
	purgeListings(ctx, h.listCache, h.cacheLog, store.EntityPost, id, action)
}

// purgeListings is shared by post and category mutations. It runs after the
// mutation has committed, so it must finish even if the client has gone.
func purgeListings(ctx context.Context, lc *cache.ListCache, log CacheLogger, entity string, id int64, action string) {
	ctx = context.WithoutCancel(ctx)
	lc.InvalidateAll(ctx)
	if log != nil {
		log.Log(ctx, entity, id, action)
	}
}
