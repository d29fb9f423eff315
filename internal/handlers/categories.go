// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"inkpress/internal/cache"
	"inkpress/internal/models"
	"inkpress/internal/slug"
	"inkpress/internal/store"
)

// CategoryStore is the persistence the category handlers need.
// *store.CategoryStore satisfies it.
type CategoryStore interface {
	List(ctx context.Context) ([]models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) (*models.Category, error)
	Update(ctx context.Context, id int64, patch store.CategoryPatch) (*models.Category, error)
	Delete(ctx context.Context, id int64) error
}

// Categories serves category CRUD.
type Categories struct {
	store     CategoryStore
	listCache *cache.ListCache
	cacheLog  CacheLogger
}

// NewCategories creates a new Categories handler group.
func NewCategories(categories CategoryStore, listCache *cache.ListCache, cacheLog CacheLogger) *Categories {
	return &Categories{store: categories, listCache: listCache, cacheLog: cacheLog}
}

// categoryRequest is the body of a create request. Slug is generated from
// Name when omitted.
type categoryRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=256"`
	Slug        string  `json:"slug" validate:"required,min=2,max=256,slug"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// categoryPatchRequest is the body of a partial update; absent fields are
// left unchanged.
type categoryPatchRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=256"`
	Slug        *string `json:"slug" validate:"omitempty,min=2,max=256,slug"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// List returns all categories ordered by name.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List(r.Context())
	if err != nil {
		writeStoreError(w, r, err, "categories")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// GetBySlug returns one category.
func (h *Categories) GetBySlug(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.FindBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeStoreError(w, r, err, "category")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Create handles POST /api/categories.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Slug = strings.TrimSpace(req.Slug)
	if req.Slug == "" {
		req.Slug = slug.Generate(req.Name)
	}
	if fields := validationFields(&req); fields != nil {
		writeValidation(w, fields)
		return
	}

	c, err := h.store.Create(r.Context(), &models.Category{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		writeStoreError(w, r, err, "category")
		return
	}

	purgeListings(r.Context(), h.listCache, h.cacheLog, store.EntityCategory, c.ID, store.ActionCreate)
	slog.Info("category created", "id", c.ID, "slug", c.Slug)
	writeJSON(w, http.StatusCreated, c)
}

// Update handles PUT /api/categories/{id} as a partial update.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	var req categoryPatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Name = trimPtr(req.Name)
	req.Slug = trimPtr(req.Slug)
	if fields := validationFields(&req); fields != nil {
		writeValidation(w, fields)
		return
	}

	patch := store.CategoryPatch{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	}
	c, err := h.store.Update(r.Context(), id, patch)
	if err != nil {
		writeStoreError(w, r, err, "category")
		return
	}

	// An empty patch only confirms the category exists.
	if !patch.Empty() {
		purgeListings(r.Context(), h.listCache, h.cacheLog, store.EntityCategory, c.ID, store.ActionUpdate)
	}
	slog.Info("category updated", "id", c.ID, "slug", c.Slug)
	writeJSON(w, http.StatusOK, c)
}

// Delete handles DELETE /api/categories/{id}. Posts in the category are
// kept; only their membership rows go.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		writeStoreError(w, r, err, "category")
		return
	}

	purgeListings(r.Context(), h.listCache, h.cacheLog, store.EntityCategory, id, store.ActionDelete)
	slog.Info("category deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}
