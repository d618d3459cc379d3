package handler

import (
	"net/http"

	"github.com/wadjakorntonsri/linkshelf/pkg/core/domain"
)

type createCategoryRequest struct {
	Name      string `json:"name"`
	SectionID *int64 `json:"section_id"`
}

type reorderCategoriesRequest struct {
	Categories []domain.OrderItem `json:"categories"`
}

// moveCategoryRequest: a null or missing section_id means "no section".
type moveCategoryRequest struct {
	SectionID *int64 `json:"section_id"`
}

func (h *HTTPHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req createCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	category, err := h.service.CreateCategory(r.Context(), userID, req.Name, req.SectionID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

func (h *HTTPHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req nameRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	category, err := h.service.RenameCategory(r.Context(), userID, id, req.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (h *HTTPHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteCategory(r.Context(), userID, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w)
}

func (h *HTTPHandler) ReorderCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req reorderCategoriesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.ReorderCategories(r.Context(), userID, req.Categories); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w)
}

func (h *HTTPHandler) MoveCategoryToSection(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req moveCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	category, err := h.service.MoveCategoryToSection(r.Context(), userID, id, req.SectionID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}
