package handler

import (
	"net/http"

	"github.com/wadjakorntonsri/linkshelf/pkg/core/domain"
)

type reorderSectionsRequest struct {
	Sections []domain.OrderItem `json:"sections"`
}

func (h *HTTPHandler) CreateSection(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req nameRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	section, err := h.service.CreateSection(r.Context(), userID, req.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, section)
}

func (h *HTTPHandler) UpdateSection(w http.ResponseWriter, r *http.Request) {
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

	section, err := h.service.RenameSection(r.Context(), userID, id, req.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, section)
}

func (h *HTTPHandler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteSection(r.Context(), userID, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w)
}

func (h *HTTPHandler) ReorderSections(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req reorderSectionsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.ReorderSections(r.Context(), userID, req.Sections); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w)
}
