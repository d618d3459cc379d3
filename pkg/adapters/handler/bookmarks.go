package handler

import (
	"net/http"

	"github.com/wadjakorntonsri/linkshelf/pkg/core/domain"
)

type createBookmarkRequest struct {
	CategoryID  int64   `json:"category_id"`
	URL         string  `json:"url"`
	Description *string `json:"description"`
	FaviconURL  *string `json:"favicon_url"`
}

type reorderBookmarksRequest struct {
	Bookmarks []domain.OrderItem `json:"bookmarks"`
}

func (h *HTTPHandler) CreateBookmark(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req createBookmarkRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	bookmark, err := h.service.CreateBookmark(r.Context(), userID, req.CategoryID, req.URL, req.Description, req.FaviconURL)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, bookmark)
}

// UpdateBookmark takes a partial body; fields left out are not changed and
// an explicit null clears description or favicon_url.
func (h *HTTPHandler) UpdateBookmark(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var patch domain.BookmarkPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	bookmark, err := h.service.UpdateBookmark(r.Context(), userID, id, patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookmark)
}

func (h *HTTPHandler) DeleteBookmark(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteBookmark(r.Context(), userID, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w)
}

func (h *HTTPHandler) ReorderBookmarks(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req reorderBookmarksRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.ReorderBookmarks(r.Context(), userID, req.Bookmarks); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w)
}
