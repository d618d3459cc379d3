package handler

import (
	"net/http"

	"github.com/wadjakorntonsri/linkshelf/pkg/core/domain"
	"github.com/wadjakorntonsri/linkshelf/pkg/ports"
)

type HTTPHandler struct {
	service ports.OrganizerService
}

func NewHTTPHandler(service ports.OrganizerService) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type nameRequest struct {
	Name string `json:"name"`
}

type themeRequest struct {
	Theme string `json:"theme"`
}

type pinnedResponse struct {
	Bookmarks []domain.Bookmark `json:"bookmarks"`
}

// currentUser reads the id put in the context by AuthMiddleware.
func currentUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeServiceError(w, r, domain.ErrUnauthenticated)
		return 0, false
	}
	return userID, true
}

// Tree returns sections with their categories and bookmarks, section-less
// categories, the pinned view and the theme.
func (h *HTTPHandler) Tree(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	tree, err := h.service.GetTree(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

func (h *HTTPHandler) Pinned(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	pinned, err := h.service.PinnedBookmarks(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pinnedResponse{Bookmarks: pinned})
}

func (h *HTTPHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	settings, err := h.service.GetSettings(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *HTTPHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req themeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	settings, err := h.service.UpdateTheme(r.Context(), userID, req.Theme)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}
