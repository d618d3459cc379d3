package mcp

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
	"github.com/wadjakorntonsri/linkshelf/pkg/core/domain"
	"github.com/wadjakorntonsri/linkshelf/pkg/core/validation"
)

func (s *MCPServer) registerTools() {
	treeTool := mcp.NewTool("get_tree",
		mcp.WithDescription("List all sections, categories and bookmarks in display order"),
	)
	s.mcpServer.AddTool(treeTool, s.handleGetTree)

	pinnedTool := mcp.NewTool("get_pinned_bookmarks",
		mcp.WithDescription("List pinned bookmarks"),
	)
	s.mcpServer.AddTool(pinnedTool, s.handleGetPinned)

	addTool := mcp.NewTool("add_bookmark",
		mcp.WithDescription("Add a bookmark at the end of a category. A missing scheme defaults to https."),
		mcp.WithNumber("category_id",
			mcp.Required(),
			mcp.Description("Category id, as shown by get_tree"),
		),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Bookmark URL"),
		),
		mcp.WithString("description",
			mcp.Description("Optional short description"),
		),
	)
	s.mcpServer.AddTool(addTool, s.handleAddBookmark)

	pinTool := mcp.NewTool("set_pinned",
		mcp.WithDescription("Pin or unpin a bookmark. Its category and position do not change."),
		mcp.WithNumber("bookmark_id",
			mcp.Required(),
			mcp.Description("Bookmark id"),
		),
		mcp.WithBoolean("pinned",
			mcp.Required(),
			mcp.Description("true to pin, false to unpin"),
		),
	)
	s.mcpServer.AddTool(pinTool, s.handleSetPinned)
}

func (s *MCPServer) handleGetTree(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tree, err := s.service.GetTree(ctx, s.userID)
	if err != nil {
		return toolError(ctx, "get tree", err), nil
	}
	return mcp.NewToolResultText(formatTree(tree)), nil
}

func (s *MCPServer) handleGetPinned(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pinned, err := s.service.PinnedBookmarks(ctx, s.userID)
	if err != nil {
		return toolError(ctx, "get pinned bookmarks", err), nil
	}
	return mcp.NewToolResultText(formatPinned(pinned)), nil
}

func (s *MCPServer) handleAddBookmark(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	categoryID := int64(request.GetFloat("category_id", 0))
	rawURL := request.GetString("url", "")
	if categoryID <= 0 || rawURL == "" {
		return mcp.NewToolResultError("category_id and url parameters required"), nil
	}

	var description *string
	if d := request.GetString("description", ""); d != "" {
		description = &d
	}

	// Clients rarely know a favicon; derive one from the host.
	var favicon *string
	if normalized, err := validation.NormalizeBookmarkURL(rawURL); err == nil {
		if derived := validation.FaviconFor(normalized); derived != "" {
			favicon = &derived
		}
	}

	bookmark, err := s.service.CreateBookmark(ctx, s.userID, categoryID, rawURL, description, favicon)
	if err != nil {
		return toolError(ctx, "add bookmark", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Added bookmark %d: %s", bookmark.ID, bookmark.URL)), nil
}

func (s *MCPServer) handleSetPinned(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	bookmarkID := int64(request.GetFloat("bookmark_id", 0))
	if bookmarkID <= 0 {
		return mcp.NewToolResultError("bookmark_id parameter required"), nil
	}
	pinned := request.GetBool("pinned", true)

	bookmark, err := s.service.UpdateBookmark(ctx, s.userID, bookmarkID, domain.BookmarkPatch{Pinned: &pinned})
	if err != nil {
		return toolError(ctx, "set pinned", err), nil
	}

	state := "unpinned"
	if bookmark.Pinned {
		state = "pinned"
	}
	return mcp.NewToolResultText(fmt.Sprintf("Bookmark %d is now %s", bookmark.ID, state)), nil
}

// toolError reports a failure to the client without leaking storage
// details.
func toolError(ctx context.Context, action string, err error) *mcp.CallToolResult {
	var verr *domain.ValidationError
	var rule *domain.BusinessRuleError
	switch {
	case errors.As(err, &verr):
		keys := make([]string, 0, len(verr.Fields))
		for k := range verr.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+verr.Fields[k])
		}
		return mcp.NewToolResultError("invalid input: " + strings.Join(parts, "; "))
	case errors.Is(err, domain.ErrNotFound):
		return mcp.NewToolResultError("not found")
	case errors.As(err, &rule):
		return mcp.NewToolResultError(rule.Message)
	default:
		zerolog.Ctx(ctx).Error().Err(err).Str("action", action).Msg("mcp tool failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to %s", action))
	}
}
