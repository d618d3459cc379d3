// Package mcp exposes one user's organizer to MCP clients.
package mcp

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/server"
	"github.com/wadjakorntonsri/linkshelf/pkg/core/domain"
	"github.com/wadjakorntonsri/linkshelf/pkg/ports"
)

// MCPServer binds the organizer service to a single user.
type MCPServer struct {
	service   ports.OrganizerService
	userID    int64
	mcpServer *server.MCPServer
}

func NewMCPServer(service ports.OrganizerService, userID int64, version string) *MCPServer {
	s := &MCPServer{
		service: service,
		userID:  userID,
	}

	s.mcpServer = server.NewMCPServer(
		"linkshelf",
		version,
		server.WithResourceCapabilities(true, false),
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.registerTools()
	s.registerResources()

	return s
}

// Server returns the underlying MCP server
func (s *MCPServer) Server() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio blocks serving requests on stdin/stdout.
func (s *MCPServer) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// formatTree renders the tree as markdown, in display order.
func formatTree(tree *domain.Tree) string {
	var b strings.Builder
	b.WriteString("# Organizer\n")

	for _, sec := range tree.Sections {
		fmt.Fprintf(&b, "\n## %s\n", sec.Name)
		if len(sec.Categories) == 0 {
			b.WriteString("\n_No categories._\n")
		}
		for _, c := range sec.Categories {
			writeCategory(&b, "###", c)
		}
	}

	if len(tree.CategoriesWithoutSection) > 0 {
		b.WriteString("\n## Without section\n")
		for _, c := range tree.CategoriesWithoutSection {
			writeCategory(&b, "###", c)
		}
	}

	if len(tree.Sections) == 0 && len(tree.CategoriesWithoutSection) == 0 {
		b.WriteString("\nNo categories yet.\n")
	}
	return b.String()
}

func writeCategory(b *strings.Builder, heading string, c domain.Category) {
	fmt.Fprintf(b, "\n%s %s (category %d)\n", heading, c.Name, c.ID)
	if len(c.Bookmarks) == 0 {
		b.WriteString("\n_Empty._\n")
		return
	}
	b.WriteString("\n")
	for _, bm := range c.Bookmarks {
		writeBookmark(b, bm)
	}
}

func writeBookmark(b *strings.Builder, bm domain.Bookmark) {
	pin := ""
	if bm.Pinned {
		pin = " 📌"
	}
	fmt.Fprintf(b, "- [%d] %s%s", bm.ID, bm.URL, pin)
	if bm.Description != nil {
		fmt.Fprintf(b, " | %s", *bm.Description)
	}
	b.WriteString("\n")
}

// formatPinned renders the pinned view as markdown.
func formatPinned(bookmarks []domain.Bookmark) string {
	if len(bookmarks) == 0 {
		return "# Pinned bookmarks\n\nNothing pinned."
	}

	var b strings.Builder
	b.WriteString("# Pinned bookmarks\n\n")
	fmt.Fprintf(&b, "%d pinned\n\n", len(bookmarks))
	for _, bm := range bookmarks {
		writeBookmark(&b, bm)
	}
	return b.String()
}
