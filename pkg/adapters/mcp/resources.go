package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

const treeResourceURI = "organizer://tree"

func (s *MCPServer) registerResources() {
	treeResource := mcp.NewResource(treeResourceURI,
		"Organizer tree",
		mcp.WithMIMEType("text/markdown"),
		mcp.WithResourceDescription("Sections, categories and bookmarks in display order"),
	)
	s.mcpServer.AddResource(treeResource, s.handleTreeResource)
}

func (s *MCPServer) handleTreeResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	tree, err := s.service.GetTree(ctx, s.userID)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      treeResourceURI,
			MIMEType: "text/markdown",
			Text:     formatTree(tree),
		},
	}, nil
}
