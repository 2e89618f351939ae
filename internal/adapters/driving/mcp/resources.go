package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/rankwatch/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for rankwatch resources.
	uriScheme = "rankwatch://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing tracked domains.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "domains",
		Name:        "domains",
		Description: "All tracked domains with their keywords",
		MIMEType:    "application/json",
	}, s.handleDomainsResource)

	// Template for a single tracked domain.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "domains/{domain}",
		Name:        "domain",
		Description: "A tracked domain with its keywords and check counters",
		MIMEType:    "application/json",
	}, s.handleDomainResource)

	// Template for the check history of a domain.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "domains/{domain}/history",
		Name:        "domain-history",
		Description: "Recent check runs of a tracked domain",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)
}

// handleDomainsResource returns every tracked domain.
func (s *Server) handleDomainsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	domains := s.ports.Tracker.List(ctx)

	infos := make([]DomainOutput, len(domains))
	for i := range domains {
		infos[i] = toDomainOutput(domains[i])
	}

	return jsonResource(req.Params.URI, infos, "domains")
}

// handleDomainResource returns a single tracked domain.
func (s *Server) handleDomainResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract domain from URI: rankwatch://domains/{domain}
	name := extractDomain(req.Params.URI)
	if name == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	d, err := s.ports.Tracker.Get(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting domain: %w", err)
	}

	return jsonResource(req.Params.URI, toDomainOutput(d), "domain")
}

// handleHistoryResource returns recent check runs of a domain.
func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract domain from URI: rankwatch://domains/{domain}/history
	name := extractHistoryDomain(req.Params.URI)
	if name == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	_, output, err := s.handleGetHistory(ctx, nil, HistoryInput{Domain: name})
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}

	return jsonResource(req.Params.URI, output.Runs, "history")
}

func jsonResource(uri string, v any, what string) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", what, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractDomain extracts the domain from a URI like rankwatch://domains/{domain}.
func extractDomain(uri string) string {
	const prefix = uriScheme + "domains/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	name := strings.TrimPrefix(uri, prefix)
	if strings.Contains(name, "/") {
		return ""
	}
	return name
}

// extractHistoryDomain extracts the domain from a URI like rankwatch://domains/{domain}/history.
func extractHistoryDomain(uri string) string {
	const prefix = uriScheme + "domains/"
	const suffix = "/history"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}
