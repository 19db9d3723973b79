package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
	"github.com/avicola-labs/avisearch-cli/internal/core/ports/driven"
)

const (
	// uriScheme is the custom URI scheme for Avisearch resources.
	uriScheme = "avisearch://"
)

// knownSpecies is the fixed set of index names a deployment can carry.
var knownSpecies = []domain.Species{
	domain.SpeciesGlobal, domain.SpeciesBroiler, domain.SpeciesLayer,
	domain.SpeciesBreeder, domain.SpeciesDuck, domain.SpeciesTurkey,
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource listing the built indexes.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "indexes",
		Name:        "indexes",
		Description: "List of built species indexes and their build metadata",
		MIMEType:    "application/json",
	}, s.handleIndexesResource)

	// Template for one index's build metadata.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "indexes/{species}",
		Name:        "index-meta",
		Description: "Build metadata of a specific species index",
		MIMEType:    "application/json",
	}, s.handleIndexMetaResource)
}

// indexInfo is the serialized shape of one index in resource listings.
type indexInfo struct {
	Species    string `json:"species"`
	Model      string `json:"model"`
	Dimensions int    `json:"dimensions"`
	ChunkCount int    `json:"chunk_count"`
	FileCount  int    `json:"file_count"`
	BuiltAt    string `json:"built_at"`
}

// handleIndexesResource returns the metadata of every built index.
func (s *Server) handleIndexesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	infos := make([]indexInfo, 0, len(knownSpecies))
	if s.ports.Indexes != nil {
		for _, sp := range knownSpecies {
			loaded, err := s.ports.Indexes.Load(ctx, sp)
			if err != nil {
				// An unbuilt species is simply absent from the list.
				continue
			}
			infos = append(infos, metaInfo(sp, loaded.Meta))
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling indexes: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleIndexMetaResource returns the build metadata of one index.
func (s *Server) handleIndexMetaResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Indexes == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	species := extractSpecies(req.Params.URI)
	if species == "" || !species.Valid() {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	loaded, err := s.ports.Indexes.Load(ctx, species)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	data, err := json.MarshalIndent(loaded.Meta, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling index meta: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractSpecies extracts the species from a URI like avisearch://indexes/{species}.
func extractSpecies(uri string) domain.Species {
	const prefix = uriScheme + "indexes/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return domain.Species(strings.TrimPrefix(uri, prefix))
}

func metaInfo(sp domain.Species, meta driven.IndexMeta) indexInfo {
	return indexInfo{
		Species:    string(sp),
		Model:      meta.Model,
		Dimensions: meta.Dimensions,
		ChunkCount: meta.ChunkCount,
		FileCount:  meta.FileCount,
		BuiltAt:    meta.BuiltAt.UTC().Format(time.RFC3339),
	}
}
