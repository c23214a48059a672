package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/packsmith/packsmith/core"
	"github.com/packsmith/packsmith/netio"
)

const modrinthSearchLimit = 10

// ModrinthSource is the open platform's search and metadata surface. All
// requests go through the rate-limited caching client.
type ModrinthSource struct {
	// BaseURL defaults to the public API; tests point it at a stub server.
	BaseURL string

	client *netio.Client
}

func NewModrinthSource(client *netio.Client) *ModrinthSource {
	return &ModrinthSource{
		BaseURL: core.PlatformModrinth.Attributes().BaseURL,
		client:  client,
	}
}

func (s *ModrinthSource) Platform() core.Platform {
	return core.PlatformModrinth
}

type modrinthSearchResult struct {
	Hits []struct {
		ProjectID string `json:"project_id"`
		Slug      string `json:"slug"`
		Title     string `json:"title"`
		Downloads uint64 `json:"downloads"`
	} `json:"hits"`
}

type modrinthProject struct {
	ID        string `json:"id"`
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	Downloads uint64 `json:"downloads"`
}

// SearchProjects queries /search with the encoded query, faceted by project
// type, Minecraft version and (for mods) loader.
func (s *ModrinthSource) SearchProjects(ctx context.Context, intent core.SearchIntent, spec core.DependencySpec) ([]core.ProjectCandidate, error) {
	facets := buildModrinthFacets(spec)
	searchURL := fmt.Sprintf("%s/search?query=%s&limit=%d&index=relevance&facets=%s",
		s.BaseURL, intent.Encoded, modrinthSearchLimit, url.QueryEscape(facets))

	resp, err := s.client.Get(ctx, searchURL)
	if err != nil {
		return nil, err
	}
	if resp.Status != 200 {
		return nil, fmt.Errorf("Modrinth search for %q returned status %d", intent.Raw, resp.Status)
	}

	var result modrinthSearchResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("Modrinth search for %q: %w", intent.Raw, err)
	}

	candidates := make([]core.ProjectCandidate, 0, len(result.Hits))
	for _, hit := range result.Hits {
		candidates = append(candidates, core.ProjectCandidate{
			ProjectID: hit.ProjectID,
			Name:      hit.Title,
			Platform:  core.PlatformModrinth,
			Downloads: hit.Downloads,
		})
	}
	return candidates, nil
}

// GetProject fetches one project by ID or slug.
func (s *ModrinthSource) GetProject(ctx context.Context, projectID string) (core.ResolvedProject, error) {
	resp, err := s.client.Get(ctx, fmt.Sprintf("%s/project/%s", s.BaseURL, url.PathEscape(projectID)))
	if err != nil {
		return core.ResolvedProject{}, err
	}
	if resp.Status != 200 {
		return core.ResolvedProject{}, fmt.Errorf("Modrinth project %s returned status %d", projectID, resp.Status)
	}

	var project modrinthProject
	if err := json.Unmarshal(resp.Data, &project); err != nil {
		return core.ResolvedProject{}, fmt.Errorf("Modrinth project %s: %w", projectID, err)
	}

	return core.ResolvedProject{
		ProjectID: project.ID,
		Name:      project.Title,
		Platform:  core.PlatformModrinth,
		Downloads: project.Downloads,
	}, nil
}

// buildModrinthFacets encodes the search filters as the API's JSON facet
// array. Modrinth takes project types and loaders by name, so no numeric
// mapping is needed on this platform.
func buildModrinthFacets(spec core.DependencySpec) string {
	facets := [][]string{
		{"project_type:" + string(spec.ProjectType)},
	}
	if spec.MinecraftVersion != "" {
		facets = append(facets, []string{"versions:" + spec.MinecraftVersion})
	}
	if spec.ProjectType == core.TypeMod && spec.Loader != "" && spec.Loader != core.LoaderVanilla {
		facets = append(facets, []string{"categories:" + string(spec.Loader)})
	}
	encoded, _ := json.Marshal(facets)
	return string(encoded)
}
