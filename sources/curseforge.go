package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/packsmith/packsmith/core"
	"github.com/packsmith/packsmith/netio"
)

// Minecraft's game ID on CurseForge.
const cfGameID = 432

const cfSearchPageSize = 10

// CurseForge class IDs per project type. Types the platform has no class for
// fall back to the mods class.
var cfClassIDs = map[core.ProjectType]int{
	core.TypeMod:          6,
	core.TypeResourcePack: 12,
	core.TypeDatapack:     17,
	core.TypeShader:       6,
}

const cfDefaultClassID = 6

// CurseForge mod loader type IDs. Unrecognized loaders apply no filter.
var cfLoaderTypes = map[core.ModLoader]int{
	core.LoaderForge:    1,
	core.LoaderFabric:   4,
	core.LoaderQuilt:    5,
	core.LoaderNeoForge: 6,
}

// CurseforgeSource is the keyed platform's search and metadata surface.
type CurseforgeSource struct {
	// BaseURL defaults to the public API; tests point it at a stub server.
	BaseURL string

	client *netio.Client
}

func NewCurseforgeSource(client *netio.Client) *CurseforgeSource {
	return &CurseforgeSource{
		BaseURL: core.PlatformCurseforge.Attributes().BaseURL,
		client:  client,
	}
}

func (s *CurseforgeSource) Platform() core.Platform {
	return core.PlatformCurseforge
}

type cfMod struct {
	ID            uint32  `json:"id"`
	Name          string  `json:"name"`
	Slug          string  `json:"slug"`
	DownloadCount float64 `json:"downloadCount"`
}

type cfSearchResult struct {
	Data []cfMod `json:"data"`
}

type cfModResult struct {
	Data cfMod `json:"data"`
}

// SearchProjects queries /mods/search filtered by class ID, Minecraft
// version and loader type.
func (s *CurseforgeSource) SearchProjects(ctx context.Context, intent core.SearchIntent, spec core.DependencySpec) ([]core.ProjectCandidate, error) {
	searchURL := fmt.Sprintf("%s/mods/search?gameId=%d&classId=%d&pageSize=%d&searchFilter=%s",
		s.BaseURL, cfGameID, cfClassID(spec.ProjectType), cfSearchPageSize, intent.Encoded)
	if spec.MinecraftVersion != "" {
		searchURL += "&gameVersion=" + spec.MinecraftVersion
	}
	if loaderType, ok := cfLoaderTypes[spec.Loader]; ok && spec.ProjectType == core.TypeMod {
		searchURL += "&modLoaderType=" + strconv.Itoa(loaderType)
	}

	resp, err := s.client.Get(ctx, searchURL)
	if err != nil {
		return nil, err
	}
	if resp.Status != 200 {
		return nil, fmt.Errorf("CurseForge search for %q returned status %d", intent.Raw, resp.Status)
	}

	var result cfSearchResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("CurseForge search for %q: %w", intent.Raw, err)
	}

	candidates := make([]core.ProjectCandidate, 0, len(result.Data))
	for _, mod := range result.Data {
		candidates = append(candidates, core.ProjectCandidate{
			ProjectID: strconv.FormatUint(uint64(mod.ID), 10),
			Name:      mod.Name,
			Platform:  core.PlatformCurseforge,
			Downloads: uint64(mod.DownloadCount),
		})
	}
	return candidates, nil
}

// GetProject fetches one mod by its numeric ID.
func (s *CurseforgeSource) GetProject(ctx context.Context, projectID string) (core.ResolvedProject, error) {
	resp, err := s.client.Get(ctx, fmt.Sprintf("%s/mods/%s", s.BaseURL, projectID))
	if err != nil {
		return core.ResolvedProject{}, err
	}
	if resp.Status != 200 {
		return core.ResolvedProject{}, fmt.Errorf("CurseForge mod %s returned status %d", projectID, resp.Status)
	}

	var result cfModResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return core.ResolvedProject{}, fmt.Errorf("CurseForge mod %s: %w", projectID, err)
	}

	return core.ResolvedProject{
		ProjectID: strconv.FormatUint(uint64(result.Data.ID), 10),
		Name:      result.Data.Name,
		Platform:  core.PlatformCurseforge,
		Downloads: uint64(result.Data.DownloadCount),
	}, nil
}

func cfClassID(projectType core.ProjectType) int {
	if id, ok := cfClassIDs[projectType]; ok {
		return id
	}
	return cfDefaultClassID
}
