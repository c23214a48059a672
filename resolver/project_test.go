package resolver

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packsmith/packsmith/core"
)

// stubSource is a canned ProjectSource for one platform.
type stubSource struct {
	platform   core.Platform
	candidates []core.ProjectCandidate
	projects   map[string]core.ResolvedProject
	searchErr  error
	searches   int
}

func (s *stubSource) Platform() core.Platform { return s.platform }

func (s *stubSource) SearchProjects(ctx context.Context, intent core.SearchIntent, spec core.DependencySpec) ([]core.ProjectCandidate, error) {
	s.searches++
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.candidates, nil
}

func (s *stubSource) GetProject(ctx context.Context, projectID string) (core.ResolvedProject, error) {
	project, ok := s.projects[projectID]
	if !ok {
		return core.ResolvedProject{}, fmt.Errorf("project %s not found", projectID)
	}
	return project, nil
}

func modrinthStub(candidates ...core.ProjectCandidate) *stubSource {
	return &stubSource{platform: core.PlatformModrinth, candidates: candidates}
}

func curseforgeStub(candidates ...core.ProjectCandidate) *stubSource {
	return &stubSource{platform: core.PlatformCurseforge, candidates: candidates}
}

func TestResolveExactMatch(t *testing.T) {
	mr := modrinthStub(
		core.ProjectCandidate{ProjectID: "AANobbMI", Name: "Sodium", Platform: core.PlatformModrinth, Downloads: 150_000},
		core.ProjectCandidate{ProjectID: "xxx", Name: "Sodium Extra", Platform: core.PlatformModrinth, Downloads: 80_000},
	)
	r := NewProjectResolver(core.PlatformModrinth, nil, mr, curseforgeStub())

	spec := core.DependencySpec{Key: "sodium", SearchQuery: "Sodium", ProjectType: core.TypeMod, MinecraftVersion: "1.20.1", Loader: core.LoaderFabric}
	project, err := r.Resolve(context.Background(), spec)
	require.NoError(t, err)

	assert.Equal(t, "AANobbMI", project.ProjectID)
	assert.Equal(t, core.PlatformModrinth, project.Platform)
	assert.Equal(t, 80, project.PopularityConfidence())
}

func TestResolveExplicitProjectIDSkipsSearch(t *testing.T) {
	mr := modrinthStub()
	mr.projects = map[string]core.ResolvedProject{
		"u6dRKJwZ": {ProjectID: "u6dRKJwZ", Name: "Just Enough Items", Platform: core.PlatformModrinth, Downloads: 5_000_000},
	}
	r := NewProjectResolver(core.PlatformModrinth, nil, mr)

	spec := core.DependencySpec{Key: "jei", SearchQuery: "JEI", ExplicitProjectID: "u6dRKJwZ"}
	project, err := r.Resolve(context.Background(), spec)
	require.NoError(t, err)

	assert.Equal(t, "u6dRKJwZ", project.ProjectID)
	assert.Zero(t, mr.searches, "explicit IDs must not trigger a search")
}

func TestResolveTieBreaksByEditDistance(t *testing.T) {
	mr := modrinthStub(
		core.ProjectCandidate{ProjectID: "far", Name: "Create Industrial Extras Mod", Platform: core.PlatformModrinth, Downloads: 50_000},
		core.ProjectCandidate{ProjectID: "near", Name: "Create Mod", Platform: core.PlatformModrinth, Downloads: 50_000},
	)
	r := NewProjectResolver(core.PlatformModrinth, nil, mr)

	spec := core.DependencySpec{Key: "create", SearchQuery: "Create"}
	project, err := r.Resolve(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, "near", project.ProjectID)
}

func TestResolveTieBreaksByPopularity(t *testing.T) {
	// Same confidence, same name, same distance; only popularity differs.
	mr := modrinthStub(
		core.ProjectCandidate{ProjectID: "small", Name: "Iris Shaders", Platform: core.PlatformModrinth, Downloads: 2_000},
		core.ProjectCandidate{ProjectID: "big", Name: "Iris Shaders", Platform: core.PlatformModrinth, Downloads: 2_000_000},
	)
	r := NewProjectResolver(core.PlatformModrinth, nil, mr)

	spec := core.DependencySpec{Key: "iris", SearchQuery: "Iris"}
	project, err := r.Resolve(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, "big", project.ProjectID)
}

func TestResolveFallsBackToOtherPlatform(t *testing.T) {
	mr := modrinthStub(
		core.ProjectCandidate{ProjectID: "noise", Name: "Completely Unrelated", Platform: core.PlatformModrinth, Downloads: 10},
	)
	cf := curseforgeStub(
		core.ProjectCandidate{ProjectID: "238222", Name: "Just Enough Items (JEI)", Platform: core.PlatformCurseforge, Downloads: 5_000},
	)
	r := NewProjectResolver(core.PlatformModrinth, nil, mr, cf)

	spec := core.DependencySpec{Key: "jei", SearchQuery: "JEI"}
	project, err := r.Resolve(context.Background(), spec)
	require.NoError(t, err)

	assert.Equal(t, core.PlatformCurseforge, project.Platform)
	assert.Equal(t, "238222", project.ProjectID)
	assert.Equal(t, 1, mr.searches)
	assert.Equal(t, 1, cf.searches)
}

func TestResolveNoConfidentMatch(t *testing.T) {
	mr := modrinthStub(
		core.ProjectCandidate{ProjectID: "a", Name: "Totally Different Thing", Platform: core.PlatformModrinth, Downloads: 999_999},
	)
	cf := curseforgeStub()
	r := NewProjectResolver(core.PlatformModrinth, nil, mr, cf)

	spec := core.DependencySpec{Key: "obscure", SearchQuery: "Obscure Gadget"}
	_, err := r.Resolve(context.Background(), spec)
	require.Error(t, err)

	var noMatch *core.NoMatchError
	require.ErrorAs(t, err, &noMatch)
	assert.Equal(t, "Obscure Gadget", noMatch.Query)
	assert.Contains(t, err.Error(), "Modrinth")
	assert.Contains(t, err.Error(), "CurseForge")
}

func TestResolveSurvivesOnePlatformFailure(t *testing.T) {
	mr := modrinthStub()
	mr.searchErr = fmt.Errorf("Modrinth: request failed")
	cf := curseforgeStub(
		core.ProjectCandidate{ProjectID: "238222", Name: "Clumps", Platform: core.PlatformCurseforge, Downloads: 90_000},
	)
	r := NewProjectResolver(core.PlatformModrinth, nil, mr, cf)

	spec := core.DependencySpec{Key: "clumps", SearchQuery: "Clumps"}
	project, err := r.Resolve(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, core.PlatformCurseforge, project.Platform)
}

func TestCandidatesRankedBestFirst(t *testing.T) {
	mr := modrinthStub(
		core.ProjectCandidate{ProjectID: "contains", Name: "Sodium Extra", Platform: core.PlatformModrinth, Downloads: 50_000},
		core.ProjectCandidate{ProjectID: "exact", Name: "Sodium", Platform: core.PlatformModrinth, Downloads: 150_000},
	)
	r := NewProjectResolver(core.PlatformModrinth, nil, mr)

	scored, err := r.Candidates(context.Background(), core.DependencySpec{Key: "sodium", SearchQuery: "Sodium"})
	require.NoError(t, err)
	require.NotEmpty(t, scored)
	assert.Equal(t, "exact", scored[0].Candidate.ProjectID)
	assert.Equal(t, 100, scored[0].Confidence)
}
