package core

// ProjectCandidate is one hit from a platform search endpoint, before
// confidence scoring.
type ProjectCandidate struct {
	ProjectID string
	Name      string
	Platform  Platform
	Downloads uint64
}

// ResolvedProject is the search candidate chosen for a spec, bound to a
// concrete platform project ID.
type ResolvedProject struct {
	ProjectID string
	Name      string
	Platform  Platform
	Downloads uint64
}

// PopularityConfidence derives the project's popularity bucket score.
func (p ResolvedProject) PopularityConfidence() int {
	return PopularityConfidence(p.Downloads)
}

// ResolvedVersions is the validated {loader, Minecraft version, loader
// version} triple. LoaderVersion is always empty for Vanilla.
type ResolvedVersions struct {
	Loader                 ModLoader
	MinecraftVersion       string
	LoaderVersion          string
	CompatibilityValidated bool
}

// ResolvedDependency pairs a spec with the project it resolved to, for the
// build orchestrator.
type ResolvedDependency struct {
	Spec    DependencySpec
	Project ResolvedProject
}
