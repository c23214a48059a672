package core

import "fmt"

// ModLoader identifies the mod-runtime environment a project targets.
type ModLoader string

const (
	LoaderNeoForge ModLoader = "neoforge"
	LoaderFabric   ModLoader = "fabric"
	LoaderQuilt    ModLoader = "quilt"
	LoaderForge    ModLoader = "forge"
	LoaderVanilla  ModLoader = "vanilla"
)

// DefaultLoader is used when a plan specifies no loader at all.
const DefaultLoader = LoaderNeoForge

var loaderFriendlyNames = map[ModLoader]string{
	LoaderNeoForge: "NeoForge",
	LoaderFabric:   "Fabric loader",
	LoaderQuilt:    "Quilt loader",
	LoaderForge:    "Forge",
	LoaderVanilla:  "Vanilla",
}

// ParseModLoader maps a loader name from a spec string or plan file to a
// ModLoader. Matching is exact on the lowercase name.
func ParseModLoader(name string) (ModLoader, error) {
	switch ModLoader(name) {
	case LoaderNeoForge, LoaderFabric, LoaderQuilt, LoaderForge, LoaderVanilla:
		return ModLoader(name), nil
	}
	return "", fmt.Errorf("unknown mod loader %q", name)
}

func (l ModLoader) FriendlyName() string {
	if name, ok := loaderFriendlyNames[l]; ok {
		return name
	}
	return string(l)
}

// VersionAgnostic reports whether loader versions are considered compatible
// with every Minecraft version. Fabric and Quilt loaders are not built
// against a specific Minecraft release.
func (l ModLoader) VersionAgnostic() bool {
	return l == LoaderFabric || l == LoaderQuilt
}
