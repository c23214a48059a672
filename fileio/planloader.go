package fileio

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/exp/slices"

	"github.com/packsmith/packsmith/core"
)

// Plan is the parsed packsmith.toml: the project-wide versions plus the loose
// mod list the resolution engine works from.
type Plan struct {
	Name          string `toml:"name"`
	Minecraft     string `toml:"minecraft,omitempty"`
	Loader        string `toml:"loader,omitempty"`
	LoaderVersion string `toml:"loader-version,omitempty"`

	// Mods maps plan keys to either a pipe-delimited spec string or a table
	// with explicit fields. Both forms parse to the same DependencySpec.
	Mods map[string]interface{} `toml:"mods"`

	// NeoForgeCompat overrides the NeoForge version line heuristic.
	NeoForgeCompat map[string]string `toml:"neoforge-compat,omitempty"`

	filePath string
}

// modEntry is the table form of a mod entry.
type modEntry struct {
	Query            string   `mapstructure:"query"`
	Type             string   `mapstructure:"type"`
	Minecraft        string   `mapstructure:"minecraft"`
	Loader           string   `mapstructure:"loader"`
	ProjectID        string   `mapstructure:"project-id"`
	VersionOverrides []string `mapstructure:"version-overrides"`
	Requires         []string `mapstructure:"requires"`
}

// LoadPlan reads and parses a plan file.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading plan: %w", err)
	}

	var plan Plan
	if err := toml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parsing plan %s: %w", path, err)
	}
	plan.filePath = path
	return &plan, nil
}

func (p *Plan) GetFilePath() string {
	return p.filePath
}

// Defaults returns the project-wide values mod specs inherit.
func (p *Plan) Defaults() (core.SpecDefaults, error) {
	defaults := core.SpecDefaults{
		MinecraftVersion: p.Minecraft,
		Loader:           core.DefaultLoader,
		ProjectType:      core.TypeMod,
	}
	if p.Loader != "" {
		loader, err := core.ParseModLoader(p.Loader)
		if err != nil {
			return core.SpecDefaults{}, fmt.Errorf("plan: %w", err)
		}
		defaults.Loader = loader
	}
	return defaults, nil
}

// Specs parses every mod entry into a DependencySpec, keys in sorted order
// for deterministic batches. The second return maps each key to the plan
// keys it declares a dependency on, for the graph stage.
func (p *Plan) Specs() ([]core.DependencySpec, map[string][]string, error) {
	defaults, err := p.Defaults()
	if err != nil {
		return nil, nil, err
	}

	keys := make([]string, 0, len(p.Mods))
	for key := range p.Mods {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	specs := make([]core.DependencySpec, 0, len(keys))
	requires := make(map[string][]string)

	for _, key := range keys {
		switch value := p.Mods[key].(type) {
		case string:
			spec, err := core.ParseDependencySpec(key, value, defaults)
			if err != nil {
				return nil, nil, err
			}
			specs = append(specs, spec)
		case map[string]interface{}:
			var entry modEntry
			if err := mapstructure.Decode(value, &entry); err != nil {
				return nil, nil, fmt.Errorf("mod %s: %w", key, err)
			}
			spec, err := entry.toSpec(key, defaults)
			if err != nil {
				return nil, nil, err
			}
			specs = append(specs, spec)
			if len(entry.Requires) > 0 {
				requires[key] = entry.Requires
			}
		default:
			return nil, nil, &core.ResolutionFormatError{Key: key, Field: "entry", Value: fmt.Sprintf("%v", value)}
		}
	}

	return specs, requires, nil
}

func (e modEntry) toSpec(key string, defaults core.SpecDefaults) (core.DependencySpec, error) {
	spec := core.DependencySpec{
		Key:               key,
		SearchQuery:       e.Query,
		ProjectType:       defaults.ProjectType,
		ExplicitProjectID: e.ProjectID,
		MinecraftVersion:  defaults.MinecraftVersion,
		Loader:            defaults.Loader,
		VersionOverrides:  e.VersionOverrides,
	}
	if spec.SearchQuery == "" {
		spec.SearchQuery = core.QueryFromKey(key)
	}
	if e.Type != "" {
		projectType, err := core.ParseProjectType(e.Type)
		if err != nil {
			return core.DependencySpec{}, &core.ResolutionFormatError{Key: key, Field: "project type", Value: e.Type}
		}
		spec.ProjectType = projectType
	}
	if e.Minecraft != "" {
		spec.MinecraftVersion = e.Minecraft
	}
	if e.Loader != "" {
		loader, err := core.ParseModLoader(e.Loader)
		if err != nil {
			return core.DependencySpec{}, &core.ResolutionFormatError{Key: key, Field: "loader", Value: e.Loader}
		}
		spec.Loader = loader
	}
	return spec, nil
}
