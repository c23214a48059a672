package core

import (
	"fmt"
	"time"
)

// Platform identifies an external content host serving search and version
// APIs for mods, resource packs, datapacks and shaders.
type Platform string

const (
	PlatformModrinth   Platform = "modrinth"
	PlatformCurseforge Platform = "curseforge"
)

// Platforms lists all supported platforms in preference order.
var Platforms = []Platform{PlatformModrinth, PlatformCurseforge}

// PlatformAttributes carries the fixed per-platform request policy. These are
// published API limits, not tunables.
type PlatformAttributes struct {
	BaseURL           string
	RequestsPerMinute int
	// Burst is the short-term request allowance, 2x the per-minute ceiling.
	Burst          int
	Timeout        time.Duration
	RequiresAPIKey bool
	APIKeyEnvVar   string
}

var platformAttributes = map[Platform]PlatformAttributes{
	PlatformModrinth: {
		BaseURL:           "https://api.modrinth.com/v2",
		RequestsPerMinute: 300,
		Burst:             600,
		Timeout:           30 * time.Second,
		RequiresAPIKey:    false,
	},
	PlatformCurseforge: {
		BaseURL:           "https://api.curseforge.com/v1",
		RequestsPerMinute: 60,
		Burst:             120,
		Timeout:           60 * time.Second,
		RequiresAPIKey:    true,
		APIKeyEnvVar:      "CURSEFORGE_API_KEY",
	},
}

func (p Platform) Attributes() PlatformAttributes {
	return platformAttributes[p]
}

// ParsePlatform maps a flag or config value to a Platform.
func ParsePlatform(name string) (Platform, error) {
	switch Platform(name) {
	case PlatformModrinth:
		return PlatformModrinth, nil
	case PlatformCurseforge:
		return PlatformCurseforge, nil
	}
	return "", fmt.Errorf("unknown platform %q (expected modrinth or curseforge)", name)
}

// Other returns the alternate platform searched when this one yields no
// confident match.
func (p Platform) Other() Platform {
	if p == PlatformModrinth {
		return PlatformCurseforge
	}
	return PlatformModrinth
}

func (p Platform) FriendlyName() string {
	switch p {
	case PlatformModrinth:
		return "Modrinth"
	case PlatformCurseforge:
		return "CurseForge"
	}
	return string(p)
}
