package config

import (
	"fmt"
	"os"

	"github.com/packsmith/packsmith/core"
)

var (
	Version string

	apiKeys = make(map[core.Platform]string)
)

func SetVersion(version string) {
	Version = version
}

// SetAPIKey overrides a platform key, for tests and build-time injection.
func SetAPIKey(platform core.Platform, key string) {
	apiKeys[platform] = key
}

// LoadFromEnv reads each platform's API key from its documented environment
// variable. A missing key only matters for platforms that require one, and
// only once a request is about to be made, so nothing fails here.
func LoadFromEnv() {
	for _, platform := range core.Platforms {
		attrs := platform.Attributes()
		if attrs.APIKeyEnvVar == "" {
			continue
		}
		if key := os.Getenv(attrs.APIKeyEnvVar); key != "" {
			apiKeys[platform] = key
		}
	}
}

// APIKey returns the key for a platform. For platforms that require a key,
// absence is an error naming the environment variable to set.
func APIKey(platform core.Platform) (string, error) {
	key := apiKeys[platform]
	attrs := platform.Attributes()
	if key == "" && attrs.RequiresAPIKey {
		return "", fmt.Errorf("%s requires an API key: set %s", platform.FriendlyName(), attrs.APIKeyEnvVar)
	}
	return key, nil
}
