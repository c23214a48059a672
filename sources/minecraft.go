package sources

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/packsmith/packsmith/netio"
)

const mojangVersionManifestURL = "https://launchermeta.mojang.com/mc/game/version_manifest.json"

type mojangManifest struct {
	Latest struct {
		Release  string `json:"release"`
		Snapshot string `json:"snapshot"`
	} `json:"latest"`
	Versions []struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	} `json:"versions"`
}

// McVersionInfo is the parsed Mojang version manifest, releases only.
type McVersionInfo struct {
	Latest         string
	LatestSnapshot string
	Versions       []string
}

func (m McVersionInfo) CheckValid(version string) bool {
	return slices.Contains(m.Versions, version)
}

// fetchMinecraftVersions pulls the Mojang version manifest through the
// caching client. The manifest hits the same TTL discipline as platform
// responses, so repeated stabilizations in one run cost one request.
func fetchMinecraftVersions(ctx context.Context, client *netio.Client, manifestURL string) (McVersionInfo, error) {
	resp, err := client.Get(ctx, manifestURL)
	if err != nil {
		return McVersionInfo{}, err
	}
	if resp.Status != 200 {
		return McVersionInfo{}, fmt.Errorf("Minecraft version manifest returned status %d", resp.Status)
	}

	var manifest mojangManifest
	if err := json.Unmarshal(resp.Data, &manifest); err != nil {
		return McVersionInfo{}, fmt.Errorf("Minecraft version manifest: %w", err)
	}

	info := McVersionInfo{
		Latest:         manifest.Latest.Release,
		LatestSnapshot: manifest.Latest.Snapshot,
	}
	for _, v := range manifest.Versions {
		if v.Type != "release" {
			continue
		}
		info.Versions = append(info.Versions, v.ID)
	}
	return info, nil
}
