package main

import (
	"github.com/packsmith/packsmith/cmd"
	"github.com/packsmith/packsmith/config"
	"github.com/packsmith/packsmith/core"
)

var Version string
var CfApiKey string

func main() {
	config.SetVersion(Version)
	if CfApiKey != "" {
		config.SetAPIKey(core.PlatformCurseforge, CfApiKey)
	}
	// Environment keys win over build-time injection.
	config.LoadFromEnv()

	cmd.Execute()
}
