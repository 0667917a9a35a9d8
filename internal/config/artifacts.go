package config

import (
	"os"
	"sync"
)

type ArtifactsConfig struct {
	Dir string
}

var (
	artifactsConfig *ArtifactsConfig
	artifactsOnce   sync.Once
)

func LoadArtifactsConfig() *ArtifactsConfig {
	artifactsOnce.Do(func() {
		dir := os.Getenv("ARTIFACTS_DIR")
		if dir == "" {
			dir = "./artifacts"
		}
		artifactsConfig = &ArtifactsConfig{
			Dir: dir,
		}
	})
	return artifactsConfig
}
