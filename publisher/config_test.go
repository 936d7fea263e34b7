package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "gcr.io", cfg.Host)
	assert.Equal(t, "bonion", cfg.Project)
	assert.Equal(t, "test-app", cfg.Image)
	assert.Equal(t, "latest", cfg.Tag)
	assert.Equal(t, "gcr.io/bonion/test-app:latest", cfg.ImageRef())
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	valid := []PublisherConfig{
		{Host: "ghcr.io", Project: "acme", Image: "web", Tag: "v1"},
		{Host: "localhost:5000", Project: "dev", Image: "api", Tag: "sha-abc"},
		{Host: "europe-docker.pkg.dev", Project: "proj", Image: "repo_name", Tag: "1.0.0-rc.1"},
		{Host: "index.docker.io", Project: "bonion", Image: "test-app", Tag: "latest"},
		{Host: "docker.io", Project: "bonion", Image: "test-app", Tag: "latest"},
		{Host: "localhost", Project: "dev", Image: "api", Tag: "latest"},
		{Host: "127.0.0.1:5000", Project: "dev", Image: "api", Tag: "latest"},
	}
	for _, cfg := range valid {
		assert.NoError(t, cfg.Validate(), cfg.ImageRef())
	}

	invalid := map[string]PublisherConfig{
		"empty host":        {Project: "bonion", Image: "test-app", Tag: "latest"},
		"empty tag":         {Host: "gcr.io", Project: "bonion", Image: "test-app"},
		"uppercase image":   {Host: "gcr.io", Project: "bonion", Image: "Test-App", Tag: "latest"},
		"tag with spaces":   {Host: "gcr.io", Project: "bonion", Image: "test-app", Tag: "latest; rm -rf /"},
		"host without dots": {Host: "registry", Project: "bonion", Image: "test-app", Tag: "latest"},
		"host with a path":  {Host: "gcr.io/extra", Project: "bonion", Image: "test-app", Tag: "latest"},
	}
	for name, cfg := range invalid {
		err := cfg.Validate()
		assert.ErrorIs(t, err, ErrInvalidConfig, name)
	}
}
