package main

import (
	"errors"
	"fmt"

	"github.com/distribution/reference"
)

const (
	defaultHost    = "gcr.io"
	defaultProject = "bonion"
	defaultImage   = "test-app"
	defaultTag     = "latest"
)

var ErrInvalidConfig = errors.New("invalid publisher config")

// PublisherConfig names the image that build and push operate on.
type PublisherConfig struct {
	Host    string
	Project string
	Image   string
	Tag     string
}

func DefaultConfig() PublisherConfig {
	return PublisherConfig{
		Host:    defaultHost,
		Project: defaultProject,
		Image:   defaultImage,
		Tag:     defaultTag,
	}
}

// ImageRef returns <host>/<project>/<image>:<tag>.
func (c PublisherConfig) ImageRef() string {
	return fmt.Sprintf("%s/%s/%s:%s", c.Host, c.Project, c.Image, c.Tag)
}

func (c PublisherConfig) Validate() error {
	fields := []struct {
		name, value string
	}{
		{"host", c.Host},
		{"project", c.Project},
		{"image", c.Image},
		{"tag", c.Tag},
	}
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidConfig, f.name)
		}
	}

	named, err := reference.ParseNormalizedNamed(c.ImageRef())
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, c.ImageRef(), err)
	}
	// A host without a dot, port or "localhost" is read as the first path
	// component of a docker.io repository.
	if reference.Path(named) != c.Project+"/"+c.Image {
		return fmt.Errorf("%w: %q is not a registry host", ErrInvalidConfig, c.Host)
	}
	return nil
}
