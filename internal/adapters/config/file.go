package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/wfops/wfops/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// projectFile is the shape of the optional .wfops.yaml file at the
// repository root. Unknown fields are rejected to catch typos early.
type projectFile struct {
	WorkflowsDir string `yaml:"workflows_dir"`
	CacheDir     string `yaml:"cache_dir"`
	Repository   string `yaml:"repository"`
}

// applyProjectFile looks for the project file from cwd upward and, when
// found, overlays its values. A missing file is not an error.
func (c *Config) applyProjectFile(cwd string) error {
	path, found := findProjectFile(cwd)
	if !found {
		return nil
	}

	var pf projectFile
	if err := readProjectFile(path, &pf); err != nil {
		return err
	}

	if pf.WorkflowsDir != "" {
		c.WorkflowsDir = pf.WorkflowsDir
	}
	if pf.CacheDir != "" {
		c.CacheDir = pf.CacheDir
	}
	if pf.Repository != "" {
		c.Repository = pf.Repository
	}
	return nil
}

// findProjectFile walks from cwd to the filesystem root looking for the
// nearest project file.
func findProjectFile(cwd string) (string, bool) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ProjectFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", false
		}
		currentDir = parentDir
	}
}

func readProjectFile(path string, target *projectFile) error {
	// #nosec G304 -- path comes from the upward walk above
	raw, err := os.ReadFile(path)
	if err != nil {
		return zerr.Wrap(err, domain.ErrProjectFileParseFailed.Error())
	}

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil {
		// An empty file configures nothing.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, domain.ErrProjectFileParseFailed.Error()), "path", path)
	}
	return nil
}
