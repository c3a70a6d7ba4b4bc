// Package workflows discovers, digests and structurally validates
// GitHub Actions workflow files.
package workflows

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/wfops/wfops/internal/core/domain"
	"github.com/wfops/wfops/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.WorkflowSource = (*Source)(nil)

// Source discovers workflow files on disk.
type Source struct {
	hasher ports.FileHasher
	logger ports.Logger
}

// NewSource creates a workflow source that digests files with hasher.
func NewSource(hasher ports.FileHasher, logger ports.Logger) *Source {
	return &Source{hasher: hasher, logger: logger}
}

// Discover walks root and returns every *.yml and *.yaml file with its
// content digest, in walk order. Version control metadata directories
// are skipped.
func (s *Source) Discover(root string) ([]domain.WorkflowFile, error) {
	var files []domain.WorkflowFile

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && (d.Name() == ".git" || d.Name() == ".jj") {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsWorkflowFile(d.Name()) {
			return nil
		}

		digest, err := s.hasher.Digest(path)
		if err != nil {
			return err
		}
		files = append(files, domain.WorkflowFile{Path: path, Digest: digest})
		return nil
	})
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "workflow discovery failed"), "root", root)
	}

	if len(files) == 0 {
		return nil, errors.Join(
			domain.ErrNoWorkflows,
			zerr.With(zerr.New("no *.yml or *.yaml files"), "root", root),
		)
	}

	s.logger.Debug(fmt.Sprintf("discovered %d workflow files under %s", len(files), root))
	return files, nil
}

// IsWorkflowFile reports whether name has a workflow file extension.
func IsWorkflowFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yml" || ext == ".yaml"
}
