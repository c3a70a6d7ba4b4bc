package domain

import (
	"os"
	"path/filepath"
)

const (
	// AppDirName is the name of the wfops data directory.
	AppDirName = "wfops"

	// CacheDirName is the name of the API response cache directory.
	CacheDirName = "cache"

	// ProjectFileName is the name of the optional project configuration file.
	ProjectFileName = ".wfops.yaml"

	// WorkflowsDirName is the repository-relative directory holding workflow files.
	WorkflowsDirName = ".github/workflows"

	// CacheDirPerm is the permission for the cache directory (rwx------).
	CacheDirPerm = 0o700

	// DirPerm is the default permission for other directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the permission for cache entries (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultCachePath returns the default cache directory.
// It resolves to $XDG_CACHE_HOME/wfops/cache, falling back to
// ~/.cache/wfops/cache when the user cache dir cannot be determined.
func DefaultCachePath() string {
	base, err := os.UserCacheDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return filepath.Join("."+AppDirName, CacheDirName)
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, AppDirName, CacheDirName)
}

// DefaultWorkflowsPath returns the repository-relative workflows directory.
func DefaultWorkflowsPath() string {
	return WorkflowsDirName
}
