package paths

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/arthur-debert/docsync/pkg/errors"
)

// Environment variable names
const (
	EnvDatasetRoot = "DOCSYNC_ROOT"
	EnvConfigDir   = "DOCSYNC_CONFIG_DIR"
	EnvCacheDir    = "DOCSYNC_CACHE_DIR"
	EnvHome        = "HOME"
)

// Default directories and files
const (
	// DirName is the directory name used under each XDG base directory.
	DirName = "docsync"

	// UserConfigFile is the user level configuration file name.
	UserConfigFile = "config.toml"

	// LogFileName is the name of the log file
	LogFileName = "docsync.log"
)

// DatasetConfigFiles are the dataset level configuration file names in
// lookup order.
var DatasetConfigFiles = []string{".docsync.toml", ".docsync.yaml", ".docsync.yml"}

// Paths resolves docsync locations.
type Paths interface {
	DatasetRoot() string
	UsedFallback() bool
	ConfigDir() string
	CacheDir() string
	StateDir() string
	UserConfigPath() string
	DatasetConfigPath() string
	LogFilePath() string
	Abs(rel string) string
	Rel(path string) (string, error)
}

type paths struct {
	datasetRoot string

	xdgConfig string
	xdgCache  string
	xdgState  string

	// usedFallback indicates the current directory was used as the root
	usedFallback bool
}

// New creates a Paths instance. An empty datasetRoot is resolved from
// DOCSYNC_ROOT, then the enclosing git repository, then the current
// directory.
func New(datasetRoot string) (Paths, error) {
	p := &paths{}

	if datasetRoot == "" {
		root, usedFallback, err := findDatasetRoot()
		if err != nil {
			return nil, err
		}
		p.datasetRoot = root
		p.usedFallback = usedFallback
	} else {
		p.datasetRoot = expandHome(datasetRoot)
	}

	absRoot, err := filepath.Abs(p.datasetRoot)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidPath, "failed to get absolute path for dataset root")
	}
	p.datasetRoot = absRoot

	p.setupXDGDirs()
	return p, nil
}

func (p *paths) setupXDGDirs() {
	if configDir := os.Getenv(EnvConfigDir); configDir != "" {
		p.xdgConfig = expandHome(configDir)
	} else {
		p.xdgConfig = filepath.Join(xdg.ConfigHome, DirName)
	}

	if cacheDir := os.Getenv(EnvCacheDir); cacheDir != "" {
		p.xdgCache = expandHome(cacheDir)
	} else {
		p.xdgCache = filepath.Join(xdg.CacheHome, DirName)
	}

	if stateDir := os.Getenv("XDG_STATE_HOME"); stateDir != "" {
		p.xdgState = filepath.Join(stateDir, DirName)
	} else {
		p.xdgState = filepath.Join(xdg.StateHome, DirName)
	}
}

// findDatasetRoot returns the resolved root and whether the current
// working directory was used as fallback.
func findDatasetRoot() (string, bool, error) {
	if root := os.Getenv(EnvDatasetRoot); root != "" {
		return expandHome(root), false, nil
	}

	if gitRoot, err := findGitRoot(); err == nil && gitRoot != "" {
		return gitRoot, false, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", false, errors.Wrapf(err, errors.ErrIO, "failed to get current directory")
	}
	return cwd, true, nil
}

func findGitRoot() (string, error) {
	output, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", err
	}

	gitRoot := strings.TrimSpace(string(output))
	if gitRoot == "" {
		return "", errors.New(errors.ErrNotFound, "git root is empty")
	}
	return gitRoot, nil
}

// expandHome expands a leading ~ to the home directory
func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}
	// ~user is left alone
	return path
}

// ExpandHome expands a leading ~ in path.
func ExpandHome(path string) string {
	return expandHome(path)
}

func (p *paths) DatasetRoot() string {
	return p.datasetRoot
}

// UsedFallback reports whether the root came from the working directory.
func (p *paths) UsedFallback() bool {
	return p.usedFallback
}

func (p *paths) ConfigDir() string {
	return p.xdgConfig
}

func (p *paths) CacheDir() string {
	return p.xdgCache
}

func (p *paths) StateDir() string {
	return p.xdgState
}

// UserConfigPath returns the user level config file path. The file may
// not exist.
func (p *paths) UserConfigPath() string {
	return filepath.Join(p.xdgConfig, UserConfigFile)
}

// DatasetConfigPath returns the first dataset config file that exists,
// or "" when there is none.
func (p *paths) DatasetConfigPath() string {
	for _, name := range DatasetConfigFiles {
		candidate := filepath.Join(p.datasetRoot, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

// LogFilePath returns the path to the docsync log file
func (p *paths) LogFilePath() string {
	return filepath.Join(p.xdgState, LogFileName)
}

// Abs joins a dataset-relative slash path onto the dataset root.
func (p *paths) Abs(rel string) string {
	return filepath.Join(p.datasetRoot, filepath.FromSlash(rel))
}

// Rel converts path into the dataset-relative slash form used by path
// operations. Relative input is taken as relative to the working
// directory. Paths outside the dataset are rejected.
func (p *paths) Rel(path string) (string, error) {
	abs, err := filepath.Abs(expandHome(path))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidPath, "failed to resolve %s", path)
	}
	rel, err := filepath.Rel(p.datasetRoot, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Newf(errors.ErrInvalidPath, "%s is outside the dataset root", path).
			WithDetail("path", path).
			WithDetail("root", p.datasetRoot)
	}
	if rel == "." {
		return ".", nil
	}
	return filepath.ToSlash(rel), nil
}
