package testutil

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/docsync/pkg/filesystem"
	"github.com/arthur-debert/docsync/pkg/types"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // Pure in-memory, no real filesystem
	EnvIsolated                  // Real filesystem in temp directory
)

// TestEnvironment is a dataset root on a test filesystem.
type TestEnvironment struct {
	DatasetRoot string
	FS          types.FS
	Type        EnvType

	t *testing.T
}

// FileTree represents a directory structure for testing. Values are either
// file contents (string) or nested FileTrees.
type FileTree map[string]interface{}

// NewTestEnvironment creates a new test environment
func NewTestEnvironment(t *testing.T, envType EnvType) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{t: t, Type: envType}
	switch envType {
	case EnvIsolated:
		env.DatasetRoot = filepath.Join(t.TempDir(), "dataset")
		env.FS = filesystem.NewOS()
	default:
		env.DatasetRoot = "/virtual/dataset"
		env.FS = filesystem.NewMemory()
	}

	if err := env.FS.MkdirAll(env.DatasetRoot, 0755); err != nil {
		t.Fatalf("Failed to create dataset root: %v", err)
	}
	return env
}

// Abs returns the absolute path of a dataset-relative slash path.
func (env *TestEnvironment) Abs(rel string) string {
	return filepath.Join(env.DatasetRoot, filepath.FromSlash(rel))
}

// WithFileTree creates a complete file tree under the dataset root.
func (env *TestEnvironment) WithFileTree(tree FileTree) *TestEnvironment {
	env.t.Helper()
	createFileTree(env.t, env.FS, env.DatasetRoot, tree)
	return env
}

// WriteFile writes a dataset-relative file, creating parent directories.
func (env *TestEnvironment) WriteFile(rel, content string) {
	env.t.Helper()

	full := env.Abs(rel)
	if err := env.FS.MkdirAll(filepath.Dir(full), 0755); err != nil {
		env.t.Fatalf("Failed to create directory for %s: %v", rel, err)
	}
	if err := env.FS.WriteFile(full, []byte(content), 0644); err != nil {
		env.t.Fatalf("Failed to write file %s: %v", rel, err)
	}
}

// ReadFile returns the content of a dataset-relative file.
func (env *TestEnvironment) ReadFile(rel string) string {
	env.t.Helper()

	data, err := env.FS.ReadFile(env.Abs(rel))
	if err != nil {
		env.t.Fatalf("Failed to read file %s: %v", rel, err)
	}
	return string(data)
}

// Exists reports whether a dataset-relative path exists.
func (env *TestEnvironment) Exists(rel string) bool {
	ok, err := filesystem.Exists(env.FS, env.Abs(rel))
	if err != nil {
		env.t.Fatalf("Failed to stat %s: %v", rel, err)
	}
	return ok
}

// AssertFileContent fails the test unless rel holds exactly want.
func (env *TestEnvironment) AssertFileContent(rel, want string) {
	env.t.Helper()

	if got := env.ReadFile(rel); got != want {
		env.t.Errorf("Content of %s:\nwant: %q\ngot:  %q", rel, want, got)
	}
}

// AssertExists fails the test if rel does not exist.
func (env *TestEnvironment) AssertExists(rel string) {
	env.t.Helper()

	if !env.Exists(rel) {
		env.t.Errorf("Expected %s to exist", rel)
	}
}

// AssertNotExists fails the test if rel exists.
func (env *TestEnvironment) AssertNotExists(rel string) {
	env.t.Helper()

	if env.Exists(rel) {
		env.t.Errorf("Expected %s not to exist", rel)
	}
}

// createFileTree recursively creates a file tree
func createFileTree(t *testing.T, fs types.FS, basePath string, tree FileTree) {
	t.Helper()

	for name, content := range tree {
		fullPath := filepath.Join(basePath, filepath.FromSlash(name))

		switch v := content.(type) {
		case string:
			if dir := filepath.Dir(fullPath); strings.Contains(name, "/") {
				if err := fs.MkdirAll(dir, 0755); err != nil {
					t.Fatalf("Failed to create directory %s: %v", dir, err)
				}
			}
			if err := fs.WriteFile(fullPath, []byte(v), 0644); err != nil {
				t.Fatalf("Failed to write file %s: %v", fullPath, err)
			}
		case FileTree:
			if err := fs.MkdirAll(fullPath, 0755); err != nil {
				t.Fatalf("Failed to create directory %s: %v", fullPath, err)
			}
			createFileTree(t, fs, fullPath, v)
		default:
			t.Fatalf("Invalid file tree content type for %s: %T", name, content)
		}
	}
}
