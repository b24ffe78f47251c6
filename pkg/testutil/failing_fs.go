package testutil

import (
	"io/fs"
	"strings"
	"sync"

	"github.com/arthur-debert/docsync/pkg/types"
)

// FailingFS wraps a types.FS and returns injected errors for chosen
// operations. An injection applies to paths ending with the given suffix;
// an empty suffix matches every path.
type FailingFS struct {
	types.FS

	mu       sync.Mutex
	failures map[string][]injection
	calls    map[string]int
}

type injection struct {
	suffix string
	err    error
}

// NewFailingFS wraps inner.
func NewFailingFS(inner types.FS) *FailingFS {
	return &FailingFS{
		FS:       inner,
		failures: make(map[string][]injection),
		calls:    make(map[string]int),
	}
}

// Fail makes op ("stat", "readfile", "writefile", "mkdirall", "readdir",
// "rename", "remove", "removeall", "lstat", "openfile", "symlink",
// "readlink") fail with err for paths ending in suffix.
func (f *FailingFS) Fail(op, suffix string, err error) *FailingFS {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[op] = append(f.failures[op], injection{suffix: suffix, err: err})
	return f
}

// Calls returns how many times op was invoked.
func (f *FailingFS) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *FailingFS) check(op, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	for _, inj := range f.failures[op] {
		if inj.suffix == "" || strings.HasSuffix(path, inj.suffix) {
			return inj.err
		}
	}
	return nil
}

func (f *FailingFS) Stat(name string) (fs.FileInfo, error) {
	if err := f.check("stat", name); err != nil {
		return nil, err
	}
	return f.FS.Stat(name)
}

func (f *FailingFS) Lstat(name string) (fs.FileInfo, error) {
	if err := f.check("lstat", name); err != nil {
		return nil, err
	}
	return f.FS.Lstat(name)
}

func (f *FailingFS) ReadFile(name string) ([]byte, error) {
	if err := f.check("readfile", name); err != nil {
		return nil, err
	}
	return f.FS.ReadFile(name)
}

func (f *FailingFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if err := f.check("writefile", name); err != nil {
		return err
	}
	return f.FS.WriteFile(name, data, perm)
}

func (f *FailingFS) OpenFile(name string, flag int, perm fs.FileMode) (types.File, error) {
	if err := f.check("openfile", name); err != nil {
		return nil, err
	}
	return f.FS.OpenFile(name, flag, perm)
}

func (f *FailingFS) MkdirAll(path string, perm fs.FileMode) error {
	if err := f.check("mkdirall", path); err != nil {
		return err
	}
	return f.FS.MkdirAll(path, perm)
}

func (f *FailingFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if err := f.check("readdir", name); err != nil {
		return nil, err
	}
	return f.FS.ReadDir(name)
}

func (f *FailingFS) Symlink(oldname, newname string) error {
	if err := f.check("symlink", newname); err != nil {
		return err
	}
	return f.FS.Symlink(oldname, newname)
}

func (f *FailingFS) Readlink(name string) (string, error) {
	if err := f.check("readlink", name); err != nil {
		return "", err
	}
	return f.FS.Readlink(name)
}

func (f *FailingFS) Rename(oldpath, newpath string) error {
	if err := f.check("rename", oldpath); err != nil {
		return err
	}
	return f.FS.Rename(oldpath, newpath)
}

func (f *FailingFS) Remove(name string) error {
	if err := f.check("remove", name); err != nil {
		return err
	}
	return f.FS.Remove(name)
}

func (f *FailingFS) RemoveAll(path string) error {
	if err := f.check("removeall", path); err != nil {
		return err
	}
	return f.FS.RemoveAll(path)
}
