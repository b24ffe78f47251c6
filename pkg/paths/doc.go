// Package paths locates the dataset root and the per-user docsync
// directories.
//
// # Environment Variables
//
//   - DOCSYNC_ROOT: dataset root (default: git repository root, then the
//     current directory)
//   - DOCSYNC_CONFIG_DIR: override $XDG_CONFIG_HOME/docsync
//   - DOCSYNC_CACHE_DIR: override $XDG_CACHE_HOME/docsync
//
// # Usage
//
//	p, err := paths.New("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	root := p.DatasetRoot()              // /home/user/handbook
//	cfg := p.UserConfigPath()            // $XDG_CONFIG_HOME/docsync/config.toml
//	rel, err := p.Rel("/home/user/handbook/docs/intro.md") // docs/intro.md
package paths
