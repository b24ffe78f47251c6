// Package types defines the core types and interfaces used throughout docsync.
// This includes the FS abstraction every filesystem mutation goes through, the
// behavior policy enum, multi-target configuration, and the link data shared by
// the rewriting engine and the batch processor.
package types
