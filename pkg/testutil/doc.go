// Package testutil provides test environments for docsync packages.
//
// Key components:
//   - TestEnvironment: a dataset root on an in-memory or temp-dir filesystem,
//     with helpers to lay out file trees and assert on their contents
//   - FailingFS: a types.FS wrapper that injects errors into chosen
//     operations
//
// Usage guidelines:
//   - Prefer EnvMemoryOnly; it is fast and fully isolated
//   - Use EnvIsolated for code that must exercise real OS semantics such as
//     cross-directory renames or file permissions
//   - Define test data inline with FileTree
package testutil
