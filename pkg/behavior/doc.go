// Package behavior resolves the per-path policy that governs how existing
// destination content is treated, and validates behavior maps and target
// sets before any mutation happens.
//
// Resolution walks from the exact path towards the root, so the longest
// configured prefix wins:
//
//	m := types.FolderBehaviorMap{"docs": types.BehaviorAdd, "docs/api": types.BehaviorMirror}
//	behavior.Resolve("docs/api/v1/index.md", m, types.BehaviorOverwrite) // mirror
//	behavior.Resolve("docs/guide.md", m, types.BehaviorOverwrite)        // add
//	behavior.Resolve("README.md", m, types.BehaviorOverwrite)            // overwrite
package behavior
