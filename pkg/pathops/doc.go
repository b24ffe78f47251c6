// Package pathops copies, moves and distributes files and directory trees
// inside a dataset while keeping relative links between markdown files
// valid.
//
// Every operation follows the same lifecycle:
//
//	validate -> (skip when source == target) -> stat source
//	         -> file or directory branch -> link update -> done
//
// Validation covers the request paths, the folder behavior map, the target
// set and any naming-transform collisions. All of it runs before the first
// write, so a rejected request leaves the filesystem untouched.
//
// Folder behavior keys are relative to the operation's destination: the
// target directory for a directory operation, the destination directory
// for a single file. The root key "" addresses the destination itself.
//
//   - overwrite replaces existing destination files
//   - add only writes files that do not exist yet
//   - mirror additionally deletes destination entries absent from the source
//   - skip never writes the path
package pathops
