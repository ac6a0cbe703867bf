// Package sandbox confines repository browsing to a single root directory.
//
// A Sandbox is created once per client session with Initialize. It loads the
// root-level .gitignore on top of a fixed set of default exclusions and then
// answers three kinds of requests, all of which go through the same
// containment check before touching the filesystem:
//
//   - IsContained / Resolve: is a path inside the root?
//   - RenderTree: a depth-bounded, child-capped listing of a directory.
//   - ReadFile: the first N lines of a file, refusing files above a size cap.
//
// Failures are returned as *Error values carrying a Kind, so callers can map
// them to protocol responses without string matching.
package sandbox
