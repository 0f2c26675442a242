// Package scan discovers git repositories below a workspace root.
//
// The walk is depth-first and sequential. At every directory the git probe
// decides whether it is a work-tree root; if so the directory is recorded
// and its children are not searched, so checkouts nested inside a
// repository (vendored copies, submodules) are not reported separately.
// Directories named node_modules, .git, .svn or .hg are skipped, as are
// directories that cannot be listed.
//
// # Depth
//
// The root is depth 0. Directories deeper than [Scanner.MaxDepth] are not
// inspected at all, so MaxDepth 0 only looks at the root itself.
//
// # Inspection
//
// Each discovered repository is turned into a [Repo] by reading its branch
// from HEAD and asking git for origin URL and sync status. Inspections run in
// parallel (bounded by [Scanner.Concurrency]) but results keep the discovery
// order, which is the order os.ReadDir lists entries in (sorted by name).
package scan
