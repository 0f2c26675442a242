// Package git inspects git work-trees.
//
// Cheap facts are read straight from disk: [IsRepository] and
// [ResolveMetadataDir] look at the .git entry (a directory, or a "gitdir:"
// pointer file for linked worktrees and submodules), and [ReadBranch] parses
// HEAD without spawning a process.
//
// Remote-aware facts go through a [Runner], which shells out to the git CLI
// so user configuration (SSH keys, credential helpers) applies. [ExecRunner]
// bounds every call with a timeout and folds failures into ok=false:
//
//   - [Evaluate]: porcelain status, best-effort fetch, upstream resolution and
//     ahead/behind counts, combined into a [Status]
//   - [ReadOrigin]: URL of the origin remote
//
// None of these functions return errors. A missing git binary, a repository
// without commits or an unreachable remote all degrade to empty values.
package git
