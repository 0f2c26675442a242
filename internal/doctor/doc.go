// Package doctor diagnoses and repairs wsi's on-disk state.
//
// The doctor package detects and optionally repairs issues including:
//
//   - Environment issues: git missing from PATH and an invalid config file.
//     These are reported only.
//
//   - Cache issues: a cache file that is not valid JSON, cached roots whose
//     directory is gone, and cached repositories that moved or stopped being
//     git repositories.
//
//   - History issues: a corrupt history file and entries for repositories
//     that no longer exist.
//
// # Usage
//
//	report, err := doctor.Run(ctx, doctor.Options{Store: store, HistoryFile: path})
//	report.Print(os.Stderr)
//
// With Options.Fix set, fixable issues are repaired after the checks and
// [Report.Fixed] counts them. Fixing prunes the cache in place, so lastScan
// stamps of surviving roots are kept.
package doctor
