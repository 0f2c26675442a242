package doctor

// IssueCategory groups issues by type.
type IssueCategory string

const (
	// CategoryEnv represents problems with git or the config file.
	CategoryEnv IssueCategory = "environment"
	// CategoryCache represents problems with cached scans.
	CategoryCache IssueCategory = "cache"
	// CategoryHistory represents problems with the find history.
	CategoryHistory IssueCategory = "history"
)

// Fix actions. An issue without one can only be fixed by the user.
const (
	FixRemoveRoot    = "remove_root"
	FixRemoveRepo    = "remove_repo"
	FixResetCache    = "reset_cache"
	FixRemoveHistory = "remove_history_entry"
	FixResetHistory  = "reset_history"
)

// Issue represents a problem detected by doctor.
// Key is a root, a repository path or a file; Root is set for repository
// issues only.
type Issue struct {
	Key         string        `json:"key" yaml:"key"`
	Root        string        `json:"root,omitempty" yaml:"root,omitempty"`
	Description string        `json:"description" yaml:"description"`
	FixAction   string        `json:"fix_action,omitempty" yaml:"fix_action,omitempty"`
	Category    IssueCategory `json:"category" yaml:"category"`
}

// Fixable reports whether --fix can resolve the issue.
func (i Issue) Fixable() bool {
	return i.FixAction != ""
}

// IssueStats tracks counts by category.
type IssueStats struct {
	RootsValid     int `json:"roots_valid" yaml:"roots_valid"`
	ReposValid     int `json:"repos_valid" yaml:"repos_valid"`
	CacheIssues    int `json:"cache_issues" yaml:"cache_issues"`
	HistoryValid   int `json:"history_valid" yaml:"history_valid"`
	HistoryIssues  int `json:"history_issues" yaml:"history_issues"`
	EnvironmentBad int `json:"environment_issues" yaml:"environment_issues"`
}
