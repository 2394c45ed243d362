package regex

import "regexp"

var (
	// Commit patterns
	ConventionalCommit = regexp.MustCompile(`^(feat|fix|docs|style|refactor|perf|test|build|ci|chore|revert)(\(([^)]+)\))?(!)?:\s*(.+)`)
	BreakingChange     = regexp.MustCompile(`(?i)BREAKING[ -]CHANGE`)

	// Git and Repo patterns
	SSHRepo   = regexp.MustCompile(`^git@([^:]+):([^/]+)/([^/]+?)(?:\.git)?/?$`)
	HTTPSRepo = regexp.MustCompile(`^(?:https?://)?(?:www\.)?([^/]+)/([^/]+)/([^/?#]+)`)
	RepoPart  = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

	// AI response parsing
	JSONObject      = regexp.MustCompile(`(?s)\{.*\}`)
	CategoryField   = regexp.MustCompile(`(?i)category[:\s]+([A-Z]+)`)
	TechnicalField  = regexp.MustCompile(`(?i)technical[:\s]+(.*)`)
	ImpactField     = regexp.MustCompile(`(?i)impact[:\s]+(.*)`)
	BreakingKeyword = regexp.MustCompile(`(?i)breaking`)
	SecurityKeyword = regexp.MustCompile(`(?i)security`)

	// Diff noise
	DiffFileHeader = regexp.MustCompile(`^(\+\+\+|---) (a/|b/|/dev/null)`)
	EmptyComment   = regexp.MustCompile(`^\s*(//|#)\s*$`)
	LogStatement   = regexp.MustCompile(`^\s*(console\.(log|debug|info)|fmt\.Print(f|ln)?|log\.Print(f|ln)?|print\()`)
)
