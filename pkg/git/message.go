package git

import "strings"

// Commit types used in generated messages.
const (
	CommitTypeFeat  = "feat"
	CommitTypeFix   = "fix"
	CommitTypeChore = "chore"
)

// Trailer marks commits written by jot.
const Trailer = "Written-by: jot"

// FormatMessage builds a Conventional Commit message:
//
//	<type>(<scope>): <subject>
//
//	Written-by: jot
func FormatMessage(ctype, scope, subject string) string {
	if ctype == "" {
		ctype = CommitTypeChore
	}

	var sb strings.Builder
	sb.WriteString(ctype)
	if scope != "" {
		sb.WriteString("(" + scope + ")")
	}
	sb.WriteString(": ")
	sb.WriteString(strings.TrimSpace(subject))
	sb.WriteString("\n\n")
	sb.WriteString(Trailer)
	return sb.String()
}
