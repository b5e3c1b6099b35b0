package sqlscript

import "strings"

// Statement kinds reported by Kind.
const (
	KindDML     = "DML"
	KindDDL     = "DDL"
	KindTCL     = "TCL"
	KindUnknown = "UNKNOWN"
)

var (
	dmlKeywords = map[string]bool{"SELECT": true, "INSERT": true, "UPDATE": true, "DELETE": true, "WITH": true, "COPY": true, "MERGE": true}
	ddlKeywords = map[string]bool{"CREATE": true, "ALTER": true, "DROP": true, "TRUNCATE": true, "RENAME": true, "ATTACH": true, "DETACH": true}
	tclKeywords = map[string]bool{"BEGIN": true, "START": true, "COMMIT": true, "END": true, "ROLLBACK": true}
)

// Kind classifies a statement by its first keyword, ignoring leading
// comments.
func Kind(stmt string) string {
	word := firstWord(stripLeadingComments(stmt))
	if word == "" {
		return KindUnknown
	}
	first := strings.ToUpper(word)
	switch {
	case dmlKeywords[first]:
		return KindDML
	case ddlKeywords[first]:
		return KindDDL
	case tclKeywords[first]:
		return KindTCL
	default:
		return KindUnknown
	}
}

func stripLeadingComments(s string) string {
	for {
		s = strings.TrimSpace(s)
		switch {
		case strings.HasPrefix(s, "--"):
			nl := strings.IndexByte(s, '\n')
			if nl < 0 {
				return ""
			}
			s = s[nl+1:]
		case strings.HasPrefix(s, "/*"):
			end := strings.Index(s[2:], "*/")
			if end < 0 {
				return ""
			}
			s = s[end+4:]
		default:
			return s
		}
	}
}

func firstWord(s string) string {
	end := strings.IndexFunc(s, func(r rune) bool {
		return !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
	})
	if end < 0 {
		return s
	}
	return s[:end]
}
