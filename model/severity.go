package model

import "strings"

// Severity classifies a user-facing notice. The server's "type" field
// maps onto it case-insensitively.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// ParseSeverity maps a server severity hint to a Severity. Understands
// the legacy bootstrap tags ("danger", "primary") alongside the
// canonical names. Unknown values come back as info.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "success":
		return SeveritySuccess
	case "warning", "warn":
		return SeverityWarning
	case "error", "danger":
		return SeverityError
	default:
		return SeverityInfo
	}
}
