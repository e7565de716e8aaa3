package winsvc

import "strings"

type severity int

const (
	severityInfo severity = iota
	severityWarning
	severityError
)

// eventID is the Event Log event identifier for s.
func (s severity) eventID() uint32 {
	switch s {
	case severityError:
		return 3
	case severityWarning:
		return 2
	default:
		return 1
	}
}

// severityOf recovers the level of a line formatted by the package logger
// in any of its text, json or logfmt forms.
func severityOf(line string) severity {
	switch {
	case hasLevel(line, "ERRO", "error") || hasLevel(line, "FATA", "fatal"):
		return severityError
	case hasLevel(line, "WARN", "warn"):
		return severityWarning
	default:
		return severityInfo
	}
}

func hasLevel(line, text, name string) bool {
	return strings.HasPrefix(line, text+" ") ||
		strings.Contains(line, " "+text+" ") ||
		strings.Contains(line, `"level":"`+name+`"`) ||
		strings.Contains(line, "level="+name)
}
