package timebucket

import (
	"strings"
	"time"
)

// Labels holds the short day names used by the date strip.
type Labels struct {
	Yesterday string
	Today     string
	Tomorrow  string
	Weekdays  [7]string // indexed by time.Weekday
}

var EnglishLabels = Labels{
	Yesterday: "Yesterday",
	Today:     "Today",
	Tomorrow:  "Tomorrow",
	Weekdays:  [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
}

var SpanishLabels = Labels{
	Yesterday: "Ayer",
	Today:     "Hoy",
	Tomorrow:  "Mañana",
	Weekdays:  [7]string{"Dom", "Lun", "Mar", "Mié", "Jue", "Vie", "Sáb"},
}

// LabelsFor picks a label set by locale tag, defaulting to English.
func LabelsFor(locale string) Labels {
	if labels, ok := lookupLabels(locale); ok {
		return labels
	}
	return EnglishLabels
}

// SupportedLocale reports whether locale selects a label set of its own.
// Both "es-MX" and "es_MX" style tags are accepted.
func SupportedLocale(locale string) bool {
	_, ok := lookupLabels(locale)
	return ok
}

func lookupLabels(locale string) (Labels, bool) {
	tag := strings.ToLower(strings.TrimSpace(locale))
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		tag = tag[:i]
	}
	switch tag {
	case "en":
		return EnglishLabels, true
	case "es":
		return SpanishLabels, true
	}
	return Labels{}, false
}

func (l Labels) label(offset int, weekday time.Weekday) string {
	switch offset {
	case -1:
		return l.Yesterday
	case 0:
		return l.Today
	case 1:
		return l.Tomorrow
	}
	return l.Weekdays[weekday]
}
