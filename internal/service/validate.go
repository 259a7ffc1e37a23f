package service

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	dom "taskmanager/internal/domain"
)

const (
	minPasswordLen = 8
	// bcrypt only hashes the first 72 bytes and rejects longer input.
	maxPasswordBytes = 72
	minTitleLen    = 3
	maxTitleLen    = 100
	maxCategoryLen = 50
	maxUsernameLen = 50
	maxEmailLen    = 100
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// dueDateLayouts are the ISO-8601 shapes accepted for due_date. Inputs
// without an offset are taken as UTC.
var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDueDate parses an ISO-8601 date or date-time.
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, invalid("due_date must be an ISO-8601 date or datetime")
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	n := utf8.RuneCountInString(title)
	if n < minTitleLen || n > maxTitleLen {
		return "", invalid("title must be between %d and %d characters", minTitleLen, maxTitleLen)
	}
	return title, nil
}

func validatePriority(p string) (dom.Priority, error) {
	pr := dom.Priority(p)
	if !pr.Valid() {
		return "", invalid("priority must be high, medium, or low")
	}
	return pr, nil
}

func validateCategory(c string) (string, error) {
	c = strings.TrimSpace(c)
	if c == "" {
		return dom.DefaultCategory, nil
	}
	if utf8.RuneCountInString(c) > maxCategoryLen {
		return "", invalid("category must be at most %d characters", maxCategoryLen)
	}
	return c, nil
}
