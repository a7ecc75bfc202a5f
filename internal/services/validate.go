package services

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const birthdateLayout = "2006-01-02"

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func normalizeEmail(email string) (string, bool) {
	email = strings.ToLower(strings.TrimSpace(email))
	return email, emailRegexp.MatchString(email)
}

func isUUID(s string) bool {
	return uuid.Validate(s) == nil
}

// parseBirthdate accepts YYYY-MM-DD dates that are not in the future.
func parseBirthdate(s string, now time.Time) (time.Time, bool) {
	d, err := time.Parse(birthdateLayout, strings.TrimSpace(s))
	if err != nil || d.After(now) {
		return time.Time{}, false
	}
	return d, true
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
