package errors

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

// ValidateHours checks the visible hour window of a grid.
//
// startHour must lie in 0..23 and endHour in startHour+1..24.
func ValidateHours(startHour, endHour int) error {
	if startHour < 0 || startHour > 23 {
		return New(ErrCodeInvalidHour, "start hour %d out of range (0-23)", startHour)
	}
	if endHour <= startHour || endHour > 24 {
		return New(ErrCodeInvalidHour, "end hour %d must be after start hour %d and at most 24", endHour, startHour)
	}
	return nil
}

// ValidatePixelsPerHour checks the vertical scale of a grid.
func ValidatePixelsPerHour(pph float64) error {
	if !(pph > 0) {
		return New(ErrCodeInvalidInput, "pixels per hour must be positive, got %v", pph)
	}
	return nil
}

// ValidateTimezone resolves an IANA zone name. The empty string selects
// UTC and "Local" the process zone.
func ValidateTimezone(name string) (*time.Location, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, Wrap(ErrCodeInvalidTimezone, err, "unknown timezone %q", name)
	}
	return loc, nil
}

// ValidateDate checks a YYYY-MM-DD date. The empty string is accepted and
// means "today" to callers.
func ValidateDate(date string) error {
	if date == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return Wrap(ErrCodeInvalidDate, err, "invalid date %q (want YYYY-MM-DD)", date)
	}
	return nil
}

// ValidatePath validates a local file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 1024 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 1024
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateRelativePath additionally rejects absolute paths and traversal.
// It is used for paths received over the network.
func ValidateRelativePath(path string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}
	return nil
}

// ValidateURL validates a feed URL. http, https and webcal are accepted.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidSource, "URL cannot be empty")
	}
	for _, scheme := range []string{"http://", "https://", "webcal://"} {
		if strings.HasPrefix(rawURL, scheme) && len(rawURL) > len(scheme) {
			return nil
		}
	}
	return New(ErrCodeInvalidSource, "URL must use http, https or webcal scheme")
}

// IsURL reports whether s looks like a remote feed rather than a path.
func IsURL(s string) bool {
	return strings.Contains(s, "://") && !strings.HasPrefix(s, "sqlite://")
}

// ValidateSource validates a source spec: a feed URL, a sqlite:// DSN or a
// local path.
func ValidateSource(spec string) error {
	switch {
	case spec == "":
		return New(ErrCodeInvalidSource, "source cannot be empty")
	case strings.HasPrefix(spec, "sqlite://"):
		return ValidatePath(strings.TrimPrefix(spec, "sqlite://"))
	case IsURL(spec):
		return ValidateURL(spec)
	default:
		return ValidatePath(spec)
	}
}

var colorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateColor accepts #rgb and #rrggbb colours. The empty string means
// "unset" and is accepted.
func ValidateColor(color string) error {
	if color == "" || colorRegex.MatchString(color) {
		return nil
	}
	return New(ErrCodeInvalidInput, "invalid colour %q (want #rgb or #rrggbb)", color)
}
