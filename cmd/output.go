package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Tiliavir/work-journal/internal/timecalc"
)

// notFound reports an absent record or an empty result. It exits with 1.
func notFound(format string, args ...any) error {
	return &exitError{code: 1, err: fmt.Errorf(format, args...)}
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// dateRange resolves --from/--to/--week style flags into inclusive date keys.
// Empty bounds are left open; --week wins over explicit bounds.
func dateRange(from, to string, week bool, now time.Time) (string, string, error) {
	if week {
		from, to = timecalc.WeekRange(now)
		return from, to, nil
	}
	for _, d := range []string{from, to} {
		if d != "" && !timecalc.IsDateKey(d) {
			return "", "", fmt.Errorf("invalid date %q, want YYYY-MM-DD", d)
		}
	}
	if from != "" && to != "" && from > to {
		return "", "", fmt.Errorf("--from %s is after --to %s", from, to)
	}
	return from, to, nil
}

// dateOrToday validates an optional --date flag.
func dateOrToday(date string) (string, error) {
	if date == "" {
		return store.Today(), nil
	}
	if !timecalc.IsDateKey(date) {
		return "", fmt.Errorf("invalid date %q, want YYYY-MM-DD", date)
	}
	return date, nil
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}
