package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	appErrors "github.com/noah-isme/uni-attend-api/pkg/errors"
)

const (
	studentSuffixStart = 1
	studentSuffixMax   = 999
	teacherSuffixStart = 100
	teacherSuffixMax   = 9999
)

// IDGenerator derives the next sequential identifier for a role from the
// last one issued. Student IDs are YYMM plus a three digit suffix that
// starts at 001 and resets when the year-month period rolls over. Teacher
// IDs are YYYY-NNNN with the suffix starting at 0100 and resetting on year
// rollover. The clock is injected so tests can pin the period.
type IDGenerator struct {
	now func() time.Time
}

// NewIDGenerator constructs a generator on the real clock.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{now: time.Now}
}

// NewIDGeneratorWithClock constructs a generator on the given clock.
func NewIDGeneratorWithClock(now func() time.Time) *IDGenerator {
	return &IDGenerator{now: now}
}

// NextStudentID returns the identifier following last, or the first ID of
// the current period when last is empty or belongs to an earlier period.
func (g *IDGenerator) NextStudentID(last string) (string, error) {
	period := g.now().UTC().Format("0601")
	if last == "" || !strings.HasPrefix(last, period) {
		return fmt.Sprintf("%s%03d", period, studentSuffixStart), nil
	}
	if len(last) != len(period)+3 || !allDigits(last[len(period):]) {
		return "", appErrors.Wrap(fmt.Errorf("malformed student id %q", last), appErrors.ErrDataIntegrity.Code, appErrors.ErrDataIntegrity.Status, "stored student id sequence is corrupt")
	}
	suffix, err := strconv.Atoi(last[len(period):])
	if err != nil {
		return "", appErrors.Wrap(fmt.Errorf("malformed student id %q", last), appErrors.ErrDataIntegrity.Code, appErrors.ErrDataIntegrity.Status, "stored student id sequence is corrupt")
	}
	if suffix >= studentSuffixMax {
		return "", appErrors.Clone(appErrors.ErrDataIntegrity, fmt.Sprintf("student id space exhausted for period %s", period))
	}
	return fmt.Sprintf("%s%03d", period, suffix+1), nil
}

// NextTeacherID returns the identifier following last, or the first ID of
// the current year when last is empty or belongs to an earlier year.
func (g *IDGenerator) NextTeacherID(last string) (string, error) {
	year := g.now().UTC().Format("2006")
	prefix := year + "-"
	if last == "" || !strings.HasPrefix(last, prefix) {
		return fmt.Sprintf("%s%04d", prefix, teacherSuffixStart), nil
	}
	if len(last) != len(prefix)+4 || !allDigits(last[len(prefix):]) {
		return "", appErrors.Wrap(fmt.Errorf("malformed teacher id %q", last), appErrors.ErrDataIntegrity.Code, appErrors.ErrDataIntegrity.Status, "stored teacher id sequence is corrupt")
	}
	suffix, err := strconv.Atoi(last[len(prefix):])
	if err != nil {
		return "", appErrors.Wrap(fmt.Errorf("malformed teacher id %q", last), appErrors.ErrDataIntegrity.Code, appErrors.ErrDataIntegrity.Status, "stored teacher id sequence is corrupt")
	}
	if suffix >= teacherSuffixMax {
		return "", appErrors.Clone(appErrors.ErrDataIntegrity, fmt.Sprintf("teacher id space exhausted for year %s", year))
	}
	return fmt.Sprintf("%s%04d", prefix, suffix+1), nil
}

// allDigits reports whether s is non-empty and contains only ASCII digits.
// strconv.Atoi alone is too lenient here because it accepts a sign.
func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
