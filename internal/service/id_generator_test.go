package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/uni-attend-api/pkg/errors"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNextStudentID(t *testing.T) {
	sep2025 := time.Date(2025, time.September, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		last string
		want string
	}{
		{"first ever", sep2025, "", "2509001"},
		{"increments within period", sep2025, "2509004", "2509005"},
		{"period rollover resets", time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC), "2509317", "2510001"},
		{"year rollover resets", time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC), "2512042", "2601001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := NewIDGeneratorWithClock(fixedClock(tt.now))
			got, err := gen.NextStudentID(tt.last)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextStudentIDCorruptState(t *testing.T) {
	gen := NewIDGeneratorWithClock(fixedClock(time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)))

	_, err := gen.NextStudentID("2509xyz")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDataIntegrity.Code, appErrors.FromError(err).Code)

	// Signed suffixes parse under Atoi but are still corrupt state.
	_, err = gen.NextStudentID("2509-12")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDataIntegrity.Code, appErrors.FromError(err).Code)

	_, err = gen.NextStudentID("2509+12")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDataIntegrity.Code, appErrors.FromError(err).Code)

	_, err = gen.NextStudentID("2509999")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDataIntegrity.Code, appErrors.FromError(err).Code)
}

func TestNextTeacherID(t *testing.T) {
	jun2025 := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		last string
		want string
	}{
		{"first ever", jun2025, "", "2025-0100"},
		{"increments within year", jun2025, "2025-0100", "2025-0101"},
		{"year rollover resets", time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), "2025-0242", "2026-0100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := NewIDGeneratorWithClock(fixedClock(tt.now))
			got, err := gen.NextTeacherID(tt.last)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextTeacherIDCorruptState(t *testing.T) {
	gen := NewIDGeneratorWithClock(fixedClock(time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)))

	_, err := gen.NextTeacherID("2025-01a0")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDataIntegrity.Code, appErrors.FromError(err).Code)

	_, err = gen.NextTeacherID("2025--123")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDataIntegrity.Code, appErrors.FromError(err).Code)

	_, err = gen.NextTeacherID("2025-+123")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDataIntegrity.Code, appErrors.FromError(err).Code)

	_, err = gen.NextTeacherID("2025-9999")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDataIntegrity.Code, appErrors.FromError(err).Code)
}
