package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGradePrefix(t *testing.T) {
	for prefix, want := range map[string]GradeLevel{
		"G4": GradeG4,
		"g5": GradeG5,
		"G6": GradeG6,
		"p1": GradeP1,
	} {
		got, ok := ParseGradePrefix(prefix)
		require.True(t, ok, "prefix %q", prefix)
		assert.Equal(t, want, got)
	}

	for _, prefix := range []string{"", "G", "G7", "XY", "1G"} {
		_, ok := ParseGradePrefix(prefix)
		assert.False(t, ok, "prefix %q", prefix)
	}
}

func TestGradeLevelLegacyTable(t *testing.T) {
	assert.Equal(t, "g4", GradeG4.LegacyTable())
	assert.Equal(t, "p1", GradeP1.LegacyTable())
}

func TestGradeLabelRoundTrip(t *testing.T) {
	for _, grade := range GradeLevels {
		back, ok := GradeFromLabel(grade.Label())
		require.True(t, ok, "label %q", grade.Label())
		assert.Equal(t, grade, back)
	}
}

func TestMonthIndexOrdersUnknownLast(t *testing.T) {
	assert.Equal(t, 0, MonthIndex("september"))
	assert.Equal(t, 3, MonthIndex(" December "))
	assert.Equal(t, len(CanonicalMonths), MonthIndex("july"))
}

func TestDecodeMonthBlob(t *testing.T) {
	raw := []byte(`{
		"session1_attended": true,
		"session1_perf": "ممتاز",
		"session1_quiz": "9",
		"session1_q1": 10,
		"session2_attended": false,
		"final_evaluation": "جيد جدا"
	}`)

	mp, ok := DecodeMonthBlob("September", raw)
	require.True(t, ok)
	assert.Equal(t, "september", mp.Month)
	assert.Equal(t, "جيد جدا", mp.FinalEvaluation)
	assert.True(t, mp.Sessions[0].Attended)
	assert.Equal(t, "ممتاز", mp.Sessions[0].Performance)
	assert.Equal(t, 9, mp.Sessions[0].Quiz, "string-encoded quiz scores must decode")
	assert.Equal(t, 10, mp.Sessions[0].Question1)
	assert.False(t, mp.Sessions[1].Attended)
}

func TestDecodeMonthBlobSkipsEmpty(t *testing.T) {
	_, ok := DecodeMonthBlob("september", nil)
	assert.False(t, ok)

	_, ok = DecodeMonthBlob("september", []byte(`{}`))
	assert.False(t, ok, "an all-zero month must be skipped")

	_, ok = DecodeMonthBlob("september", []byte(`not json`))
	assert.False(t, ok)
}

func TestDecodeMonthBlobToleratesNonNumeric(t *testing.T) {
	raw := []byte(`{"session1_attended": true, "session1_quiz": "غير محدد"}`)

	mp, ok := DecodeMonthBlob("october", raw)
	require.True(t, ok)
	assert.Zero(t, mp.Sessions[0].Quiz)
}
