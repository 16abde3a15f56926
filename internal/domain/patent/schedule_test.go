package patent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2020-01-15", "2020-01-15", true},
		{"2020/1/5", "2020-01-05", true},
		{"2020.12.31", "2020-12-31", true},
		{"2024-02-29", "2024-02-29", true},
		{"2023-02-29", "", false},
		{"2020-02-30", "", false},
		{"2020-13-01", "", false},
		{"20200115", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := NormalizeDate(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestComputeSchedule_TermByType(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	inv, ok := ComputeSchedule("2020-01-15", TypeInvention, now)
	require.True(t, ok)
	assert.Equal(t, "2020-01-15 ~ 2040-01-15", inv.Duration)

	util, _ := ComputeSchedule("2020-01-15", TypeUtility, now)
	assert.Equal(t, "2030-01-15", util.ExpiryDate)

	des, _ := ComputeSchedule("2020-01-15", TypeDesign, now)
	assert.Equal(t, "2035-01-15", des.ExpiryDate)
}

func TestComputeSchedule_Annuity(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	passed, _ := ComputeSchedule("2020-01-15", TypeInvention, now)
	assert.Equal(t, "2025-01-15", passed.AnnuityDate)
	assert.Equal(t, 5, passed.AnnuityYear)

	upcoming, _ := ComputeSchedule("2020-09-10", TypeInvention, now)
	assert.Equal(t, "2024-09-10", upcoming.AnnuityDate)

	today, _ := ComputeSchedule("2019-06-01", TypeInvention, now)
	assert.Equal(t, "2024-06-01", today.AnnuityDate)

	future, _ := ComputeSchedule("2026-03-01", TypeInvention, now)
	assert.Equal(t, 1, future.AnnuityYear)
}

func TestComputeSchedule_AnnuityDueTodayAfterMidnight(t *testing.T) {
	afternoon := time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC)

	today, ok := ComputeSchedule("2019-06-01", TypeInvention, afternoon)
	require.True(t, ok)
	assert.Equal(t, "2024-06-01", today.AnnuityDate)
	assert.Equal(t, 6, today.AnnuityYear)

	yesterday, _ := ComputeSchedule("2019-05-31", TypeInvention, afternoon)
	assert.Equal(t, "2025-05-31", yesterday.AnnuityDate)
}

func TestComputeSchedule_Invalid(t *testing.T) {
	_, ok := ComputeSchedule("2020-02-30", TypeInvention, time.Now())
	assert.False(t, ok)
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	d, ok := DaysUntil("2024-06-02", now)
	require.True(t, ok)
	assert.Equal(t, 1, d)

	d, _ = DaysUntil("2024-06-01", now)
	assert.Equal(t, 0, d)

	d, _ = DaysUntil("2024-08-30", now)
	assert.Equal(t, 90, d)

	_, ok = DaysUntil("", now)
	assert.False(t, ok)
}

//Personal.AI order the ending
