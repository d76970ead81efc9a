package calendar

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandHolidays(t *testing.T) {
	ranges := []HolidayRange{
		{Start: Date(2025, 8, 15), End: Date(2025, 8, 16)},
		{Start: Date(2025, 8, 27), End: Date(2025, 8, 27)},
		{Start: Date(2025, 9, 29), End: Date(2025, 10, 2)},
	}
	holidays, err := ExpandHolidays(ranges)
	require.NoError(t, err)

	for _, r := range ranges {
		for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
			assert.True(t, holidays.Contains(d), "missing %s", d.Format(time.DateOnly))
		}
	}
	assert.Len(t, holidays, 2+1+4)
	assert.False(t, holidays.Contains(Date(2025, 8, 14)))
	assert.False(t, holidays.Contains(Date(2025, 8, 17)))
	assert.True(t, holidays.Contains(time.Date(2025, 8, 15, 13, 30, 0, 0, time.UTC)))
}

func TestExpandHolidaysInvalidRange(t *testing.T) {
	_, err := ExpandHolidays([]HolidayRange{
		{Start: Date(2025, 8, 16), End: Date(2025, 8, 15)},
	})
	var rangeErr *InvalidRangeError
	require.True(t, errors.As(err, &rangeErr))
	assert.Equal(t, Date(2025, 8, 16), rangeErr.Start)
}

func TestWorkingDays(t *testing.T) {
	holidays, err := ExpandHolidays([]HolidayRange{
		{Start: Date(2025, 8, 15), End: Date(2025, 8, 16)},
	})
	require.NoError(t, err)

	days, err := WorkingDays(Date(2025, 8, 10), Date(2025, 8, 24), holidays)
	require.NoError(t, err)

	// 15 days, minus two Sundays (10th, 17th, 24th are Sundays) and two holidays.
	assert.Len(t, days, 15-3-2)
	for i, d := range days {
		assert.NotEqual(t, time.Sunday, d.Weekday())
		assert.False(t, holidays.Contains(d))
		if i > 0 {
			assert.True(t, days[i-1].Before(d), "not strictly ascending at %d", i)
		}
	}
	assert.Equal(t, Date(2025, 8, 11), days[0])
	assert.Equal(t, Date(2025, 8, 23), days[len(days)-1])
}

func TestWorkingDaysSingleDay(t *testing.T) {
	days, err := WorkingDays(Date(2025, 8, 11), Date(2025, 8, 11), nil)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{Date(2025, 8, 11)}, days)
}

func TestWorkingDaysEndBeforeStart(t *testing.T) {
	_, err := WorkingDays(Date(2025, 10, 30), Date(2025, 7, 14), nil)
	var rangeErr *InvalidRangeError
	assert.True(t, errors.As(err, &rangeErr))
}

func TestNew(t *testing.T) {
	cal, err := New(Date(2025, 7, 14), Date(2025, 10, 30), []HolidayRange{
		{Start: Date(2025, 8, 15), End: Date(2025, 8, 16)},
	})
	require.NoError(t, err)

	assert.True(t, cal.IsWorkingDay(Date(2025, 8, 18)))
	assert.False(t, cal.IsWorkingDay(Date(2025, 8, 15)), "holiday")
	assert.False(t, cal.IsWorkingDay(Date(2025, 8, 17)), "sunday")
	assert.False(t, cal.IsWorkingDay(Date(2025, 11, 3)), "after end")
	assert.True(t, cal.IsHoliday(Date(2025, 8, 16)))

	_, err = New(Date(2025, 7, 14), Date(2025, 10, 30), []HolidayRange{
		{Start: Date(2025, 9, 10), End: Date(2025, 9, 4)},
	})
	var rangeErr *InvalidRangeError
	assert.True(t, errors.As(err, &rangeErr))
}

func TestHolidayRangeJSON(t *testing.T) {
	var r HolidayRange
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Break","start":"2025-09-04","end":"2025-09-10"}`), &r))
	assert.Equal(t, HolidayRange{Name: "Break", Start: Date(2025, 9, 4), End: Date(2025, 9, 10)}, r)

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Break","start":"2025-09-04","end":"2025-09-10"}`, string(data))

	assert.Error(t, json.Unmarshal([]byte(`{"start":"04/09/2025","end":"2025-09-10"}`), &r))
}
