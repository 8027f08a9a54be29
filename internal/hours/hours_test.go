package hours

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadlanit/concierge/internal/store"
)

// fakeDriver implements store.Driver by embedding the nil interface and
// overriding only the hours-related methods this package's tests exercise;
// any other method call would panic on a nil embedded interface, which is
// fine since these tests never reach them.
type fakeDriver struct {
	store.Driver

	weekly  map[int]*store.BusinessHours
	special map[string]*store.SpecialDay
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		weekly:  map[int]*store.BusinessHours{},
		special: map[string]*store.SpecialDay{},
	}
}

func (f *fakeDriver) GetHoursForDay(_ context.Context, dayOfWeek int) (*store.BusinessHours, error) {
	return f.weekly[dayOfWeek], nil
}

func (f *fakeDriver) GetSpecialDay(_ context.Context, date string) (*store.SpecialDay, error) {
	return f.special[date], nil
}

func strp(s string) *string { return &s }

func newResolver(driver *fakeDriver, cal HolidayCalendar) *Resolver {
	return NewResolver(store.New(driver), cal)
}

func TestStatusFor_RegularWeeklyHours(t *testing.T) {
	driver := newFakeDriver()
	// 2026-08-03 is a Monday.
	driver.weekly[1] = &store.BusinessHours{DayOfWeek: 1, OpenTime: strp("09:00"), CloseTime: strp("18:00")}
	r := newResolver(driver, NewFixedDateCalendar())

	date := time.Date(2026, 8, 3, 0, 0, 0, 0, BusinessTimezone)
	status, err := r.StatusFor(context.Background(), date)
	require.NoError(t, err)

	assert.True(t, status.Open)
	assert.Equal(t, SourceRegular, status.Source)
	assert.Equal(t, "09:00", status.OpenTime)
	assert.Equal(t, "18:00", status.CloseTime)
	assert.Equal(t, "Monday", status.DayName)
}

func TestStatusFor_ClosedWeekday(t *testing.T) {
	driver := newFakeDriver()
	driver.weekly[6] = &store.BusinessHours{DayOfWeek: 6, Closed: true}
	r := newResolver(driver, NewFixedDateCalendar())

	// 2026-08-08 is a Saturday.
	date := time.Date(2026, 8, 8, 0, 0, 0, 0, BusinessTimezone)
	status, err := r.StatusFor(context.Background(), date)
	require.NoError(t, err)

	assert.False(t, status.Open)
	assert.Equal(t, SourceRegular, status.Source)
}

func TestStatusFor_SpecialDayOverridesWeekly(t *testing.T) {
	driver := newFakeDriver()
	driver.weekly[1] = &store.BusinessHours{DayOfWeek: 1, OpenTime: strp("09:00"), CloseTime: strp("18:00")}
	driver.special["2026-08-03"] = &store.SpecialDay{Date: "2026-08-03", Name: "Staff event", Closed: true}
	r := newResolver(driver, NewFixedDateCalendar())

	date := time.Date(2026, 8, 3, 0, 0, 0, 0, BusinessTimezone)
	status, err := r.StatusFor(context.Background(), date)
	require.NoError(t, err)

	assert.False(t, status.Open)
	assert.Equal(t, SourceSpecialDay, status.Source)
	assert.Equal(t, "Staff event", status.Reason)
}

func TestStatusFor_HolidayOverridesWeekly(t *testing.T) {
	driver := newFakeDriver()
	driver.weekly[1] = &store.BusinessHours{DayOfWeek: 1, OpenTime: strp("09:00"), CloseTime: strp("18:00")}
	cal := NewFixedDateCalendar()
	cal.Add("08-03", "Made-up Holiday")
	r := newResolver(driver, cal)

	date := time.Date(2026, 8, 3, 0, 0, 0, 0, BusinessTimezone)
	status, err := r.StatusFor(context.Background(), date)
	require.NoError(t, err)

	assert.False(t, status.Open)
	assert.Equal(t, SourceHoliday, status.Source)
	assert.Equal(t, "Made-up Holiday", status.Reason)
}

func TestStatusFor_ErevChag(t *testing.T) {
	driver := newFakeDriver()
	driver.weekly[1] = &store.BusinessHours{DayOfWeek: 1, OpenTime: strp("09:00"), CloseTime: strp("14:00")}
	cal := NewFixedDateCalendar()
	cal.Add("08-04", "Made-up Holiday") // day after the Monday under test
	r := newResolver(driver, cal)

	date := time.Date(2026, 8, 3, 0, 0, 0, 0, BusinessTimezone)
	status, err := r.StatusFor(context.Background(), date)
	require.NoError(t, err)

	assert.True(t, status.Open)
	assert.Equal(t, SourceErevChag, status.Source)
}

func TestIsCurrentlyOpen_DuringHours(t *testing.T) {
	driver := newFakeDriver()
	driver.weekly[1] = &store.BusinessHours{DayOfWeek: 1, OpenTime: strp("09:00"), CloseTime: strp("18:00")}
	driver.weekly[0] = &store.BusinessHours{DayOfWeek: 0, Closed: true}
	r := newResolver(driver, NewFixedDateCalendar())

	now := time.Date(2026, 8, 3, 12, 0, 0, 0, BusinessTimezone)
	status, err := r.IsCurrentlyOpen(context.Background(), now)
	require.NoError(t, err)

	assert.True(t, status.Open)
	assert.Contains(t, status.Message, "Open until 18:00")
}

func TestIsCurrentlyOpen_BeforeOpening(t *testing.T) {
	driver := newFakeDriver()
	driver.weekly[1] = &store.BusinessHours{DayOfWeek: 1, OpenTime: strp("09:00"), CloseTime: strp("18:00")}
	driver.weekly[0] = &store.BusinessHours{DayOfWeek: 0, Closed: true}
	r := newResolver(driver, NewFixedDateCalendar())

	now := time.Date(2026, 8, 3, 7, 0, 0, 0, BusinessTimezone)
	status, err := r.IsCurrentlyOpen(context.Background(), now)
	require.NoError(t, err)

	assert.False(t, status.Open)
	assert.Contains(t, status.Message, "Not yet open today")
}

func TestIsCurrentlyOpen_OvernightShiftSpillsIntoNextDay(t *testing.T) {
	driver := newFakeDriver()
	// Sunday shift runs 20:00 -> 02:00, spilling into Monday's early hours.
	driver.weekly[0] = &store.BusinessHours{DayOfWeek: 0, OpenTime: strp("20:00"), CloseTime: strp("02:00")}
	driver.weekly[1] = &store.BusinessHours{DayOfWeek: 1, Closed: true}
	r := newResolver(driver, NewFixedDateCalendar())

	// 2026-08-03 01:00 is a Monday in the small hours, still inside Sunday's shift.
	now := time.Date(2026, 8, 3, 1, 0, 0, 0, BusinessTimezone)
	status, err := r.IsCurrentlyOpen(context.Background(), now)
	require.NoError(t, err)

	assert.True(t, status.Open)
	assert.Contains(t, status.Message, "Open until 02:00")
}

func TestIsCurrentlyOpen_ClosedWithNextOpening(t *testing.T) {
	driver := newFakeDriver()
	for d := 0; d <= 6; d++ {
		driver.weekly[d] = &store.BusinessHours{DayOfWeek: d, Closed: true}
	}
	driver.weekly[3] = &store.BusinessHours{DayOfWeek: 3, OpenTime: strp("10:00"), CloseTime: strp("16:00")}
	r := newResolver(driver, NewFixedDateCalendar())

	// Monday 2026-08-03; next open day is Wednesday.
	now := time.Date(2026, 8, 3, 12, 0, 0, 0, BusinessTimezone)
	status, err := r.IsCurrentlyOpen(context.Background(), now)
	require.NoError(t, err)

	assert.False(t, status.Open)
	assert.True(t, status.HasNext)
	assert.Contains(t, status.NextOpening, "Wednesday")
}

func TestNextOpening_LabelsTomorrowSpecially(t *testing.T) {
	driver := newFakeDriver()
	for d := 0; d <= 6; d++ {
		driver.weekly[d] = &store.BusinessHours{DayOfWeek: d, Closed: true}
	}
	driver.weekly[2] = &store.BusinessHours{DayOfWeek: 2, OpenTime: strp("09:00"), CloseTime: strp("17:00")}
	r := newResolver(driver, NewFixedDateCalendar())

	// Monday 2026-08-03; Tuesday is tomorrow.
	from := time.Date(2026, 8, 3, 12, 0, 0, 0, BusinessTimezone)
	_, label, err := r.NextOpening(context.Background(), from)
	require.NoError(t, err)
	assert.Equal(t, "tomorrow at 09:00", label)
}

func TestFixedDateCalendar_AddAndLookup(t *testing.T) {
	cal := NewFixedDateCalendar()
	cal.Add("01-01", "New Year's Day")

	newYears := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	other := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	assert.True(t, cal.IsHoliday(newYears))
	assert.Equal(t, "New Year's Day", cal.Name(newYears))
	assert.False(t, cal.IsHoliday(other))
}
