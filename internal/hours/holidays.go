package hours

import "time"

// HolidayCalendar reports whether a given date is a holiday closure, and
// names it for display.
type HolidayCalendar interface {
	IsHoliday(date time.Time) bool
	Name(date time.Time) string
}

// FixedDateCalendar is a calendar of holidays keyed by "MM-DD", for the
// fixed-date observances. The Hebrew-calendar holidays (Rosh Hashanah,
// Yom Kippur, Pesach, ...) move every year and no lunisolar calculation
// is done here; year-specific closures are entered as special days
// ("YYYY-MM-DD") by an admin instead. FixedDateCalendar only covers
// closures that fall on the same Gregorian month-day every year.
type FixedDateCalendar struct {
	byMonthDay map[string]string
}

// NewFixedDateCalendar builds an empty calendar; entries are registered
// with Add. Israeli Independence Day is lunisolar too, so no holiday is
// built in; year-specific holidays are entered as special days by the admin.
func NewFixedDateCalendar() *FixedDateCalendar {
	return &FixedDateCalendar{byMonthDay: map[string]string{}}
}

// Add registers a fixed month-day closure (e.g. "01-01" for New Year's Day
// in businesses that observe it).
func (c *FixedDateCalendar) Add(monthDay, name string) {
	c.byMonthDay[monthDay] = name
}

func (c *FixedDateCalendar) IsHoliday(date time.Time) bool {
	_, ok := c.byMonthDay[date.Format("01-02")]
	return ok
}

func (c *FixedDateCalendar) Name(date time.Time) string {
	return c.byMonthDay[date.Format("01-02")]
}
