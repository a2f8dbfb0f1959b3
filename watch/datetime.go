package watch

import "time"

// DateTime is a wall-clock calendar value with minute precision plus a
// seconds field for tick alignment. Fields are assumed caller-validated:
// Year 0-4095, Month 1-12, Day 1-31, Hour 0-23, Minute 0-59.
type DateTime struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int
}

// FromTime converts a stdlib time to a DateTime in its own location.
func FromTime(t time.Time) DateTime {
	return DateTime{
		Year:   t.Year(),
		Month:  int(t.Month()),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
	}
}

// LinearMinutes converts the calendar value to minutes on a single
// monotonic integer axis: Julian Day Number (proleptic Gregorian) times
// 1440 plus the time of day. Differences and comparisons of the result
// are exact integers for the whole supported year range.
func (dt DateTime) LinearMinutes() int64 {
	y := int64(dt.Year)
	m := int64(dt.Month)
	d := int64(dt.Day)

	a := (m - 14) / 12
	jdn := (1461*(y+4800+a))/4 +
		(367*(m-2-12*a))/12 -
		(3*((y+4900+a)/100))/4 +
		d - 32075

	return jdn*1440 + int64(dt.Hour)*60 + int64(dt.Minute)
}

// Compare orders two calendar values on the linear-minutes axis.
// It returns -1 if a is before b, 0 if equal, +1 if a is after b.
// Seconds do not participate; the axis has minute resolution.
func Compare(a, b DateTime) int {
	am, bm := a.LinearMinutes(), b.LinearMinutes()
	switch {
	case am < bm:
		return -1
	case am > bm:
		return 1
	default:
		return 0
	}
}

// DaysInMonth returns the number of days in the given month of the given
// year under the Gregorian leap rule. Day 0 of the next month is the last
// day of this one.
func DaysInMonth(month, year int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Packed stored layout, least significant bits first:
//
//	year:12 month:4 day:5 hour:5 minute:6
const (
	packYearBits   = 12
	packMonthBits  = 4
	packDayBits    = 5
	packHourBits   = 5
	packMinuteBits = 6

	packMonthShift  = packYearBits
	packDayShift    = packMonthShift + packMonthBits
	packHourShift   = packDayShift + packDayBits
	packMinuteShift = packHourShift + packHourBits
)

// Pack encodes the value into the 32-bit stored layout. Seconds are not
// stored. Fields outside their bit width are truncated, not validated.
func (dt DateTime) Pack() uint32 {
	return uint32(dt.Year)&(1<<packYearBits-1) |
		(uint32(dt.Month)&(1<<packMonthBits-1))<<packMonthShift |
		(uint32(dt.Day)&(1<<packDayBits-1))<<packDayShift |
		(uint32(dt.Hour)&(1<<packHourBits-1))<<packHourShift |
		(uint32(dt.Minute)&(1<<packMinuteBits-1))<<packMinuteShift
}

// Unpack decodes a value produced by Pack. The seconds field is zero.
func Unpack(v uint32) DateTime {
	return DateTime{
		Year:   int(v & (1<<packYearBits - 1)),
		Month:  int(v >> packMonthShift & (1<<packMonthBits - 1)),
		Day:    int(v >> packDayShift & (1<<packDayBits - 1)),
		Hour:   int(v >> packHourShift & (1<<packHourBits - 1)),
		Minute: int(v >> packMinuteShift & (1<<packMinuteBits - 1)),
	}
}
