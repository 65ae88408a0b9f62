// Package calendar knows which days the Brazilian FX market is closed.
package calendar

import "time"

// fixedHolidays are national holidays keyed by "MM-DD".
var fixedHolidays = map[string]string{
	"01-01": "Confraternização Universal",
	"04-21": "Tiradentes",
	"05-01": "Dia do Trabalho",
	"09-07": "Independência do Brasil",
	"10-12": "Nossa Senhora Aparecida",
	"11-02": "Finados",
	"11-15": "Proclamação da República",
	"11-20": "Dia da Consciência Negra",
	"12-25": "Natal",
}

// HolidayName returns the name of the Brazilian national holiday falling on d,
// including the Easter-based ones, and false when d is not a holiday.
func HolidayName(d time.Time) (string, bool) {
	if name, ok := fixedHolidays[d.Format("01-02")]; ok {
		return name, true
	}

	day := truncateToDate(d)
	easter := easterSunday(d.Year(), d.Location())
	movable := []struct {
		offset int
		name   string
	}{
		{-48, "Carnaval"},
		{-47, "Carnaval"},
		{-2, "Sexta-feira Santa"},
		{60, "Corpus Christi"},
	}
	for _, m := range movable {
		if easter.AddDate(0, 0, m.offset).Equal(day) {
			return m.name, true
		}
	}
	return "", false
}

// IsBusinessDay reports whether d is a Brazilian business day: not a weekend
// and not a national or movable holiday.
func IsBusinessDay(d time.Time) bool {
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	_, holiday := HolidayName(d)
	return !holiday
}

// LastNBusinessDays returns the last n business days up to and including from,
// most recent first.
func LastNBusinessDays(n int, from time.Time) []time.Time {
	out := make([]time.Time, 0, n)
	d := truncateToDate(from)

	for len(out) < n {
		if IsBusinessDay(d) {
			out = append(out, d)
		}
		d = d.AddDate(0, 0, -1)
	}
	return out
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// easterSunday returns the date of Easter Sunday for a given year
// (Meeus/Jones/Butcher algorithm).
func easterSunday(year int, loc *time.Location) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
}
