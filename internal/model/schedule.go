package model

// Weekdays in the fixed display order the dashboard uses. The weekly
// schedule always holds exactly one entry per name, in this order.
var Weekdays = []string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

// Interval is one open window within a day, 24h time strings.
type Interval struct {
	Start string `json:"start"` // 15:04
	End   string `json:"end"`
}

// WeekDay is the availability entry for one weekday. An inactive day
// contributes no generated slots regardless of its intervals.
type WeekDay struct {
	Day       string     `json:"day"`
	Active    bool       `json:"active"`
	Intervals []Interval `json:"intervals"`
}

// DefaultWeekDay returns the backfill entry used when a stored schedule
// is missing a weekday: inactive, one placeholder interval.
func DefaultWeekDay(day string) WeekDay {
	return WeekDay{
		Day:       day,
		Active:    false,
		Intervals: []Interval{{Start: "09:00", End: "17:00"}},
	}
}
