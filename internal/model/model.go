package model

// EventType is the closed vocabulary of planning cell classifications.
// Values are stable strings so they can be used directly in JSON payloads
// and compared by API consumers.
type EventType string

const (
	TypeTelework           EventType = "telework"
	TypeHoliday            EventType = "holiday"
	TypeMeeting            EventType = "meeting"
	TypeRTE                EventType = "rte"
	TypeVacation           EventType = "vacation"
	TypePaidLeave          EventType = "paid_leave"
	TypeDuty               EventType = "duty"
	TypePreventiveMeditech EventType = "preventive_meditech"
	TypeOnsite             EventType = "onsite"
	TypeLeave              EventType = "leave"
	TypeSickLeave          EventType = "sick_leave"
	TypeTraining           EventType = "training"
	TypeTelemaintenance    EventType = "telemaintenance"

	// Non-activity classifications.
	TypeWeekend EventType = "weekend"
	TypeComment EventType = "comment"
	TypeEmpty   EventType = "empty"
	TypeOther   EventType = "other"
	TypeUnknown EventType = "unknown"
)

// Slot is one of the three fixed daily shift periods. Every person section
// in the planning table carries exactly one row per slot, in this order.
type Slot string

const (
	SlotMorning Slot = "morning"
	SlotDay     Slot = "day"
	SlotEvening Slot = "evening"
)

// Slots lists the slot rows in document order.
var Slots = [3]Slot{SlotMorning, SlotDay, SlotEvening}

// Event is the classified content of a single (person, day, slot) cell.
//
// String fields use "" for absent values; IsEmpty is the authoritative
// emptiness signal. A weekend cell is never empty even when Content is
// blank: the weekend itself is information.
type Event struct {
	Content        string    `json:"content,omitempty"`
	Type           EventType `json:"type"`
	Comment        string    `json:"comment,omitempty"`
	LastModifiedAt string    `json:"last_modified_at,omitempty"`
	LastModifiedBy string    `json:"last_modified_by,omitempty"`
	ColorClass     string    `json:"color_class,omitempty"`
	IsEmpty        bool      `json:"is_empty"`
	IsWeekend      bool      `json:"is_weekend"`
	IsHoliday      bool      `json:"is_holiday"`
}

// DayWeekday pairs a day-of-month with the weekday abbreviation extracted
// for it (verbatim from the document, e.g. "ven").
type DayWeekday struct {
	Day     int    `json:"day"`
	Weekday string `json:"weekday"`
}

// ConsistencyReport is the outcome of cross-checking the extracted
// (year, month, weekday-of-day-1) triple against Gregorian arithmetic.
type ConsistencyReport struct {
	IsConsistent bool   `json:"is_consistent"`
	Message      string `json:"message"`
}

// Period describes the calendar window covered by one planning document.
//
// Year is 0 when the year text could not be parsed as an integer; YearRaw
// then carries whatever text was found. Days is sorted ascending and
// duplicate-free; WeekdayOf covers a subset of Days, sorted by day.
type Period struct {
	Month        string            `json:"month,omitempty"`
	Year         int               `json:"year,omitempty"`
	YearRaw      string            `json:"year_raw,omitempty"`
	Days         []int             `json:"days"`
	WeekdayOf    []DayWeekday      `json:"weekday_of"`
	Verification ConsistencyReport `json:"verification"`
	Error        string            `json:"error,omitempty"`
}

// DaySchedule maps shift slots to their classified events for one day.
type DaySchedule map[Slot]Event

// PersonSchedule holds the extracted days for a single person.
type PersonSchedule struct {
	Days map[int]DaySchedule `json:"days"`
}

// ScheduleGrid is the result of a grid extraction pass: one entry per
// requested person, keyed by display name. Built in a single pass and
// never mutated afterwards.
type ScheduleGrid struct {
	Users   map[string]PersonSchedule `json:"users"`
	Summary *Summary                  `json:"summary,omitempty"`
	Error   string                    `json:"error,omitempty"`
}

// Summary is a pure fold over a ScheduleGrid.
type Summary struct {
	TotalEvents  int               `json:"total_events"`
	EventsByType map[EventType]int `json:"events_by_type"`
	UsersCount   int               `json:"users_count"`
	DaysCount    int               `json:"days_count"`
	SlotsCounted map[Slot]int      `json:"slots_counted"`
}

// Summarize folds a grid into aggregate counts. Distinct days are counted
// across all users.
func Summarize(grid *ScheduleGrid) *Summary {
	s := &Summary{
		EventsByType: make(map[EventType]int),
		SlotsCounted: make(map[Slot]int),
	}
	daysSeen := make(map[int]struct{})

	for _, ps := range grid.Users {
		for day, slots := range ps.Days {
			daysSeen[day] = struct{}{}
			for slot, ev := range slots {
				s.TotalEvents++
				s.EventsByType[ev.Type]++
				s.SlotsCounted[slot]++
			}
		}
	}

	s.UsersCount = len(grid.Users)
	s.DaysCount = len(daysSeen)
	return s
}
