package model

import (
	"strings"
	"time"
)

// Destination is a Korean travel region. DestinationEmpty disables destination filtering.
type Destination string

const (
	DestinationEmpty     Destination = "EMPTY"
	DestinationSeoul     Destination = "SEOUL"
	DestinationBusan     Destination = "BUSAN"
	DestinationJeju      Destination = "JEJU"
	DestinationGangwon   Destination = "GANGWON"
	DestinationGyeonggi  Destination = "GYEONGGI"
	DestinationIncheon   Destination = "INCHEON"
	DestinationDaegu     Destination = "DAEGU"
	DestinationDaejeon   Destination = "DAEJEON"
	DestinationGwangju   Destination = "GWANGJU"
	DestinationUlsan     Destination = "ULSAN"
	DestinationSejong    Destination = "SEJONG"
	DestinationChungbuk  Destination = "CHUNGBUK"
	DestinationChungnam  Destination = "CHUNGNAM"
	DestinationJeonbuk   Destination = "JEONBUK"
	DestinationJeonnam   Destination = "JEONNAM"
	DestinationGyeongbuk Destination = "GYEONGBUK"
	DestinationGyeongnam Destination = "GYEONGNAM"
)

var destinations = map[Destination]struct{}{
	DestinationEmpty: {}, DestinationSeoul: {}, DestinationBusan: {}, DestinationJeju: {},
	DestinationGangwon: {}, DestinationGyeonggi: {}, DestinationIncheon: {}, DestinationDaegu: {},
	DestinationDaejeon: {}, DestinationGwangju: {}, DestinationUlsan: {}, DestinationSejong: {},
	DestinationChungbuk: {}, DestinationChungnam: {}, DestinationJeonbuk: {}, DestinationJeonnam: {},
	DestinationGyeongbuk: {}, DestinationGyeongnam: {},
}

// FindDestinationByName resolves a destination case-insensitively.
func FindDestinationByName(name string) (Destination, error) {
	d := Destination(strings.ToUpper(strings.TrimSpace(name)))
	if _, ok := destinations[d]; !ok {
		return "", invalidArgument("unknown destination %q", name)
	}
	return d, nil
}

// PlaceTimeLayout is the 12-hour clock format of a place visit time, e.g. "09:30 AM".
const PlaceTimeLayout = "03:04 PM"

type Place struct {
	ID        int64   `json:"id,omitempty"`
	Title     string  `json:"title"`
	Time      string  `json:"time"`
	Memo      string  `json:"memo"`
	Expense   int64   `json:"expense"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (p Place) validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return invalidArgument("place title is required")
	}
	if _, err := time.Parse(PlaceTimeLayout, p.Time); err != nil {
		return invalidArgument("place time %q must be formatted as hh:mm AM/PM", p.Time)
	}
	if p.Expense < 0 {
		return invalidArgument("place expense must not be negative")
	}
	if p.Latitude < -90 || p.Latitude > 90 || p.Longitude < -180 || p.Longitude > 180 {
		return invalidArgument("place coordinates out of range")
	}
	return nil
}

type Day struct {
	ID         int64   `json:"id,omitempty"`
	TravelDate Date    `json:"travel_date"`
	Places     []Place `json:"places"`
}

func (d Day) expense() int64 {
	var total int64
	for _, p := range d.Places {
		total += p.Expense
	}
	return total
}

// Schedule is a multi-day trip plan owned by one user.
type Schedule struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"user_id"`
	Title       string      `json:"title"`
	Destination Destination `json:"destination"`
	StartDate   Date        `json:"start_date"`
	EndDate     Date        `json:"end_date"`
	Days        []Day       `json:"days"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// NewSchedule validates the trip period and builds a schedule.
// Every day of the period must be present exactly once.
func NewSchedule(userID int64, title string, dest Destination, start, end Date, days []Day) (*Schedule, error) {
	s := &Schedule{UserID: userID}
	if err := s.apply(title, dest, start, end, days); err != nil {
		return nil, err
	}
	return s, nil
}

// Update replaces the editable content, re-checking every invariant.
func (s *Schedule) Update(title string, dest Destination, start, end Date, days []Day) error {
	return s.apply(title, dest, start, end, days)
}

func (s *Schedule) apply(title string, dest Destination, start, end Date, days []Day) error {
	if strings.TrimSpace(title) == "" {
		return invalidArgument("title is required")
	}
	if dest == "" || dest == DestinationEmpty {
		return invalidArgument("destination is required")
	}
	if start.IsZero() || end.IsZero() {
		return invalidArgument("start and end dates are required")
	}
	if start.After(end.Time) {
		return invalidArgument("start date %s is after end date %s", start, end)
	}
	if want := start.DaysUntil(end) + 1; len(days) != want {
		return invalidArgument("expected %d days between %s and %s, got %d", want, start, end, len(days))
	}

	seen := make(map[string]struct{}, len(days))
	for _, d := range days {
		if d.TravelDate.Before(start.Time) || d.TravelDate.After(end.Time) {
			return invalidArgument("travel date %s is outside the schedule period", d.TravelDate)
		}
		key := d.TravelDate.String()
		if _, dup := seen[key]; dup {
			return invalidArgument("travel date %s is duplicated", key)
		}
		seen[key] = struct{}{}
		for _, p := range d.Places {
			if err := p.validate(); err != nil {
				return err
			}
		}
	}

	s.Title = strings.TrimSpace(title)
	s.Destination = dest
	s.StartDate = start
	s.EndDate = end
	s.Days = days
	return nil
}

// TotalExpense sums the expense of every place.
func (s *Schedule) TotalExpense() int64 {
	var total int64
	for _, d := range s.Days {
		total += d.expense()
	}
	return total
}

func (s *Schedule) IsOwner(userID int64) bool {
	return s.UserID == userID
}
