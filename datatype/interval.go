package datatype

import "fmt"

type IntervalKind int

const (
	IntervalNanosecond IntervalKind = iota
	IntervalMicrosecond
	IntervalMillisecond
	IntervalSecond
	IntervalMinute
	IntervalHour
	IntervalDay
	IntervalWeek
	IntervalMonth
	IntervalQuarter
	IntervalYear

	NumIntervalKinds = iota
)

var intervalKindNames = [NumIntervalKinds]string{
	IntervalNanosecond:  "Nanosecond",
	IntervalMicrosecond: "Microsecond",
	IntervalMillisecond: "Millisecond",
	IntervalSecond:      "Second",
	IntervalMinute:      "Minute",
	IntervalHour:        "Hour",
	IntervalDay:         "Day",
	IntervalWeek:        "Week",
	IntervalMonth:       "Month",
	IntervalQuarter:     "Quarter",
	IntervalYear:        "Year",
}

func (k IntervalKind) Valid() bool {
	return k >= 0 && k < NumIntervalKinds
}

func (k IntervalKind) String() string {
	if k.Valid() {
		return intervalKindNames[k]
	}
	return fmt.Sprintf("IntervalKind(%d)", int(k))
}

// ParseIntervalKind maps a unit name such as "Second" to its kind.
func ParseIntervalKind(name string) (IntervalKind, bool) {
	for i, n := range intervalKindNames {
		if n == name {
			return IntervalKind(i), true
		}
	}
	return 0, false
}
