package domain

import "time"

type Message struct {
	Text      string
	User      string
	Channel   string
	Timestamp string
}

// Predicate decides whether a handler wants to see a message.
type Predicate func(message *Message) bool

type AlarmState string

const (
	StateOK               AlarmState = "OK"
	StateAlarm            AlarmState = "ALARM"
	StateInsufficientData AlarmState = "INSUFFICIENT_DATA"
)

// ParseAlarmState maps user input like "alarm" or "insufficient" onto a known state.
func ParseAlarmState(s string) (AlarmState, bool) {
	switch AlarmState(normalizeState(s)) {
	case StateOK:
		return StateOK, true
	case StateAlarm:
		return StateAlarm, true
	case StateInsufficientData, "INSUFFICIENT":
		return StateInsufficientData, true
	}

	return "", false
}

type Alarm struct {
	Name        string
	Description string
	MetricName  string
	Namespace   string
	State       AlarmState
}

// AlarmQuery holds the server side filters of a describe call. Empty fields are not sent.
type AlarmQuery struct {
	State        AlarmState
	ActionPrefix string
	NamePrefix   string
	Names        []string
}

type MetricQuery struct {
	Namespace  string
	MetricName string
	Period     time.Duration
	Statistics []string
	Start      time.Time
	End        time.Time
}

type Datapoint struct {
	Timestamp time.Time
	Values    map[string]float64
	Unit      string
}
