package alert

import (
	"fmt"
	"time"

	"github.com/StudioSol/set"
	"github.com/samber/lo"
)

// EntryType classifies alert log entries
type EntryType string

const (
	EntryCreated       EntryType = "CREATED"
	EntryActivated     EntryType = "ACTIVATED"
	EntryTriggered     EntryType = "TRIGGERED"
	EntryClosed        EntryType = "CLOSED"
	EntryClosedByUser  EntryType = "CLOSED_BY_USER"
	EntryClosedDeleted EntryType = "CLOSED_DRAWING_DELETED"
)

// Idempotent reports whether a repeated entry of this type is suppressed
func (t EntryType) Idempotent() bool {
	return t == EntryCreated || t == EntryActivated
}

// Entry is one line of the alert log
type Entry struct {
	AlertID string    `json:"alertId"`
	Type    EntryType `json:"type"`
	Price   float64   `json:"price,omitempty"`
	Message string    `json:"message,omitempty"`
	At      time.Time `json:"at"`
}

// Log records the lifecycle of alerts. CREATED and ACTIVATED entries are
// written at most once per alert; closing entries are always appended.
type Log struct {
	entries []Entry
	seen    *set.LinkedHashSetString
	now     func() time.Time
}

// NewLog creates an empty log
func NewLog() *Log {
	return &Log{seen: set.NewLinkedHashSetString(), now: time.Now}
}

func entryKey(alertID string, t EntryType) string {
	return fmt.Sprintf("%s/%s", alertID, t)
}

// Record appends an entry and reports whether it was written
func (l *Log) Record(e Entry) bool {
	if e.Type.Idempotent() {
		key := entryKey(e.AlertID, e.Type)
		if l.seen.InArray(key) {
			return false
		}
		l.seen.Add(key)
	}
	if e.At.IsZero() {
		e.At = l.now()
	}
	l.entries = append(l.entries, e)
	return true
}

// Entries returns every entry in insertion order
func (l *Log) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

// ForAlert returns the entries of one alert
func (l *Log) ForAlert(alertID string) []Entry {
	return lo.Filter(l.entries, func(e Entry, _ int) bool { return e.AlertID == alertID })
}

// Len returns the number of entries
func (l *Log) Len() int { return len(l.entries) }
