package sim

import (
	"fmt"
	"strings"
)

// EventEntry is one recorded simulation event.
type EventEntry struct {
	Tick     int
	Entity   string  // label e.g. "P3", "Z12", or "--" for global events
	Kind     string  // "civilian", "cop", "zombie", "dead" or "--"
	Category string  // cop, infection, combat, order, outcome
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] P3   cop       state_change     idle → aiming
func (e EventEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-4s %-9s %-16s %s",
		e.Tick, e.Entity, e.Category, e.Key, e.Value)
}

// EventLog collects structured events during a run. It is unbounded and
// machine-readable; the frontend shows the tail of it.
type EventLog struct {
	entries []EventEntry
	verbose bool
}

// NewEventLog creates an EventLog. If verbose is true, per-tick detail
// entries are also recorded.
func NewEventLog(verbose bool) *EventLog {
	return &EventLog{verbose: verbose}
}

// Add records a new entry.
func (l *EventLog) Add(tick int, entity, kind, category, key, value string, numVal float64) {
	l.entries = append(l.entries, EventEntry{
		Tick:     tick,
		Entity:   entity,
		Kind:     kind,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (l *EventLog) AddVerbose(tick int, entity, kind, category, key, value string, numVal float64) {
	if !l.verbose {
		return
	}
	l.Add(tick, entity, kind, category, key, value, numVal)
}

// Verbose reports whether per-tick detail is being recorded.
func (l *EventLog) Verbose() bool {
	return l.verbose
}

// Entries returns all recorded entries.
func (l *EventLog) Entries() []EventEntry {
	return l.entries
}

// Len returns the number of entries.
func (l *EventLog) Len() int {
	return len(l.entries)
}

// Recent returns up to n of the newest entries, oldest first.
func (l *EventLog) Recent(n int) []EventEntry {
	if n <= 0 || len(l.entries) == 0 {
		return nil
	}
	start := len(l.entries) - n
	if start < 0 {
		start = 0
	}
	return l.entries[start:]
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (l *EventLog) Filter(category, key string) []EventEntry {
	var out []EventEntry
	for _, e := range l.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterEntity returns entries for a specific entity label.
func (l *EventLog) FilterEntity(label string) []EventEntry {
	var out []EventEntry
	for _, e := range l.entries {
		if e.Entity == label {
			out = append(out, e)
		}
	}
	return out
}

// FilterTickRange returns entries within [fromTick, toTick] inclusive.
func (l *EventLog) FilterTickRange(fromTick, toTick int) []EventEntry {
	var out []EventEntry
	for _, e := range l.entries {
		if e.Tick >= fromTick && e.Tick <= toTick {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (l *EventLog) CountCategory(category, key string) int {
	return len(l.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (l *EventLog) LastOf(category, key string) (EventEntry, bool) {
	entries := l.Filter(category, key)
	if len(entries) == 0 {
		return EventEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (l *EventLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range l.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (l *EventLog) Format() string {
	var sb strings.Builder
	for _, e := range l.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatRange returns a log string filtered to a tick range.
func (l *EventLog) FormatRange(fromTick, toTick int) string {
	var sb strings.Builder
	for _, e := range l.FilterTickRange(fromTick, toTick) {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
