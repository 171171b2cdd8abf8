// Package planlog records structured planner events in memory.
//
// A nil *Log is valid and drops everything, so library code can log
// unconditionally.
package planlog

import (
	"fmt"
	"strings"
)

// Entry is one recorded planner event.
type Entry struct {
	Seq      int
	Category string // rebuild, route or orders
	Key      string // event within the category, e.g. "waypoint"
	Value    string
	NumVal   float64 // cost, length or settled count
}

// String formats the entry as a fixed-width log line.
//
//	[#042] route     waypoint         #2 (4,7)
func (e Entry) String() string {
	return fmt.Sprintf("[#%03d] %-9s %-16s %s", e.Seq, e.Category, e.Key, e.Value)
}

// Log collects entries. Verbose entries are kept only when enabled.
type Log struct {
	entries []Entry
	verbose bool
	seq     int
}

// New creates a Log. If verbose is true, per-segment draw entries are
// also recorded.
func New(verbose bool) *Log {
	return &Log{verbose: verbose}
}

// Add records a new entry.
func (l *Log) Add(category, key, value string, numVal float64) {
	if l == nil {
		return
	}
	l.seq++
	l.entries = append(l.entries, Entry{
		Seq:      l.seq,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (l *Log) AddVerbose(category, key, value string, numVal float64) {
	if l == nil || !l.verbose {
		return
	}
	l.Add(category, key, value, numVal)
}

// Entries returns all recorded entries.
func (l *Log) Entries() []Entry {
	if l == nil {
		return nil
	}
	return l.entries
}

// Reset drops all entries but keeps the sequence counter running.
func (l *Log) Reset() {
	if l == nil {
		return
	}
	l.entries = l.entries[:0]
}

// Filter selects entries by category and key. An empty argument matches
// anything.
func (l *Log) Filter(category, key string) []Entry {
	var out []Entry
	for _, e := range l.Entries() {
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

// CountCategory counts Filter's matches.
func (l *Log) CountCategory(category, key string) int {
	return len(l.Filter(category, key))
}

// LastOf returns the newest matching entry.
func (l *Log) LastOf(category, key string) (Entry, bool) {
	entries := l.Filter(category, key)
	if len(entries) == 0 {
		return Entry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry reports whether a matching entry's value contains valueSubstr.
func (l *Log) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range l.Filter(category, key) {
		if valueSubstr == "" || strings.Contains(e.Value, valueSubstr) {
			return true
		}
	}
	return false
}

// Format renders one entry per line.
func (l *Log) Format() string {
	var sb strings.Builder
	for _, e := range l.Entries() {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
