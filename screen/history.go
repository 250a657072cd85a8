package screen

import "fmt"

// HistoryPolicy selects how many lines scrolled off the top of the primary
// screen are kept.
type HistoryPolicy struct {
	kind historyKind
	max  int
}

type historyKind int

const (
	historyNone historyKind = iota
	historyFixed
	historyUnlimited
)

// NoHistory discards every line that scrolls off the screen.
func NoHistory() HistoryPolicy {
	return HistoryPolicy{kind: historyNone}
}

// FixedHistory keeps at most n lines, dropping the oldest first.
// n < 1 is the same as NoHistory.
func FixedHistory(n int) HistoryPolicy {
	if n < 1 {
		return NoHistory()
	}
	return HistoryPolicy{kind: historyFixed, max: n}
}

// UnlimitedHistory keeps every line.
func UnlimitedHistory() HistoryPolicy {
	return HistoryPolicy{kind: historyUnlimited}
}

// Enabled reports whether the policy keeps any lines.
func (p HistoryPolicy) Enabled() bool {
	return p.kind != historyNone
}

// MaxLines returns the line limit, 0 for unlimited or disabled policies.
func (p HistoryPolicy) MaxLines() int {
	return p.max
}

// Unlimited reports whether the policy never drops lines.
func (p HistoryPolicy) Unlimited() bool {
	return p.kind == historyUnlimited
}

func (p HistoryPolicy) String() string {
	switch p.kind {
	case historyFixed:
		return fmt.Sprintf("fixed(%d)", p.max)
	case historyUnlimited:
		return "unlimited"
	default:
		return "none"
	}
}

// NewStore creates an empty store that follows the policy.
func (p HistoryPolicy) NewStore() HistoryStore {
	switch p.kind {
	case historyFixed:
		return NewMemoryHistory(p.max)
	case historyUnlimited:
		return NewMemoryHistory(0)
	default:
		return NoopHistory{}
	}
}

// HistoryStore holds lines that scrolled off the top of the screen.
// Index 0 is the oldest line.
type HistoryStore interface {
	// Push appends a line. Oldest lines are removed if the store is full.
	Push(line []Cell, wrapped bool)
	// Len returns the current number of stored lines.
	Len() int
	// Line returns the cells at index, or nil if out of range.
	Line(index int) []Cell
	// Wrapped reports whether the line at index continued onto the next one.
	Wrapped(index int) bool
	// Clear removes all lines.
	Clear()
}

// NoopHistory discards all lines (used by the alternate screen and NoHistory).
type NoopHistory struct{}

func (NoopHistory) Push(line []Cell, wrapped bool) {}
func (NoopHistory) Len() int                       { return 0 }
func (NoopHistory) Line(index int) []Cell          { return nil }
func (NoopHistory) Wrapped(index int) bool         { return false }
func (NoopHistory) Clear()                         {}

// MemoryHistory stores history lines in memory with an optional limit.
// A maxLines of 0 means unlimited.
type MemoryHistory struct {
	lines    [][]Cell
	wrapped  []bool
	maxLines int
}

// NewMemoryHistory creates an empty in-memory store.
func NewMemoryHistory(maxLines int) *MemoryHistory {
	return &MemoryHistory{maxLines: maxLines}
}

// Push copies line into the store.
func (m *MemoryHistory) Push(line []Cell, wrapped bool) {
	lineCopy := make([]Cell, len(line))
	copy(lineCopy, line)
	m.lines = append(m.lines, lineCopy)
	m.wrapped = append(m.wrapped, wrapped)

	if m.maxLines > 0 && len(m.lines) > m.maxLines {
		excess := len(m.lines) - m.maxLines
		m.lines = m.lines[excess:]
		m.wrapped = m.wrapped[excess:]
	}
}

func (m *MemoryHistory) Len() int {
	return len(m.lines)
}

func (m *MemoryHistory) Line(index int) []Cell {
	if index < 0 || index >= len(m.lines) {
		return nil
	}
	return m.lines[index]
}

func (m *MemoryHistory) Wrapped(index int) bool {
	if index < 0 || index >= len(m.wrapped) {
		return false
	}
	return m.wrapped[index]
}

func (m *MemoryHistory) Clear() {
	m.lines = nil
	m.wrapped = nil
}

var _ HistoryStore = NoopHistory{}
var _ HistoryStore = (*MemoryHistory)(nil)
