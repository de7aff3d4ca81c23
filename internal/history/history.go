// Package history keeps full-buffer snapshots for linear undo and redo.
//
// Every commit stores a complete copy of the pixel data. Memory grows
// linearly with the number of commits; WithMaxDepth bounds it by discarding
// the oldest snapshots.
package history

// DefaultMaxDepth is the undo depth used when no option overrides it.
const DefaultMaxDepth = 50

// Manager holds the undo and redo stacks. Once the first Commit has happened
// the undo stack never drops below one entry: that floor snapshot is what
// shape previews restore from and what Undo bottoms out at.
type Manager struct {
	undo     [][]byte
	redo     [][]byte
	maxDepth int
}

// Option configures a Manager.
type Option func(*Manager)

// WithMaxDepth caps the number of undo entries. Zero or a negative value
// disables the cap.
func WithMaxDepth(n int) Option { return func(m *Manager) { m.maxDepth = n } }

// New creates an empty Manager.
func New(opts ...Option) *Manager {
	m := &Manager{maxDepth: DefaultMaxDepth}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Commit appends a copy of pix to the undo stack and invalidates redo.
func (m *Manager) Commit(pix []byte) {
	snap := make([]byte, len(pix))
	copy(snap, pix)
	m.undo = append(m.undo, snap)
	m.redo = nil
	if m.maxDepth > 0 && len(m.undo) > m.maxDepth {
		drop := len(m.undo) - m.maxDepth
		copy(m.undo, m.undo[drop:])
		for i := len(m.undo) - drop; i < len(m.undo); i++ {
			m.undo[i] = nil
		}
		m.undo = m.undo[:m.maxDepth]
	}
}

// Undo moves the newest entry to the redo stack and returns the snapshot to
// restore. It is a no-op when only the floor entry remains.
func (m *Manager) Undo() ([]byte, bool) {
	if len(m.undo) <= 1 {
		return nil, false
	}
	top := m.undo[len(m.undo)-1]
	m.undo[len(m.undo)-1] = nil
	m.undo = m.undo[:len(m.undo)-1]
	m.redo = append(m.redo, top)
	return m.undo[len(m.undo)-1], true
}

// Redo moves the newest redo entry back onto the undo stack and returns it.
// It is a no-op when nothing has been undone since the last commit.
func (m *Manager) Redo() ([]byte, bool) {
	if len(m.redo) == 0 {
		return nil, false
	}
	top := m.redo[len(m.redo)-1]
	m.redo[len(m.redo)-1] = nil
	m.redo = m.redo[:len(m.redo)-1]
	m.undo = append(m.undo, top)
	return top, true
}

// Top returns the most recent committed snapshot, or nil before the first
// commit. The returned slice must not be modified.
func (m *Manager) Top() []byte {
	if len(m.undo) == 0 {
		return nil
	}
	return m.undo[len(m.undo)-1]
}

// Depth returns the number of undo entries, floor included.
func (m *Manager) Depth() int { return len(m.undo) }

// RedoDepth returns the number of redo entries.
func (m *Manager) RedoDepth() int { return len(m.redo) }

// CanUndo reports whether Undo would change the buffer.
func (m *Manager) CanUndo() bool { return len(m.undo) > 1 }

// CanRedo reports whether Redo would change the buffer.
func (m *Manager) CanRedo() bool { return len(m.redo) > 0 }

// Reset discards both stacks. It is used when the buffer is replaced.
func (m *Manager) Reset() {
	m.undo = nil
	m.redo = nil
}
