// seehuhn.de/go/sketch - a freehand drawing surface
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package history implements the undo/redo log of committed strokes.
//
// The visible drawing is the "done log", an ordered list of paths.  Every
// change to the done log is recorded as an operation on the undo stack, so
// that it can be reverted.  Two kinds of operation exist: pushing a single
// path, and clearing the whole canvas.  Clearing is recorded as one
// operation, so that a single undo restores everything that was cleared.
package history

import (
	"slices"

	"seehuhn.de/go/sketch/stroke"
)

// opKind identifies an undoable operation.
type opKind uint8

const (
	opPush opKind = iota
	opClear
)

// op is one entry of the undo or redo stack.
type op struct {
	kind opKind

	// path is the pushed path, for opPush.
	path stroke.Path

	// cleared holds the done log as it was before an opClear.
	cleared []stroke.Path
}

// Stack is the history of a canvas.
//
// The zero value is an empty history, ready to use.
// A Stack is not safe for concurrent use.
type Stack struct {
	done []stroke.Path
	undo []op
	redo []op // top of stack is the last element
	seq  int
}

// Push commits a new path.  The path's sequence number is overwritten with
// the next value from the history's counter.  Any undone operations are
// discarded.
func (s *Stack) Push(p stroke.Path) stroke.Path {
	s.seq++
	p.Seq = s.seq
	s.done = append(s.done, p)
	s.undo = append(s.undo, op{kind: opPush, path: p})
	s.redo = s.redo[:0]
	return p
}

// Undo reverts the most recent operation.  It reports whether there was
// anything to undo.
func (s *Stack) Undo() bool {
	if len(s.undo) == 0 {
		return false
	}
	last := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]

	switch last.kind {
	case opPush:
		s.done = s.done[:len(s.done)-1]
	case opClear:
		s.done = slices.Clone(last.cleared)
	}
	s.redo = append(s.redo, last)
	return true
}

// Redo re-applies the most recently undone operation.  It reports whether
// there was anything to redo.
func (s *Stack) Redo() bool {
	if len(s.redo) == 0 {
		return false
	}
	next := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]

	switch next.kind {
	case opPush:
		s.done = append(s.done, next.path)
	case opClear:
		s.done = nil
	}
	s.undo = append(s.undo, next)
	return true
}

// Clear removes all paths from the done log, as a single undoable
// operation.  Clearing an empty canvas does nothing and returns false.
func (s *Stack) Clear() bool {
	if len(s.done) == 0 {
		return false
	}
	s.undo = append(s.undo, op{kind: opClear, cleared: s.done})
	s.done = nil
	s.redo = s.redo[:0]
	return true
}

// Reset discards the done log and all history.  Sequence numbers keep
// increasing across a reset.
func (s *Stack) Reset() {
	s.done = nil
	s.undo = nil
	s.redo = nil
}

// Load replaces the whole history.  The given paths become the done log,
// each undoable as if it had been pushed, and the redo log is emptied.
// Fresh sequence numbers are assigned.
func (s *Stack) Load(paths []stroke.Path) {
	s.Reset()
	for _, p := range paths {
		s.Push(p)
	}
}

// Paths returns a copy of the done log in commit order.
func (s *Stack) Paths() []stroke.Path {
	return slices.Clone(s.done)
}

// Len returns the number of paths in the done log.
func (s *Stack) Len() int {
	return len(s.done)
}

// CanUndo reports whether [Stack.Undo] would change the history.
func (s *Stack) CanUndo() bool {
	return len(s.undo) > 0
}

// CanRedo reports whether [Stack.Redo] would change the history.
func (s *Stack) CanRedo() bool {
	return len(s.redo) > 0
}
