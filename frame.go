// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package recjson

import (
	"errors"
	"fmt"

	"github.com/creachadair/recjson/store"
)

type frameKind byte

const (
	arrayFrame frameKind = iota
	objectFrame
)

func (k frameKind) String() string {
	if k == objectFrame {
		return "object"
	}
	return "array"
}

// A frame holds the state of one open array or object. The elements belong to
// the frame until it is closed and its record is created.
type frame struct {
	kind   frameKind
	elems  []store.Value
	key    string // the pending object key
	hasKey bool   // whether key is waiting for a value
}

var (
	errStackFull  = errors.New("frame stack is full")
	errStackEmpty = errors.New("frame stack is empty")
)

// A frameStack is a stack of open frames with a fixed maximum depth.
type frameStack struct {
	frames []frame
	max    int
}

func newFrameStack(max int) frameStack { return frameStack{max: max} }

// push opens a new empty frame of the given kind.
func (s *frameStack) push(kind frameKind) error {
	if len(s.frames) >= s.max {
		return fmt.Errorf("push %v at depth %d: %w", kind, len(s.frames), errStackFull)
	}
	s.frames = append(s.frames, frame{kind: kind})
	return nil
}

// pop removes and returns the innermost frame. The slot is cleared so the
// stack does not retain the frame's elements.
func (s *frameStack) pop() (frame, error) {
	n := len(s.frames)
	if n == 0 {
		return frame{}, errStackEmpty
	}
	f := s.frames[n-1]
	s.frames[n-1] = frame{}
	s.frames = s.frames[:n-1]
	return f, nil
}

// top returns the innermost frame, or nil if the stack is empty.
// The pointer is invalidated by the next push.
func (s *frameStack) top() *frame {
	if len(s.frames) == 0 {
		return nil
	}
	return &s.frames[len(s.frames)-1]
}

func (s *frameStack) depth() int { return len(s.frames) }

// reset discards all open frames and their elements.
func (s *frameStack) reset() {
	clear(s.frames)
	s.frames = s.frames[:0]
}
