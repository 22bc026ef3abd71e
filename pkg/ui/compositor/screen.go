package compositor

// Screen holds the front buffer (what the terminal shows) and the back
// buffer (the frame being painted). Buffers are swapped after each flush,
// never copied. A Screen is not safe for concurrent use.
type Screen struct {
	front, back *Buffer
	forceFull   bool
}

// NewScreen creates a screen whose front buffer is blank, matching a freshly
// cleared terminal.
func NewScreen(width, height int) *Screen {
	return &Screen{
		front: NewBuffer(width, height),
		back:  NewBuffer(width, height),
	}
}

// Size returns the screen dimensions.
func (s *Screen) Size() (width, height int) {
	return s.back.Size()
}

// Back returns the buffer to paint the next frame into.
func (s *Screen) Back() *Buffer { return s.back }

// Front returns the last flushed frame.
func (s *Screen) Front() *Buffer { return s.front }

// Resize changes the dimensions. The front buffer is invalidated so the
// next flush rewrites every cell. Returns false if the size is unchanged.
func (s *Screen) Resize(width, height int) bool {
	if w, h := s.Size(); w == width && h == height {
		return false
	}
	s.front.Resize(width, height)
	s.back.Resize(width, height)
	s.Invalidate()
	return true
}

// Invalidate forgets what the terminal shows.
func (s *Screen) Invalidate() {
	s.front.Fill(invalidCell)
}

// SetForceFull makes every flush rewrite the whole screen.
func (s *Screen) SetForceFull(on bool) {
	s.forceFull = on
}

// Flush diffs back against front, swaps the buffers and clears the new back
// buffer for a full repaint.
func (s *Screen) Flush() []Write {
	if s.forceFull {
		s.Invalidate()
	}
	writes := Diff(s.back, s.front)
	s.front, s.back = s.back, s.front
	s.back.Clear()
	return writes
}
