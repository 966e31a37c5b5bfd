package chat

// Transcript is the ordered history of turns for one session. Insertion order
// is display order. Turns are never edited or removed
// once appended; the transcript lives and dies with its session.
type Transcript struct {
	turns []Turn
}

// NewTranscript returns an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append adds the turn at the end unless it is entirely empty, in which case
// it is a no-op. It reports whether the turn was kept.
func (tr *Transcript) Append(turn Turn) bool {
	if turn.Empty() {
		return false
	}
	tr.turns = append(tr.turns, turn)
	return true
}

// All returns the turns in chronological order. The slice is a copy; mutating
// it does not affect the transcript.
func (tr *Transcript) All() []Turn {
	out := make([]Turn, len(tr.turns))
	copy(out, tr.turns)
	return out
}

// Len returns the number of turns.
func (tr *Transcript) Len() int {
	return len(tr.turns)
}

// HasImages reports whether any turn carries at least one image.
func (tr *Transcript) HasImages() bool {
	for _, t := range tr.turns {
		if len(t.Images) > 0 {
			return true
		}
	}
	return false
}
