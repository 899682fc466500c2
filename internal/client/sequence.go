package client

import "sync/atomic"

// Sequencer numbers submissions so only the latest one's result is applied.
type Sequencer struct {
	latest atomic.Uint64
}

// Next issues a new token; it supersedes every token issued before it.
func (s *Sequencer) Next() uint64 {
	return s.latest.Add(1)
}

// IsLatest reports whether token is the most recently issued one.
func (s *Sequencer) IsLatest(token uint64) bool {
	return token != 0 && s.latest.Load() == token
}
