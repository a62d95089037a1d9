package service

import "sync/atomic"

// Sequence implements last-request-wins for list views whose filters change
// faster than responses arrive. Issue a ticket with Next before each request
// and check Current when the response lands; a stale ticket means a newer
// request superseded this one and its response must be discarded. There is
// no true cancellation; superseded responses are dropped on arrival.
type Sequence struct {
	n atomic.Uint64
}

// Next issues the ticket for a new request, superseding all previous ones.
func (s *Sequence) Next() uint64 {
	return s.n.Add(1)
}

// Current reports whether the ticket still identifies the latest request.
func (s *Sequence) Current(ticket uint64) bool {
	return s.n.Load() == ticket
}
