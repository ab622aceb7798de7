package display

import "sync"

// viewStream is a latest-frame broadcaster for one named view. Publishers
// overwrite the current frame; each subscriber sees the newest frame that
// arrived since it last read, skipping any it was too slow for.
type viewStream struct {
	mu     sync.Mutex
	cond   *sync.Cond
	frame  []byte
	seq    uint64
	closed bool
}

func newViewStream() *viewStream {
	s := &viewStream{}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// publish replaces the current frame and wakes all waiting subscribers.
func (s *viewStream) publish(frame []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.frame = frame
	s.seq++
	s.cond.Broadcast()
}

// next blocks until a frame newer than lastSeq is available or the stream is
// closed. It returns the frame, its sequence number, and whether the stream
// is still open.
func (s *viewStream) next(lastSeq uint64) ([]byte, uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.seq == lastSeq && !s.closed {
		s.cond.Wait()
	}
	if s.closed {
		return nil, 0, false
	}
	return s.frame, s.seq, true
}

// close wakes all subscribers and marks the stream done. Idempotent.
func (s *viewStream) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.cond.Broadcast()
}
