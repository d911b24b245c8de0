package runtime

import (
	"campusfood/domain/event"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

type sentFrame struct {
	name    event.Name
	payload any
}

// fakeSink records every frame written to it. With failing set, Send errors
// without recording, simulating a broken transport.
type fakeSink struct {
	id      uuid.UUID
	mu      sync.Mutex
	frames  []sentFrame
	failing bool
}

func newFakeSink() *fakeSink {
	return &fakeSink{id: uuid.New()}
}

func (s *fakeSink) ConnID() uuid.UUID {
	return s.id
}

func (s *fakeSink) Send(name event.Name, payload any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return fmt.Errorf("transport write failed")
	}
	s.frames = append(s.frames, sentFrame{name: name, payload: payload})
	return nil
}

func (s *fakeSink) sent() []sentFrame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sentFrame{}, s.frames...)
}
