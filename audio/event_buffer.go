package audio

import (
	"sync/atomic"
)

// eventBuffer is a lock-free spsc queue of boundary decisions. The writer is the
// audio loop, which must never wait, so a full buffer drops the event instead.
type eventBuffer struct {
	events      []Decision
	read, write *uint32
	dropped     *uint32
}

func newEventBuffer(size int) *eventBuffer {
	if size <= 0 || size&(size-1) != 0 {
		panic("event buffer size must be a power of 2")
	}
	return &eventBuffer{
		events:  make([]Decision, size),
		read:    new(uint32),
		write:   new(uint32),
		dropped: new(uint32),
	}
}

func (b *eventBuffer) push(ev Decision) bool {
	write := atomic.LoadUint32(b.write)
	if write-atomic.LoadUint32(b.read) == uint32(len(b.events)) {
		atomic.AddUint32(b.dropped, 1)
		return false
	}
	b.events[write%uint32(len(b.events))] = ev
	atomic.StoreUint32(b.write, write+1)
	return true
}

func (b *eventBuffer) iter(f func(Decision)) {
	read := atomic.LoadUint32(b.read)
	write := atomic.LoadUint32(b.write)
	for read != write {
		f(b.events[read%uint32(len(b.events))])
		read++
	}
	atomic.StoreUint32(b.read, read)
}

// takeDropped returns the number of events dropped since the last call.
func (b *eventBuffer) takeDropped() uint32 {
	return atomic.SwapUint32(b.dropped, 0)
}
