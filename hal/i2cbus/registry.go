package i2cbus

import (
	"sync"

	"stickhal/errcode"
	"stickhal/hal/halcore"
)

// registry is the arena holding the sole *Owner per bus identity. Proxies
// carry (slot, gen) and resolve through it, so a proxy can never reach an
// owner that has been closed: the slot's generation moves on at Close.
// A bus identity is claimed once per process and stays claimed after Close.
type registry struct {
	mu      sync.Mutex
	slots   []slot
	claimed map[halcore.BusID]bool
}

type slot struct {
	owner *Owner
	gen   uint32
}

var reg = registry{claimed: make(map[halcore.BusID]bool)}

func (r *registry) claim(o *Owner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.claimed[o.id] {
		return &errcode.E{C: errcode.AlreadyInitialized, Op: "i2cbus.Acquire", Msg: string(o.id)}
	}
	idx := -1
	for i := range r.slots {
		if r.slots[i].owner == nil {
			idx = i
			break
		}
	}
	if idx < 0 {
		r.slots = append(r.slots, slot{})
		idx = len(r.slots) - 1
	}
	s := &r.slots[idx]
	s.gen++
	s.owner = o
	o.slot, o.gen = idx, s.gen
	r.claimed[o.id] = true
	return nil
}

func (r *registry) resolve(idx int, gen uint32) *Owner {
	r.mu.Lock()
	defer r.mu.Unlock()
	if idx < 0 || idx >= len(r.slots) {
		return nil
	}
	s := r.slots[idx]
	if s.gen != gen {
		return nil
	}
	return s.owner
}

func (r *registry) release(o *Owner) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := &r.slots[o.slot]
	if s.owner != o {
		return false
	}
	s.owner = nil
	s.gen++
	return true
}
