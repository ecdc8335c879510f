// Package i2cbus arbitrates one physical I²C bus between several drivers.
//
// Acquire hands out the single Owner for a bus identity; a second Acquire
// for the same identity fails with errcode.AlreadyInitialized until the
// owner is closed. Owners derive any number of Proxy values, which are
// plain handles into a package registry and may be copied freely. Every
// transaction through any proxy runs inside one process-wide critical
// section, so no two transactions interleave.
//
// The setup phase returns the Owner to its caller, which threads it (or its
// proxies) into the drivers; there is no package-level bus singleton.
package i2cbus

import (
	"sync/atomic"
	"time"

	"stickhal/errcode"
	"stickhal/hal/halcore"
	"stickhal/hal/trace"

	"tinygo.org/x/drivers"
)

// Transport is the bus capability the drivers are written against. Proxy
// and Direct both implement it.
type Transport interface {
	drivers.I2C
	Write(addr uint16, w []byte) error
	WriteRead(addr uint16, w, r []byte) error
}

type options struct {
	trace   trace.Logger
	session string
	now     func() time.Time
}

type Option func(*options)

// WithTrace reports every transaction to l from inside the critical section.
func WithTrace(l trace.Logger) Option { return func(o *options) { o.trace = l } }

// WithSession stamps trace events with a session id.
func WithSession(id string) Option { return func(o *options) { o.session = id } }

// Stats are cumulative transaction counters.
type Stats struct {
	Tx     uint64
	Errors uint64
}

// Owner is the sole handle to one physical bus.
type Owner struct {
	id   halcore.BusID
	tx   drivers.I2C
	opts options

	slot int
	gen  uint32

	seq    atomic.Uint64
	errors atomic.Uint64
}

// Acquire takes ownership of bus id, backed by tx.
func Acquire(id halcore.BusID, tx drivers.I2C, opts ...Option) (*Owner, error) {
	if tx == nil {
		return nil, errcode.New(errcode.InvalidParams, "i2cbus.Acquire", "nil transport")
	}
	o := &Owner{id: id, tx: tx, opts: options{now: time.Now}}
	for _, fn := range opts {
		fn(&o.opts)
	}
	if err := reg.claim(o); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *Owner) ID() halcore.BusID { return o.id }

// Proxy derives a new handle. Proxies are values; copy them at will.
func (o *Owner) Proxy() Proxy { return Proxy{slot: o.slot, gen: o.gen} }

func (o *Owner) Stats() Stats {
	return Stats{Tx: o.seq.Load(), Errors: o.errors.Load()}
}

// Close waits for any in-flight transaction, then retires the owner.
// Proxies derived from it fail with errcode.BusClosed afterwards. The bus
// identity is not released: a later Acquire of it still fails with
// errcode.AlreadyInitialized. Closing twice is a no-op.
func (o *Owner) Close() error {
	s := enter()
	defer exit(s)
	reg.release(o)
	return nil
}

// run executes one transaction. Caller holds the critical section.
func (o *Owner) run(addr uint16, w, r []byte) error {
	var start time.Time
	if o.opts.trace != nil {
		start = o.opts.now()
	}
	err := o.tx.Tx(addr, w, r)
	seq := o.seq.Add(1)
	if err != nil {
		o.errors.Add(1)
	}
	if o.opts.trace != nil {
		ev := trace.Event{
			Timestamp: start,
			Session:   o.opts.session,
			Bus:       string(o.id),
			Seq:       seq,
			Addr:      addr,
			Kind:      trace.KindOf(w, r),
			Write:     append([]byte(nil), w...),
			Duration:  o.opts.now().Sub(start),
		}
		if err != nil {
			ev.Err = err.Error()
		} else if len(r) > 0 {
			ev.Read = append([]byte(nil), r...)
		}
		o.opts.trace.Log(ev)
	}
	return err
}

// Proxy is a non-owning reference to an Owner.
type Proxy struct {
	slot int
	gen  uint32
}

var _ Transport = Proxy{}

// Tx runs w-then-r as one atomic transaction. Transport errors are returned
// unchanged; a proxy whose owner has been closed returns errcode.BusClosed.
func (p Proxy) Tx(addr uint16, w, r []byte) error {
	s := enter()
	defer exit(s)
	o := reg.resolve(p.slot, p.gen)
	if o == nil {
		return errcode.BusClosed
	}
	return o.run(addr, w, r)
}

func (p Proxy) Write(addr uint16, w []byte) error { return p.Tx(addr, w, nil) }

func (p Proxy) WriteRead(addr uint16, w, r []byte) error { return p.Tx(addr, w, r) }

// Valid reports whether the owner is still open.
func (p Proxy) Valid() bool { return reg.resolve(p.slot, p.gen) != nil }

// Direct is an unarbitrated Transport for a bus with a single client.
type Direct struct {
	tx drivers.I2C
}

var _ Transport = Direct{}

func NewDirect(tx drivers.I2C) Direct { return Direct{tx: tx} }

func (d Direct) Tx(addr uint16, w, r []byte) error        { return d.tx.Tx(addr, w, r) }
func (d Direct) Write(addr uint16, w []byte) error        { return d.tx.Tx(addr, w, nil) }
func (d Direct) WriteRead(addr uint16, w, r []byte) error { return d.tx.Tx(addr, w, r) }
