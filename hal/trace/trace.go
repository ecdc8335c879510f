// Package trace captures bus transactions for offline debugging.
//
// It is separate from operational logging (slog): a trace is a complete,
// machine-readable record of every transaction the arbiter executed. The
// Logger interface and Event type live here so firmware builds can carry
// them without an encoder; the CBOR file format is in trace/tracefile.
//
//	// development: echo transactions to the console
//	opts = append(opts, i2cbus.WithTrace(trace.NewSlogAdapter(slog.Default())))
//
//	// capture: CBOR stream viewed with tracedump
//	fl, _ := tracefile.NewFileLogger("/tmp/stick.trace")
//	opts = append(opts, i2cbus.WithTrace(trace.NewMulti(fl, trace.NewSlogAdapter(log))))
package trace

import "time"

// Event is one bus transaction. CBOR encoding uses integer keys.
type Event struct {
	Timestamp time.Time     `cbor:"1,keyasint"`
	Session   string        `cbor:"2,keyasint,omitempty"`
	Bus       string        `cbor:"3,keyasint"`
	Seq       uint64        `cbor:"4,keyasint"`
	Addr      uint16        `cbor:"5,keyasint"`
	Kind      Kind          `cbor:"6,keyasint"`
	Write     []byte        `cbor:"7,keyasint,omitempty"`
	Read      []byte        `cbor:"8,keyasint,omitempty"`
	Err       string        `cbor:"9,keyasint,omitempty"`
	Duration  time.Duration `cbor:"10,keyasint"`
}

// Failed reports whether the transaction returned an error.
func (e Event) Failed() bool { return e.Err != "" }

// Kind is the transaction shape.
type Kind uint8

const (
	KindWrite     Kind = 0
	KindRead      Kind = 1
	KindWriteRead Kind = 2
)

// KindOf classifies a Tx call by which buffers it carries.
func KindOf(w, r []byte) Kind {
	switch {
	case len(w) > 0 && len(r) > 0:
		return KindWriteRead
	case len(r) > 0:
		return KindRead
	default:
		return KindWrite
	}
}

func (k Kind) String() string {
	switch k {
	case KindWrite:
		return "W"
	case KindRead:
		return "R"
	case KindWriteRead:
		return "WR"
	default:
		return "?"
	}
}

// Logger receives transaction events. Implementations must be safe for
// concurrent use and must not block for long: Log runs inside the bus
// critical section.
type Logger interface {
	Log(event Event)
}

// NoopLogger discards all events.
type NoopLogger struct{}

func (NoopLogger) Log(Event) {}

var _ Logger = NoopLogger{}

// Multi fans one event out to several loggers, in order.
type Multi []Logger

// NewMulti drops nil entries.
func NewMulti(ls ...Logger) Multi {
	out := make(Multi, 0, len(ls))
	for _, l := range ls {
		if l != nil {
			out = append(out, l)
		}
	}
	return out
}

func (m Multi) Log(e Event) {
	for _, l := range m {
		l.Log(e)
	}
}

var _ Logger = Multi(nil)
