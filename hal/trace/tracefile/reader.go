package tracefile

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"

	"stickhal/hal/trace"
)

// Filter selects events. Zero fields match everything.
type Filter struct {
	Session    string
	Bus        string
	Addr       *uint16
	ErrorsOnly bool
	TimeStart  *time.Time
	TimeEnd    *time.Time
}

func (f *Filter) matches(e trace.Event) bool {
	if f.Session != "" && e.Session != f.Session {
		return false
	}
	if f.Bus != "" && e.Bus != f.Bus {
		return false
	}
	if f.Addr != nil && e.Addr != *f.Addr {
		return false
	}
	if f.ErrorsOnly && !e.Failed() {
		return false
	}
	if f.TimeStart != nil && e.Timestamp.Before(*f.TimeStart) {
		return false
	}
	if f.TimeEnd != nil && !e.Timestamp.Before(*f.TimeEnd) {
		return false
	}
	return true
}

// Reader streams events from a trace file.
type Reader struct {
	src     io.Closer
	decoder *cbor.Decoder
	filter  Filter
}

func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{src: f, decoder: NewDecoder(f), filter: filter}, nil
}

// NewStreamReader reads from an already open stream. Close is a no-op.
func NewStreamReader(r io.Reader, filter Filter) *Reader {
	return &Reader{src: io.NopCloser(nil), decoder: NewDecoder(r), filter: filter}
}

// Next returns the next matching event, or io.EOF.
func (r *Reader) Next() (trace.Event, error) {
	for {
		var e trace.Event
		if err := r.decoder.Decode(&e); err != nil {
			if errors.Is(err, io.EOF) {
				return trace.Event{}, io.EOF
			}
			return trace.Event{}, err
		}
		if r.filter.matches(e) {
			return e, nil
		}
	}
}

func (r *Reader) Close() error { return r.src.Close() }
