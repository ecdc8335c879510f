// Package tracefile stores trace events as a CBOR stream: one encoded
// trace.Event after another, appended as the arbiter runs.
package tracefile

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"

	"stickhal/hal/trace"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("tracefile: encoder mode: %v", err))
	}
	decMode, err = cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("tracefile: decoder mode: %v", err))
	}
}

// Encode marshals one event.
func Encode(e trace.Event) ([]byte, error) { return encMode.Marshal(e) }

// Decode unmarshals one event.
func Decode(data []byte) (trace.Event, error) {
	var e trace.Event
	if err := decMode.Unmarshal(data, &e); err != nil {
		return trace.Event{}, err
	}
	return e, nil
}

func NewEncoder(w io.Writer) *cbor.Encoder { return encMode.NewEncoder(w) }
func NewDecoder(r io.Reader) *cbor.Decoder { return decMode.NewDecoder(r) }

// NewSessionID returns a fresh session identifier for trace.Event.Session.
func NewSessionID() string { return uuid.NewString() }
