// Package telemetry samples the stick's power and motion readings on an
// interval, publishes each snapshot retained on the local bus and can
// record them as a CBOR stream for later inspection.
package telemetry

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"

	"stickhal/bus"
	"stickhal/hal/stick"
	"stickhal/x/timex"
)

// Snapshot is one sample. CBOR uses integer keys.
type Snapshot struct {
	Session string `cbor:"1,keyasint,omitempty"`
	Seq     uint64 `cbor:"2,keyasint"`
	AtMs    uint32 `cbor:"3,keyasint"`

	BatteryV  float32 `cbor:"4,keyasint"`
	BatteryMA float32 `cbor:"5,keyasint"`
	BusV      float32 `cbor:"6,keyasint"`
	BusMA     float32 `cbor:"7,keyasint"`
	TempC     float32 `cbor:"8,keyasint"`

	Gyro  [3]float32 `cbor:"9,keyasint"`
	Accel [3]float32 `cbor:"10,keyasint"`

	ButtonA bool `cbor:"11,keyasint"`
	ButtonB bool `cbor:"12,keyasint"`

	// Err holds the first read failure; fields after it are zero.
	Err string `cbor:"13,keyasint,omitempty"`
}

// TopicSnapshot carries the latest Snapshot, retained.
var TopicSnapshot = bus.T("telemetry", "snapshot")

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.EncOptions{
		Sort:        cbor.SortCanonical,
		IndefLength: cbor.IndefLengthForbidden,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("telemetry: encoder mode: %v", err))
	}
	decMode, err = cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyQuiet,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("telemetry: decoder mode: %v", err))
	}
}

// Collect reads every channel of d once.
func Collect(d *stick.Device, nowMs uint32) Snapshot {
	s := Snapshot{
		AtMs:    nowMs,
		ButtonA: d.ButtonA.IsPressed(),
		ButtonB: d.ButtonB.IsPressed(),
	}
	p, err := d.Power.Rails()
	if err != nil {
		s.Err = err.Error()
		return s
	}
	s.BatteryV, s.BatteryMA, s.BusV, s.BusMA, s.TempC = p.BatteryV, p.BatteryMA, p.BusV, p.BusMA, p.TempC

	g, err := d.IMU.Rotation()
	if err != nil {
		s.Err = err.Error()
		return s
	}
	a, err := d.IMU.Acceleration()
	if err != nil {
		s.Err = err.Error()
		return s
	}
	s.Gyro = [3]float32{g.X, g.Y, g.Z}
	s.Accel = [3]float32{a.X, a.Y, a.Z}
	return s
}

// Recorder appends snapshots to a CBOR stream.
type Recorder struct {
	enc *cbor.Encoder
}

func NewRecorder(w io.Writer) *Recorder { return &Recorder{enc: encMode.NewEncoder(w)} }

func (r *Recorder) Record(s Snapshot) error { return r.enc.Encode(s) }

// ReadAll decodes a recorded stream to EOF.
func ReadAll(rd io.Reader) ([]Snapshot, error) {
	dec := decMode.NewDecoder(rd)
	var out []Snapshot
	for {
		var s Snapshot
		if err := dec.Decode(&s); err != nil {
			if err == io.EOF {
				return out, nil
			}
			return out, err
		}
		out = append(out, s)
	}
}

// Service samples on an interval driven by the control loop's clock.
type Service struct {
	dev      *stick.Device
	conn     *bus.Connection
	rec      *Recorder
	interval uint32
	session  string
	log      *slog.Logger

	seq    uint64
	lastMs uint32
	primed bool
}

type Option func(*Service)

// WithRecorder also writes every snapshot to r.
func WithRecorder(r *Recorder) Option { return func(s *Service) { s.rec = r } }

// WithSession stamps snapshots with id instead of a fresh uuid.
func WithSession(id string) Option { return func(s *Service) { s.session = id } }

func WithLogger(l *slog.Logger) Option { return func(s *Service) { s.log = l } }

// New builds a sampler publishing on conn every intervalMs.
func New(dev *stick.Device, conn *bus.Connection, intervalMs uint32, opts ...Option) *Service {
	s := &Service{dev: dev, conn: conn, interval: intervalMs, log: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	if s.session == "" {
		s.session = uuid.NewString()
	}
	s.log = s.log.With("component", "telemetry")
	return s
}

func (s *Service) Session() string { return s.session }

// Tick samples when the interval has elapsed since the previous sample.
// It reports whether a sample was taken.
func (s *Service) Tick(clk timex.Clock) (Snapshot, bool) {
	now := clk.NowMs()
	if s.primed && now-s.lastMs < s.interval {
		return Snapshot{}, false
	}
	s.primed, s.lastMs = true, now
	s.seq++

	snap := Collect(s.dev, now)
	snap.Session, snap.Seq = s.session, s.seq
	if snap.Err != "" {
		s.log.Warn("sample failed", "err", snap.Err)
	}
	if s.conn != nil {
		s.conn.Publish(s.conn.NewMessage(TopicSnapshot, snap, true))
	}
	if s.rec != nil {
		if err := s.rec.Record(snap); err != nil {
			s.log.Error("record failed", "err", err)
		}
	}
	return snap, true
}
