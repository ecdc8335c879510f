package i2cbus

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stickhal/errcode"
	"stickhal/hal/halcore"
	"stickhal/hal/platform"
	"stickhal/hal/trace"
)

func acquire(t *testing.T, id string, sim *platform.SimI2C, opts ...Option) *Owner {
	t.Helper()
	o, err := Acquire(halcore.BusID(id), sim, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = o.Close() })
	return o
}

func newSim() *platform.SimI2C {
	s := platform.NewSimI2C()
	s.AddDevice(0x34)
	s.AddDevice(0x68)
	return s
}

func TestAcquireOncePerBus(t *testing.T) {
	sim := newSim()
	acquire(t, "once", sim)

	_, err := Acquire("once", sim)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errcode.AlreadyInitialized))
	assert.Equal(t, errcode.AlreadyInitialized, errcode.Of(err))

	// A different identity is independent.
	acquire(t, "once-other", sim)
}

func TestAcquireNilTransport(t *testing.T) {
	_, err := Acquire("nil", nil)
	assert.Equal(t, errcode.InvalidParams, errcode.Of(err))
}

func TestProxiesShareOwner(t *testing.T) {
	sim := newSim()
	o := acquire(t, "share", sim)

	a, b := o.Proxy(), o.Proxy()
	require.NoError(t, a.Write(0x34, []byte{0x28, 0xCC}))

	r := make([]byte, 1)
	require.NoError(t, b.WriteRead(0x34, []byte{0x28}, r))
	assert.Equal(t, byte(0xCC), r[0])
	assert.Equal(t, Stats{Tx: 2}, o.Stats())
}

func TestTransportErrorUnchanged(t *testing.T) {
	sim := newSim()
	boom := errors.New("arbitration lost")
	sim.SetFault(func(uint16, []byte) error { return boom })
	o := acquire(t, "fault", sim)

	err := o.Proxy().Tx(0x68, []byte{0x75}, make([]byte, 1))
	assert.Equal(t, boom, err)
	assert.Len(t, sim.Log(), 1, "no retries")
	assert.Equal(t, uint64(1), o.Stats().Errors)
}

func TestCloseInvalidatesProxies(t *testing.T) {
	sim := newSim()
	o, err := Acquire("close", sim)
	require.NoError(t, err)
	p := o.Proxy()
	require.True(t, p.Valid())

	require.NoError(t, o.Close())
	require.NoError(t, o.Close())
	assert.False(t, p.Valid())
	assert.Equal(t, errcode.BusClosed, p.Tx(0x34, []byte{0}, nil))

	// The identity stays claimed for the life of the process.
	o2, err := Acquire("close", sim)
	assert.Nil(t, o2)
	assert.Equal(t, errcode.AlreadyInitialized, errcode.Of(err))
	assert.Equal(t, errcode.BusClosed, p.Tx(0x34, []byte{0}, nil))
	assert.Empty(t, sim.Log(), "nothing reached the wire")
}

func TestClosedSlotReuseKeepsStaleProxiesDead(t *testing.T) {
	sim := newSim()
	o, err := Acquire("reuse-a", sim)
	require.NoError(t, err)
	stale := o.Proxy()
	require.NoError(t, o.Close())

	// A different bus may land in the freed slot; the old proxy must not
	// reach it.
	o2 := acquire(t, "reuse-b", sim)
	assert.Equal(t, errcode.BusClosed, stale.Tx(0x34, []byte{0}, nil))
	assert.NoError(t, o2.Proxy().Tx(0x34, []byte{0}, nil))
}

func TestZeroProxyIsClosed(t *testing.T) {
	var p Proxy
	assert.Equal(t, errcode.BusClosed, p.Tx(0x34, nil, nil))
}

func TestProxiesSerialise(t *testing.T) {
	sim := newSim()
	sim.Delay = 100 * time.Microsecond
	o := acquire(t, "serial", sim)

	const workers, each = 8, 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		p := o.Proxy()
		addr := uint16(0x34)
		if i%2 == 1 {
			addr = 0x68
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := make([]byte, 2)
			for j := 0; j < each; j++ {
				_ = p.WriteRead(addr, []byte{0x10}, r)
			}
		}()
	}
	wg.Wait()

	assert.Zero(t, sim.Overlaps())
	assert.Equal(t, uint64(workers*each), o.Stats().Tx)
}

type capture struct {
	mu     sync.Mutex
	events []trace.Event
}

func (c *capture) Log(e trace.Event) {
	c.mu.Lock()
	c.events = append(c.events, e)
	c.mu.Unlock()
}

func TestTraceEvents(t *testing.T) {
	sim := newSim()
	sim.SetReg(0x68, 0x75, 0x19)
	c := &capture{}
	o := acquire(t, "trace", sim, WithTrace(c), WithSession("sess"))

	r := make([]byte, 1)
	require.NoError(t, o.Proxy().WriteRead(0x68, []byte{0x75}, r))
	_ = o.Proxy().Write(0x50, []byte{0x00})

	require.Len(t, c.events, 2)
	e := c.events[0]
	assert.Equal(t, "trace", e.Bus)
	assert.Equal(t, "sess", e.Session)
	assert.Equal(t, uint64(1), e.Seq)
	assert.Equal(t, trace.KindWriteRead, e.Kind)
	assert.Equal(t, []byte{0x75}, e.Write)
	assert.Equal(t, []byte{0x19}, e.Read)

	assert.True(t, c.events[1].Failed())
	assert.Equal(t, uint16(0x50), c.events[1].Addr)
}

func TestDirectPassesThrough(t *testing.T) {
	sim := newSim()
	var tr Transport = NewDirect(sim)
	require.NoError(t, tr.Write(0x34, []byte{0x12, 0x4D}))
	assert.Equal(t, byte(0x4D), sim.Reg(0x34, 0x12))
	assert.ErrorIs(t, tr.Tx(0x22, []byte{0}, nil), platform.ErrNoDevice)
}
