package tracefile

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stickhal/hal/trace"
)

func sampleEvent(seq uint64, addr uint16, err string) trace.Event {
	return trace.Event{
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, int(seq)*1000, time.UTC),
		Session:   "s-1",
		Bus:       "i2c0",
		Seq:       seq,
		Addr:      addr,
		Kind:      trace.KindWriteRead,
		Write:     []byte{0x78},
		Read:      []byte{0x0A, 0x05},
		Err:       err,
		Duration:  150 * time.Microsecond,
	}
}

func TestEncodeDecode(t *testing.T) {
	in := sampleEvent(3, 0x34, "")
	data, err := Encode(in)
	require.NoError(t, err)

	out, err := Decode(data)
	require.NoError(t, err)
	assert.True(t, in.Timestamp.Equal(out.Timestamp))
	assert.Equal(t, in.Addr, out.Addr)
	assert.Equal(t, in.Kind, out.Kind)
	assert.Equal(t, in.Write, out.Write)
	assert.Equal(t, in.Read, out.Read)
	assert.Equal(t, in.Duration, out.Duration)
	assert.Equal(t, in.Session, out.Session)
}

func TestFileLoggerAndFilteredReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bus.trace")
	fl, err := NewFileLogger(path)
	require.NoError(t, err)

	fl.Log(sampleEvent(1, 0x34, ""))
	fl.Log(sampleEvent(2, 0x68, ""))
	fl.Log(sampleEvent(3, 0x68, "nack"))
	require.NoError(t, fl.Close())
	require.NoError(t, fl.Close())
	fl.Log(sampleEvent(4, 0x34, "")) // ignored after close

	r, err := NewReader(path)
	require.NoError(t, err)
	var seqs []uint64
	for {
		e, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		seqs = append(seqs, e.Seq)
	}
	require.NoError(t, r.Close())
	assert.Equal(t, []uint64{1, 2, 3}, seqs)

	addr := uint16(0x68)
	fr, err := NewFilteredReader(path, Filter{Addr: &addr, ErrorsOnly: true})
	require.NoError(t, err)
	defer fr.Close()
	e, err := fr.Next()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), e.Seq)
	_, err = fr.Next()
	assert.Equal(t, io.EOF, err)
}

func TestStreamReaderAndStats(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	require.NoError(t, enc.Encode(sampleEvent(1, 0x68, "")))
	require.NoError(t, enc.Encode(sampleEvent(2, 0x34, "")))
	require.NoError(t, enc.Encode(sampleEvent(3, 0x34, "nack")))

	st := NewStats()
	r := NewStreamReader(&buf, Filter{})
	for {
		e, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		st.Add(e)
	}

	rows := st.ByAddr()
	require.Len(t, rows, 2)
	assert.Equal(t, uint16(0x34), rows[0].Addr)
	assert.Equal(t, 2, rows[0].Count)
	assert.Equal(t, 1, rows[0].Errors)
	assert.Equal(t, "nack", rows[0].LastErr)
	assert.Equal(t, 4, rows[0].BytesR)
	assert.Equal(t, 3, st.Events)
	assert.True(t, st.Last.After(st.First))
}

func TestNewSessionIDUnique(t *testing.T) {
	assert.NotEqual(t, NewSessionID(), NewSessionID())
}
