// Command tracedump prints an I²C trace file recorded by stick-sim or the
// firmware, optionally filtered, followed by per-address statistics.
package main

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"stickhal/hal/trace"
	"stickhal/hal/trace/tracefile"
)

func main() {
	var (
		session = flag.String("session", "", "only this session id")
		busID   = flag.String("bus", "", "only this bus")
		addr    = flag.String("addr", "", "only this device address, e.g. 0x34")
		errs    = flag.Bool("errors", false, "only failed transactions")
		since   = flag.String("since", "", "RFC 3339 start time")
		until   = flag.String("until", "", "RFC 3339 end time (exclusive)")
		stats   = flag.Bool("stats", true, "print per-address statistics")
		quiet   = flag.Bool("q", false, "do not print events")
	)
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: tracedump [flags] trace.cbor")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	f := tracefile.Filter{Session: *session, Bus: *busID, ErrorsOnly: *errs}
	if err := parseFilter(&f, *addr, *since, *until); err != nil {
		fatal(err)
	}
	r, err := tracefile.NewFilteredReader(flag.Arg(0), f)
	if err != nil {
		fatal(err)
	}
	defer r.Close()

	if err := dump(os.Stdout, r, !*quiet, *stats); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "tracedump:", err)
	os.Exit(1)
}

func parseFilter(f *tracefile.Filter, addr, since, until string) error {
	if addr != "" {
		n, err := strconv.ParseUint(addr, 0, 16)
		if err != nil {
			return fmt.Errorf("addr: %w", err)
		}
		a := uint16(n)
		f.Addr = &a
	}
	for _, p := range []struct {
		s   string
		dst **time.Time
	}{{since, &f.TimeStart}, {until, &f.TimeEnd}} {
		if p.s == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339Nano, p.s)
		if err != nil {
			return err
		}
		*p.dst = &t
	}
	return nil
}

type eventSource interface {
	Next() (trace.Event, error)
}

func dump(w io.Writer, src eventSource, events, stats bool) error {
	st := tracefile.NewStats()
	for {
		e, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		st.Add(e)
		if events {
			printEvent(w, e)
		}
	}
	if !stats {
		return nil
	}
	if st.Events == 0 {
		fmt.Fprintln(w, "no events")
		return nil
	}
	fmt.Fprintf(w, "%d events, %s .. %s\n", st.Events, st.First.Format(time.RFC3339Nano), st.Last.Format(time.RFC3339Nano))
	fmt.Fprintf(w, "%-6s %7s %6s %8s %8s %10s %10s  %s\n", "addr", "count", "errs", "wbytes", "rbytes", "avg", "max", "last error")
	for _, a := range st.ByAddr() {
		avg := a.Total / time.Duration(a.Count)
		fmt.Fprintf(w, "0x%02X   %7d %6d %8d %8d %10s %10s  %s\n", a.Addr, a.Count, a.Errors, a.BytesW, a.BytesR, avg, a.Max, a.LastErr)
	}
	return nil
}

func printEvent(w io.Writer, e trace.Event) {
	fmt.Fprintf(w, "%s %s #%d 0x%02X %-2s", e.Timestamp.Format("15:04:05.000000"), e.Bus, e.Seq, e.Addr, e.Kind)
	if len(e.Write) > 0 {
		fmt.Fprintf(w, " w=%s", hex.EncodeToString(e.Write))
	}
	if len(e.Read) > 0 {
		fmt.Fprintf(w, " r=%s", hex.EncodeToString(e.Read))
	}
	fmt.Fprintf(w, " %s", e.Duration)
	if e.Failed() {
		fmt.Fprintf(w, " err=%q", e.Err)
	}
	fmt.Fprintln(w)
}
