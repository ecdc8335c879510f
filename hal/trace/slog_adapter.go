package trace

import (
	"context"
	"encoding/hex"
	"log/slog"
	"strconv"
)

// SlogAdapter writes events to an slog.Logger at Debug level.
type SlogAdapter struct {
	logger *slog.Logger
}

func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

func (a *SlogAdapter) Log(e Event) {
	attrs := []slog.Attr{
		slog.String("bus", e.Bus),
		slog.Uint64("seq", e.Seq),
		slog.String("addr", "0x"+strconv.FormatUint(uint64(e.Addr), 16)),
		slog.String("kind", e.Kind.String()),
		slog.Duration("dur", e.Duration),
	}
	if len(e.Write) > 0 {
		attrs = append(attrs, slog.String("w", hex.EncodeToString(e.Write)))
	}
	if len(e.Read) > 0 {
		attrs = append(attrs, slog.String("r", hex.EncodeToString(e.Read)))
	}
	lvl := slog.LevelDebug
	if e.Failed() {
		lvl = slog.LevelWarn
		attrs = append(attrs, slog.String("err", e.Err))
	}
	a.logger.LogAttrs(context.Background(), lvl, "i2c", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
