// Package heartbeat blinks the status LED so a hung control loop is
// visible from outside the case. The blink period follows the retained
// config/heartbeat section.
package heartbeat

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"stickhal/bus"
	"stickhal/services/config"
)

const DefaultInterval = time.Second

// Toggler is the LED the heartbeat drives.
type Toggler interface {
	Toggle()
}

type Service struct {
	LED      Toggler
	Interval time.Duration
	Logger   *slog.Logger

	beats atomic.Uint64
}

func New(led Toggler, interval time.Duration, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{LED: led, Interval: interval, Logger: log.With("component", "heartbeat")}
}

// Beats counts LED toggles so far.
func (s *Service) Beats() uint64 { return s.beats.Load() }

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(config.Topic("heartbeat"))
	defer conn.Unsubscribe(cfgSub)

	iv := s.Interval
	if iv <= 0 {
		iv = DefaultInterval
	}
	tick := time.NewTicker(iv)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Logger.Info("heartbeat stopping")
			return
		case <-tick.C:
			s.LED.Toggle()
			n := s.beats.Add(1)
			s.Logger.Debug("beat", "n", n)
		case msg, ok := <-cfgSub.Channel():
			if !ok {
				return
			}
			hb, ok := msg.Payload.(config.Heartbeat)
			if !ok || hb.IntervalMs == 0 {
				continue
			}
			iv = time.Duration(hb.IntervalMs) * time.Millisecond
			tick.Reset(iv)
			s.Logger.Info("interval set", "interval", iv)
		}
	}
}

// Start runs the heartbeat until ctx is cancelled.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
