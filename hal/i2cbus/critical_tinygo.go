//go:build tinygo

package i2cbus

import "runtime/interrupt"

type irqState = interrupt.State

func disableIRQ() irqState  { return interrupt.Disable() }
func restoreIRQ(s irqState) { interrupt.Restore(s) }
