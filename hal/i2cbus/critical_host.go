//go:build !tinygo

package i2cbus

type irqState struct{}

// Host builds have no interrupts. These are variables so tests can watch
// the masking order.
var (
	disableIRQ = func() irqState { return irqState{} }
	restoreIRQ = func(irqState) {}
)
