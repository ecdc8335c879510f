package i2cbus

import "sync"

// crit is the process-wide critical section shared by every bus owner.
// Goroutines serialise on the mutex; on TinyGo builds interrupts are also
// masked for the duration, so ISR code cannot start a transaction halfway
// through another.
//
// Interrupts go off before the mutex is taken and come back after it is
// dropped. An ISR can then never find the mutex held by the code it
// pre-empted.
var crit sync.Mutex

func enter() irqState {
	s := disableIRQ()
	crit.Lock()
	return s
}

func exit(s irqState) {
	crit.Unlock()
	restoreIRQ(s)
}
