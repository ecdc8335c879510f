package stick

import (
	"stickhal/hal/platform"
	"stickhal/x/mathx"
)

const (
	simAXPAddr = 0x34
	simIMUAddr = 0x68
)

// SimBoard is a register-level model of the stick's internal bus: an
// AXP192 with writable ADC results and a write-1-to-clear key latch, and
// an MPU6886 that identifies itself and self-clears its reset bit.
type SimBoard struct {
	*platform.SimI2C
}

func NewSimBoard() *SimBoard {
	b := &SimBoard{SimI2C: platform.NewSimI2C()}

	axp := b.AddDevice(simAXPAddr)
	axp.Regs[0x12] = 0x01 // DCDC1 on from reset
	axp.Regs[0x31] = 0x03
	axp.OnWrite = func(d *platform.SimDevice, reg, val byte) bool {
		if reg == 0x46 {
			d.Regs[reg] &^= val
			return true
		}
		return false
	}

	imu := b.AddDevice(simIMUAddr)
	imu.Regs[0x75] = 0x19
	imu.OnWrite = func(d *platform.SimDevice, reg, val byte) bool {
		switch reg {
		case 0x75:
			return true // read-only
		case 0x6B:
			d.Regs[reg] = val &^ 0x80
			return true
		}
		return false
	}

	b.SetBattery(4.0, 0, 0)
	b.SetVBUS(5.0, 100)
	b.SetTemperature(35)
	b.SetMotion([3]int16{}, [3]int16{0, 0, 4096})
	return b
}

func put12(b *SimBoard, reg byte, v uint16) {
	b.SetReg(simAXPAddr, reg, byte(v>>4))
	b.SetReg(simAXPAddr, reg+1, byte(v&0x0F))
}

func put13(b *SimBoard, reg byte, v uint16) {
	b.SetReg(simAXPAddr, reg, byte(v>>5))
	b.SetReg(simAXPAddr, reg+1, byte(v&0x1F))
}

const (
	adc12 uint16 = 0x0FFF
	adc13 uint16 = 0x1FFF
)

// SetBattery loads the battery voltage and the charge/discharge currents
// (mA) into the ADC result registers.
func (b *SimBoard) SetBattery(volts, chargeMA, dischargeMA float32) {
	put12(b, 0x78, mathx.Quantize(volts/(1.1/1000), adc12))
	put13(b, 0x7A, mathx.Quantize(chargeMA/0.5, adc13))
	put13(b, 0x7C, mathx.Quantize(dischargeMA/0.5, adc13))
}

func (b *SimBoard) SetVBUS(volts, ma float32) {
	put12(b, 0x5A, mathx.Quantize(volts/(1.7/1000), adc12))
	put12(b, 0x5C, mathx.Quantize(ma/0.375, adc12))
}

func (b *SimBoard) SetTemperature(c float32) {
	put12(b, 0x5E, mathx.Quantize((c+144.7)/0.1, adc12))
}

// SetMotion loads raw gyro and accel samples, big-endian X/Y/Z.
func (b *SimBoard) SetMotion(gyro, accel [3]int16) {
	for i := 0; i < 3; i++ {
		b.SetReg(simIMUAddr, 0x43+byte(2*i), byte(uint16(gyro[i])>>8))
		b.SetReg(simIMUAddr, 0x44+byte(2*i), byte(gyro[i]))
		b.SetReg(simIMUAddr, 0x3B+byte(2*i), byte(uint16(accel[i])>>8))
		b.SetReg(simIMUAddr, 0x3C+byte(2*i), byte(accel[i]))
	}
}

// PressPower latches a power-key press the way the PEK logic does.
func (b *SimBoard) PressPower(long bool) {
	bit := byte(0x02)
	if long {
		bit = 0x01
	}
	b.SetReg(simAXPAddr, 0x46, b.Reg(simAXPAddr, 0x46)|bit)
}

// Brightness is the raw LDO2/LDO3 voltage register.
func (b *SimBoard) Brightness() byte { return b.Reg(simAXPAddr, 0x28) }
