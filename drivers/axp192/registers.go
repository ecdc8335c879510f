// Package axp192 drives the AXP192 power-management IC found on the M5StickC:
// rail enables and voltages, battery/VBUS monitoring through the ADC block,
// the power-key latch and deep sleep.
package axp192

const (
	// 7-bit I2C address.
	AddressDefault = 0x34

	// Power control
	regPowerOutCtl  = 0x12 // DC-DC1/3, LDO2/3, EXTEN enables
	regLDO23Voltage = 0x28 // high nibble LDO2 (backlight), low nibble LDO3
	regVBUSIPSOut   = 0x30 // VBUS-IPSOUT path / hold limit
	regVOffSetting  = 0x31 // power-off voltage, wake config
	regChargeCtl1   = 0x33 // target voltage / current
	regBattDetect   = 0x32 // battery detection, CHGLED
	regBackupCharge = 0x35 // RTC backup battery charge
	regPEKSetting   = 0x36 // power key timing
	regTempProtect  = 0x39 // VHTF-charge threshold
	regADCEnable1   = 0x82
	regADCRate      = 0x84 // sample rate and TS pin mode
	regGPIO0Ctl     = 0x90
	regGPIO0LDO     = 0x91 // LDO0 (mic) voltage
	regIRQStatus3   = 0x46 // PEK short/long press latches

	// ADC results (12-bit unless noted)
	regVBUSVoltage = 0x5A
	regVBUSCurrent = 0x5C
	regDieTemp     = 0x5E
	regBattVoltage = 0x78
	regBattCharge  = 0x7A // 13-bit
	regBattDisch   = 0x7C // 13-bit

	// regPowerOutCtl rail bits
	railDCDC1 = 1 << 0
	railDCDC3 = 1 << 1
	railLDO2  = 1 << 2
	railLDO3  = 1 << 3

	// regVOffSetting: wake on short PEK press.
	vOffWakeShortPress = 1 << 3

	// PEK latch clear value (write-1-to-clear short+long).
	pekClear = 0x03

	// Per-channel ADC scale
	battVoltLSB   = 1.1 / 1000 // V
	battCurLSB    = 0.5        // mA
	vbusVoltLSB   = 1.7 / 1000 // V
	vbusCurLSB    = 0.375      // mA
	dieTempLSB    = 0.1        // °C
	dieTempOffset = -144.7     // °C
)
