package mpu6886

const (
	// 7-bit I2C address (AD0 low).
	AddressDefault = 0x68

	// WHO_AM_I value for the MPU6886.
	deviceID = 0x19

	regSmplrtDiv    = 0x19
	regConfig       = 0x1A
	regGyroConfig   = 0x1B
	regAccelConfig  = 0x1C
	regAccelConfig2 = 0x1D
	regFIFOEn       = 0x23
	regIntPinCfg    = 0x37
	regIntEnable    = 0x38
	regAccelXoutH   = 0x3B // 6 bytes, big-endian X/Y/Z
	regGyroXoutH    = 0x43 // 6 bytes, big-endian X/Y/Z
	regUserCtrl     = 0x6A
	regPwrMgmt1     = 0x6B
	regWhoAmI       = 0x75

	pwrReset   = 1 << 7
	pwrClkAuto = 1 << 0
	fsSelShift = 3
)
