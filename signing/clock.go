package signing

import "time"

// currentSigningTimestamp returns the number of 10-microsecond units
// since 2015-01-01T00:00:00Z, clamped to zero if the system clock reads
// before that epoch. The 48-bit field this feeds overflows in the year
// 2104.
func currentSigningTimestamp() uint64 {
	micros := time.Now().UnixMicro()
	units := micros/10 - epochOffsetUnits10us
	if units < 0 {
		return 0
	}
	return uint64(units)
}
