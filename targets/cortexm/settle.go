package cortexm

// MaxReload is the largest value of the 24-bit reload register
const MaxReload = 0x00FF_FFFF

// settledCurrent corrects a CVR read taken right after ClearCurrent. Writing
// CVR zeroes it, and the counter only loads the reload value on its next
// clock edge, which with the external reference can be a microsecond away.
// Until a non-zero value has been seen, a zero without COUNTFLAG means the
// reload has not happened yet and reads as reload. It returns the value and
// whether the counter is still settling.
func settledCurrent(v, reload uint32, settling, wrapped bool) (uint32, bool) {
	if !settling {
		return v, false
	}
	if v == 0 && !wrapped {
		return reload, true
	}
	return v, false
}
