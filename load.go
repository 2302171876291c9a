package canshark

import "time"

// BusLoad returns the share of bus capacity used by bits observed over
// elapsed, in percent.
func BusLoad(bits uint64, bitrate uint32, elapsed time.Duration) float64 {
	if bitrate == 0 || elapsed <= 0 {
		return 0
	}
	return ClampLoad(float64(bits) / (float64(bitrate) * elapsed.Seconds()) * 100)
}

// EstimateBits approximates the wire bits used by packets standard frames
// carrying payload bytes in total.
func EstimateBits(packets, payload uint64) uint64 {
	return packets*standardFrameOverhead + payload*8
}
