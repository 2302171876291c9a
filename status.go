package canshark

import (
	"fmt"
	"strconv"
)

/*
Bit 0 CAN receive FIFO queue full
Bit 1 CAN transmit FIFO queue full
Bit 2 Error warning (EI), see SJA1000 datasheet
Bit 3 Data Overrun (DOI), see SJA1000 datasheet
Bit 4 Not used.
Bit 5 Error Passive (EPI), see SJA1000 datasheet
Bit 6 Arbitration Lost (ALI), see SJA1000 datasheet
Bit 7 Bus Error (BEI), see SJA1000 datasheet
*/
type StatusFlags uint8

const (
	StatusRxFIFOFull StatusFlags = 1 << iota
	StatusTxFIFOFull
	StatusErrorWarning
	StatusDataOverrun
	statusUnused
	StatusErrorPassive
	StatusArbitrationLost
	StatusBusError
)

// errors counted as error packets, arbitration lost is normal bus behavior
const statusErrorMask = StatusErrorWarning | StatusDataOverrun | StatusErrorPassive | StatusBusError

var statusNames = []struct {
	flag StatusFlags
	name string
}{
	{StatusRxFIFOFull, "CAN receive FIFO queue full"},
	{StatusTxFIFOFull, "CAN transmit FIFO queue full"},
	{StatusErrorWarning, "error warning (EI)"},
	{StatusDataOverrun, "data overrun (DOI)"},
	{StatusErrorPassive, "error passive (EPI)"},
	{StatusArbitrationLost, "arbitration lost (ALI)"},
	{StatusBusError, "bus error (BEI)"},
}

// ParseStatus decodes a status flag reply, "F" followed by two hex digits.
func ParseStatus(reply []byte) (StatusFlags, error) {
	if len(reply) != 3 || reply[0] != 'F' {
		return 0, fmt.Errorf("invalid status reply %q", reply)
	}
	v, err := strconv.ParseUint(string(reply[1:]), 16, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid status reply %q: %w", reply, err)
	}
	return StatusFlags(v), nil
}

// ErrorCount returns how many bus error conditions are flagged.
func (s StatusFlags) ErrorCount() int {
	n := 0
	for v := s & statusErrorMask; v != 0; v &= v - 1 {
		n++
	}
	return n
}

func (s StatusFlags) Strings() []string {
	var out []string
	for _, sn := range statusNames {
		if s&sn.flag != 0 {
			out = append(out, sn.name)
		}
	}
	return out
}
