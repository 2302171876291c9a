package canshark

import (
	"encoding/hex"
	"fmt"

	"github.com/albenik/bcd"
)

func init() {
	if err := RegisterAdapter(&AdapterInfo{
		Name:               "CANUSB",
		Description:        "Lawicell CANUSB",
		RequiresSerialPort: true,
		New:                NewCANUSB,
	}); err != nil {
		panic(err)
	}
}

// lowercase s sets the SJA1000 bus timing registers directly
var canusbRates = map[float64]string{
	10:      "S0",
	20:      "S1",
	33.3:    "s0e1c",
	47.619:  "scb9a",
	50:      "S2",
	100:     "S3",
	125:     "S4",
	250:     "S5",
	500:     "S6",
	615.384: "s4037",
	800:     "S7",
	1000:    "S8",
}

// NewCANUSB speaks the same line protocol as SLCan, with timestamps off,
// acceptance filters and a version query during setup.
func NewCANUSB(cfg *AdapterConfig) (Adapter, error) {
	rate, ok := canusbRates[cfg.CANRate]
	if !ok {
		return nil, fmt.Errorf("unsupported CAN rate: %g", cfg.CANRate)
	}
	cu, err := newSLCan("CANUSB", rate, cfg)
	if err != nil {
		return nil, err
	}
	code, mask := AcceptanceFilter(cfg.CANFilter)
	cu.setup = []string{"Z0", code, mask, "V", "N"}
	return cu, nil
}

// AcceptanceFilter returns the M and m commands letting the standard ids
// through in single filter mode. No ids accepts everything.
func AcceptanceFilter(ids []uint32) (string, string) {
	if len(ids) == 0 {
		return "M00000000", "mFFFFFFFF"
	}
	first := ids[0] & 0x7FF
	var diff uint32
	for _, id := range ids[1:] {
		diff |= (id & 0x7FF) ^ first
	}
	// RTR bit and data bytes are don't care
	return fmt.Sprintf("M%08X", first<<21), fmt.Sprintf("m%08X", diff<<21|0x001FFFFF)
}

// ParseVersion decodes a V reply, two BCD bytes for hardware and software.
func ParseVersion(line []byte) (string, string, error) {
	if len(line) != 5 || line[0] != 'V' {
		return "", "", fmt.Errorf("invalid version reply %q", line)
	}
	b, err := hex.DecodeString(string(line[1:]))
	if err != nil {
		return "", "", fmt.Errorf("invalid version reply %q: %w", line, err)
	}
	return bcdVersion(b[0]), bcdVersion(b[1]), nil
}

func bcdVersion(b byte) string {
	v := bcd.ToUint16([]byte{b})
	return fmt.Sprintf("%d.%d", v/10, v%10)
}
