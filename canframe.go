package canshark

import (
	"fmt"
	"strings"
)

type CANFrameType struct {
	Type      int
	Responses int
}

var (
	Incoming   = CANFrameType{Type: 0, Responses: 0}
	Outgoing   = CANFrameType{Type: 1, Responses: 0}
	ErrorFrame = CANFrameType{Type: 2, Responses: 0} // bus error reported by the controller
)

type CANFrame struct {
	Identifier uint32
	Extended   bool
	RTR        bool
	Data       []byte
	FrameType  CANFrameType
}

// NewExtendedFrame creates a new CANFrame and copies the data slice
func NewExtendedFrame(identifier uint32, data []byte, frameType CANFrameType) *CANFrame {
	frame := NewFrame(identifier, data, frameType)
	frame.Extended = true
	return frame
}

// NewFrame creates a new CANFrame and copies the data slice
func NewFrame(identifier uint32, data []byte, frameType CANFrameType) *CANFrame {
	d := make([]byte, len(data))
	copy(d, data)
	return &CANFrame{
		Identifier: identifier,
		Data:       d,
		FrameType:  frameType,
	}
}

// Returns the length of the data (DLC)
func (f *CANFrame) DLC() int {
	return len(f.Data)
}

const (
	standardFrameOverhead = 47 // SOF, 11 bit id, RTR, IDE, r0, DLC, CRC, ACK, EOF, IFS
	extendedFrameOverhead = 67
)

// Bits estimates the number of bits the frame occupies on the wire, bit stuffing not included.
func (f *CANFrame) Bits() uint64 {
	overhead := uint64(standardFrameOverhead)
	if f.Extended {
		overhead = extendedFrameOverhead
	}
	if f.RTR {
		return overhead
	}
	return overhead + uint64(8*min(len(f.Data), 8))
}

func (f *CANFrame) String() string {
	var out strings.Builder
	switch f.FrameType.Type {
	case 0:
		out.WriteString("<i> || ")
	case 1:
		out.WriteString("<o> || ")
	case 2:
		out.WriteString("<e> || ")
	}
	if f.Extended {
		out.WriteString(fmt.Sprintf("0x%08X", f.Identifier) + " || ")
	} else {
		out.WriteString(fmt.Sprintf("0x%03X", f.Identifier) + " || ")
	}
	out.WriteString(fmt.Sprintf("%d || ", len(f.Data)))
	for i, b := range f.Data {
		out.WriteString(fmt.Sprintf("%02X", b))
		if i != len(f.Data)-1 {
			out.WriteString(" ")
		}
	}
	return out.String()
}
