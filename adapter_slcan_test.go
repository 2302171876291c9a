package canshark

import (
	"bytes"
	"testing"
)

func TestDecodeSLCanFrame(t *testing.T) {
	tests := []struct {
		line     string
		id       uint32
		extended bool
		rtr      bool
		data     []byte
		wantErr  bool
	}{
		{line: "t1232AABB", id: 0x123, data: []byte{0xAA, 0xBB}},
		{line: "t7E80", id: 0x7E8, data: []byte{}},
		{line: "T18DAF11081122334455667788", id: 0x18DAF110, extended: true, data: []byte{0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88}},
		{line: "r1003", id: 0x100, rtr: true, data: make([]byte, 3)},
		{line: "R000000FF0", id: 0xFF, extended: true, rtr: true, data: []byte{}},
		{line: "", wantErr: true},
		{line: "t12", wantErr: true},
		{line: "t12G1AA", wantErr: true},
		{line: "t1239", wantErr: true},
		{line: "t1232AA", wantErr: true},
		{line: "t1231ZZ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			f, err := DecodeSLCanFrame([]byte(tt.line))
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeSLCanFrame() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if f.Identifier != tt.id || f.Extended != tt.extended || f.RTR != tt.rtr {
				t.Errorf("frame = %+v", f)
			}
			if !bytes.Equal(f.Data, tt.data) {
				t.Errorf("data = %X, want %X", f.Data, tt.data)
			}
			if f.FrameType != Incoming {
				t.Errorf("frame type = %v, want incoming", f.FrameType)
			}
		})
	}
}

func TestEncodeSLCanFrame(t *testing.T) {
	tests := []struct {
		frame *CANFrame
		want  string
	}{
		{NewFrame(0x123, []byte{0xAA, 0x0B}, Outgoing), "t1232AA0B\r"},
		{NewFrame(0x7FF, nil, Outgoing), "t7FF0\r"},
		{NewExtendedFrame(0x18DAF110, []byte{1}, Outgoing), "T18DAF110101\r"},
		{&CANFrame{Identifier: 0x100, RTR: true, Data: make([]byte, 2)}, "r1002\r"},
		{&CANFrame{Identifier: 0x1, Extended: true, RTR: true}, "R000000010\r"},
	}
	for _, tt := range tests {
		if got := string(EncodeSLCanFrame(tt.frame)); got != tt.want {
			t.Errorf("EncodeSLCanFrame(%v) = %q, want %q", tt.frame, got, tt.want)
		}
	}
}

func TestSLCan_Parse(t *testing.T) {
	sl := &SLCan{BaseAdapter: NewBaseAdapter("SLCan", &AdapterConfig{})}

	rest := sl.parse(nil, []byte("t1001AA\rz\rF0C\rt20"))
	if string(rest) != "t20" {
		t.Errorf("rest = %q, want t20", rest)
	}
	rest = sl.parse(rest, []byte("00\r"))
	if len(rest) != 0 {
		t.Errorf("rest = %q, want empty", rest)
	}

	var frames []*CANFrame
	for len(sl.recvChan) > 0 {
		frames = append(frames, <-sl.recvChan)
	}
	if len(frames) != 4 {
		t.Fatalf("got %d frames, want 4", len(frames))
	}
	if frames[0].Identifier != 0x100 || frames[3].Identifier != 0x200 {
		t.Errorf("frames = %v", frames)
	}
	for _, f := range frames[1:3] {
		if f.FrameType != ErrorFrame {
			t.Errorf("frame %v, want error frame", f)
		}
	}
}

func TestNewSLCan(t *testing.T) {
	if _, err := NewSLCan(&AdapterConfig{CANRate: 333}); err == nil {
		t.Error("unsupported rate accepted")
	}
	if _, err := NewSLCan(&AdapterConfig{CANRate: 500, AdditionalConfig: map[string]string{"status_interval": "often"}}); err == nil {
		t.Error("invalid status_interval accepted")
	}
	a, err := NewSLCan(&AdapterConfig{CANRate: 500})
	if err != nil {
		t.Fatal(err)
	}
	if a.Name() != "SLCan" {
		t.Errorf("Name() = %q", a.Name())
	}
}

func TestAcceptanceFilter(t *testing.T) {
	tests := []struct {
		ids        []uint32
		code, mask string
	}{
		{nil, "M00000000", "mFFFFFFFF"},
		{[]uint32{0x7E8}, "MFD000000", "m001FFFFF"},
		{[]uint32{0x7E8, 0x7E0}, "MFD000000", "m011FFFFF"},
	}
	for _, tt := range tests {
		code, mask := AcceptanceFilter(tt.ids)
		if code != tt.code || mask != tt.mask {
			t.Errorf("AcceptanceFilter(%X) = %s %s, want %s %s", tt.ids, code, mask, tt.code, tt.mask)
		}
	}
}

func TestParseVersion(t *testing.T) {
	hw, sw, err := ParseVersion([]byte("V1013"))
	if err != nil {
		t.Fatal(err)
	}
	if hw != "1.0" || sw != "1.3" {
		t.Errorf("ParseVersion() = %s %s, want 1.0 1.3", hw, sw)
	}
	for _, bad := range []string{"V10", "N1013", "V10ZZ"} {
		if _, _, err := ParseVersion([]byte(bad)); err == nil {
			t.Errorf("ParseVersion(%q) accepted", bad)
		}
	}
}

func TestNewCANUSB(t *testing.T) {
	if _, err := NewCANUSB(&AdapterConfig{CANRate: 615.384}); err != nil {
		t.Fatal(err)
	}
	if _, err := NewCANUSB(&AdapterConfig{CANRate: 750}); err == nil {
		t.Error("unsupported rate accepted")
	}
	a, err := NewAdapter("CANUSB", &AdapterConfig{CANRate: 500, CANFilter: []uint32{0x7E8}})
	if err != nil {
		t.Fatal(err)
	}
	cu := a.(*SLCan)
	if cu.rateCmd != "S6" || len(cu.setup) != 5 || cu.setup[1] != "MFD000000" {
		t.Errorf("rate %q setup %v", cu.rateCmd, cu.setup)
	}
}
