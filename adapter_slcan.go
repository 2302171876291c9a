package canshark

import (
	"context"
	"encoding/hex"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/avast/retry-go"
	"go.bug.st/serial"
)

func init() {
	if err := RegisterAdapter(&AdapterInfo{
		Name:               "SLCan",
		Description:        "Canable SLCan adapter",
		RequiresSerialPort: true,
		New:                NewSLCan,
	}); err != nil {
		panic(err)
	}
}

var slcanRates = map[float64]string{
	10:      "S0",
	20:      "S1",
	50:      "S2",
	100:     "S3",
	125:     "S4",
	250:     "S5",
	500:     "S6",
	750:     "S7",
	1000:    "S8",
	615.384: "S9",
}

type SLCan struct {
	*BaseAdapter
	port    serial.Port
	writeMu sync.Mutex
	rateCmd string
	// sent after the rate command, before the channel is opened
	setup []string
	// how often the status flags are requested, 0 disables
	statusInterval time.Duration
}

func NewSLCan(cfg *AdapterConfig) (Adapter, error) {
	rate, ok := slcanRates[cfg.CANRate]
	if !ok {
		return nil, fmt.Errorf("unsupported CAN rate: %g", cfg.CANRate)
	}
	sl, err := newSLCan("SLCan", rate, cfg)
	if err != nil {
		return nil, err
	}
	return sl, nil
}

func newSLCan(name, rateCmd string, cfg *AdapterConfig) (*SLCan, error) {
	sl := &SLCan{
		BaseAdapter:    NewBaseAdapter(name, cfg),
		rateCmd:        rateCmd,
		statusInterval: time.Second,
	}
	if s, ok := cfg.AdditionalConfig["status_interval"]; ok {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("invalid status_interval %q: %w", s, err)
		}
		sl.statusInterval = d
	}
	return sl, nil
}

func (sl *SLCan) Open(ctx context.Context) error {
	mode := &serial.Mode{
		BaudRate: sl.cfg.PortBaudrate,
		Parity:   serial.NoParity,
		DataBits: 8,
		StopBits: serial.OneStopBit,
	}
	err := retry.Do(func() error {
		p, err := serial.Open(sl.cfg.Port, mode)
		if err != nil {
			return fmt.Errorf("failed to open com port %q : %w", sl.cfg.Port, err)
		}
		sl.port = p
		return nil
	},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(250*time.Millisecond),
		retry.OnRetry(func(n uint, err error) {
			sl.cfg.OnMessage(fmt.Sprintf("retry #%d: %v", n, err))
		}),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return err
	}
	if err := sl.port.SetReadTimeout(3 * time.Millisecond); err != nil {
		sl.port.Close()
		return err
	}
	sl.port.ResetOutputBuffer()
	sl.port.ResetInputBuffer()

	// close any open channel before changing the rate
	cmds := append([]string{"C", sl.rateCmd}, sl.setup...)
	for _, cmd := range append(cmds, "O") {
		if err := sl.write([]byte(cmd + "\r")); err != nil {
			sl.port.Close()
			return err
		}
		time.Sleep(10 * time.Millisecond)
	}

	go sl.recvManager(ctx)
	go sl.sendManager(ctx)
	if sl.statusInterval > 0 {
		go sl.statusPoller(ctx)
	}
	return nil
}

func (sl *SLCan) Close() error {
	sl.BaseAdapter.Close()
	if sl.port == nil {
		return nil
	}
	time.Sleep(10 * time.Millisecond)
	sl.write([]byte("C\r"))
	time.Sleep(10 * time.Millisecond)
	return sl.port.Close()
}

func (sl *SLCan) write(b []byte) error {
	sl.writeMu.Lock()
	defer sl.writeMu.Unlock()
	if _, err := sl.port.Write(b); err != nil {
		return fmt.Errorf("failed to write to com port: %w", err)
	}
	if sl.cfg.Debug {
		sl.Debug(">> " + string(b[:len(b)-1]))
	}
	return nil
}

func (sl *SLCan) recvManager(ctx context.Context) {
	buf := make([]byte, 0, 1024)
	readBuf := make([]byte, 64)
	for ctx.Err() == nil {
		n, err := sl.port.Read(readBuf)
		if err != nil {
			if !sl.closed() {
				sl.Fatal(fmt.Errorf("failed to read com port: %w", err))
			}
			return
		}
		if n == 0 {
			if sl.closed() {
				return
			}
			continue
		}
		buf = sl.parse(buf, readBuf[:n])
	}
}

func (sl *SLCan) sendManager(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sl.closeChan:
			return
		case frame := <-sl.sendChan:
			if err := sl.write(EncodeSLCanFrame(frame)); err != nil {
				sl.Error(err)
			}
		}
	}
}

func (sl *SLCan) statusPoller(ctx context.Context) {
	ticker := time.NewTicker(sl.statusInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-sl.closeChan:
			return
		case <-ticker.C:
			if err := sl.write([]byte("F\r")); err != nil {
				sl.Error(err)
			}
		}
	}
}

// parse processes the read data and returns any remaining partial data.
func (sl *SLCan) parse(buf, readBuf []byte) []byte {
	for _, b := range readBuf {
		switch b {
		case '\a':
			sl.Warn("adapter refused command")
			buf = buf[:0]
		case '\r':
			if len(buf) > 0 {
				sl.handleLine(buf)
			}
			buf = buf[:0]
		default:
			buf = append(buf, b)
		}
	}
	return buf
}

func (sl *SLCan) handleLine(line []byte) {
	switch line[0] {
	case 't', 'T', 'r', 'R':
		f, err := DecodeSLCanFrame(line)
		if err != nil {
			sl.Warn(fmt.Sprintf("%v: %q", err, line))
			return
		}
		sl.deliver(f)
	case 'F':
		flags, err := ParseStatus(line)
		if err != nil {
			sl.Warn(err.Error())
			return
		}
		for i := 0; i < flags.ErrorCount(); i++ {
			sl.deliver(&CANFrame{FrameType: ErrorFrame})
		}
		if flags&StatusRxFIFOFull != 0 {
			sl.Warn("CAN receive FIFO queue full")
		}
	case 'z', 'Z':
		// transmit acknowledge
	case 'V':
		hw, sw, err := ParseVersion(line)
		if err != nil {
			sl.Warn(err.Error())
			return
		}
		sl.Info("hardware version " + hw + ", software version " + sw)
	case 'N':
		sl.Info("serial number " + string(line[1:]))
	default:
		sl.Debug("unknown << " + string(line))
	}
}

// DecodeSLCanFrame decodes t, T, r and R lines without the trailing CR.
func DecodeSLCanFrame(line []byte) (*CANFrame, error) {
	if len(line) == 0 {
		return nil, fmt.Errorf("empty frame")
	}
	idLen := 3
	extended := line[0] == 'T' || line[0] == 'R'
	if extended {
		idLen = 8
	}
	rtr := line[0] == 'r' || line[0] == 'R'
	if len(line) < 1+idLen+1 {
		return nil, fmt.Errorf("frame too short")
	}
	id, err := strconv.ParseUint(string(line[1:1+idLen]), 16, 32)
	if err != nil {
		return nil, fmt.Errorf("failed to decode identifier: %w", err)
	}
	dlc, err := strconv.ParseUint(string(line[1+idLen]), 16, 8)
	if err != nil {
		return nil, fmt.Errorf("failed to decode data length: %w", err)
	}
	if dlc > 8 {
		return nil, fmt.Errorf("invalid data length: %d", dlc)
	}
	frame := &CANFrame{
		Identifier: uint32(id),
		Extended:   extended,
		RTR:        rtr,
		FrameType:  Incoming,
	}
	if rtr {
		frame.Data = make([]byte, dlc)
		return frame, nil
	}
	body := line[2+idLen:]
	if len(body) < int(dlc)*2 {
		return nil, fmt.Errorf("frame body too short")
	}
	frame.Data, err = hex.DecodeString(string(body[:dlc*2]))
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame body: %w", err)
	}
	return frame, nil
}

// EncodeSLCanFrame encodes frame including the trailing CR.
func EncodeSLCanFrame(frame *CANFrame) []byte {
	dlc := min(frame.DLC(), 8)
	buf := make([]byte, 0, 27)
	switch {
	case frame.Extended && frame.RTR:
		buf = append(buf, 'R')
	case frame.Extended:
		buf = append(buf, 'T')
	case frame.RTR:
		buf = append(buf, 'r')
	default:
		buf = append(buf, 't')
	}
	if frame.Extended {
		buf = append(buf, fmt.Sprintf("%08X", frame.Identifier&0x1FFFFFFF)...)
	} else {
		buf = append(buf, fmt.Sprintf("%03X", frame.Identifier&0x7FF)...)
	}
	buf = append(buf, nybbleToHex(byte(dlc)))
	if !frame.RTR {
		for i := 0; i < dlc; i++ {
			buf = append(buf, nybbleToHex(frame.Data[i]>>4), nybbleToHex(frame.Data[i]&0xF))
		}
	}
	return append(buf, '\r')
}

// helper converts a 0..15 value to its ASCII hex nibble
func nybbleToHex(n byte) byte {
	if n < 10 {
		return '0' + n
	}
	return 'A' + (n - 10)
}
