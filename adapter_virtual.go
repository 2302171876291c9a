package canshark

import (
	"context"
	"encoding/binary"
	"fmt"
	"strconv"
	"time"
)

func init() {
	if err := RegisterAdapter(&AdapterInfo{
		Name:               "Virtual",
		Description:        "Synthetic traffic generator",
		RequiresSerialPort: false,
		New:                NewVirtual,
	}); err != nil {
		panic(err)
	}
}

// MaxVirtualFPS bounds the generator rate, the frame period must stay above zero.
const MaxVirtualFPS = 1000000

// Virtual generates frames at a fixed rate. AdditionalConfig keys:
// "fps" frames per second (default 100), "error_every" emit an error frame
// every n frames (default never).
type Virtual struct {
	*BaseAdapter
	fps        int
	errorEvery int
}

func NewVirtual(cfg *AdapterConfig) (Adapter, error) {
	v := &Virtual{
		BaseAdapter: NewBaseAdapter("Virtual", cfg),
		fps:         100,
	}
	if s, ok := cfg.AdditionalConfig["fps"]; ok {
		fps, err := strconv.Atoi(s)
		if err != nil || fps <= 0 || fps > MaxVirtualFPS {
			return nil, fmt.Errorf("invalid fps %q", s)
		}
		v.fps = fps
	}
	if s, ok := cfg.AdditionalConfig["error_every"]; ok {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid error_every %q", s)
		}
		v.errorEvery = n
	}
	return v, nil
}

func (v *Virtual) Open(ctx context.Context) error {
	go v.generate(ctx)
	go v.sendManager(ctx)
	return nil
}

func (v *Virtual) Close() error {
	v.BaseAdapter.Close()
	return nil
}

func (v *Virtual) generate(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(v.fps))
	defer ticker.Stop()
	var n uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-v.closeChan:
			return
		case <-ticker.C:
			n++
			data := make([]byte, 8)
			binary.BigEndian.PutUint64(data, n)
			v.deliver(&CANFrame{
				Identifier: 0x100 + uint32(n%16),
				Data:       data,
				FrameType:  Incoming,
			})
			if v.errorEvery > 0 && n%uint64(v.errorEvery) == 0 {
				v.deliver(&CANFrame{FrameType: ErrorFrame})
			}
		}
	}
}

// sent frames leave the virtual bus without an echo
func (v *Virtual) sendManager(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-v.closeChan:
			return
		case frame := <-v.sendChan:
			v.Debug("sent " + frame.String())
		}
	}
}
