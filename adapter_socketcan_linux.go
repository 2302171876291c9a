//go:build linux

package canshark

import (
	"context"
	"fmt"
	"net"
	"strings"

	"go.einride.tech/can"
	"go.einride.tech/can/pkg/candevice"
	"go.einride.tech/can/pkg/socketcan"
)

func init() {
	if err := RegisterAdapter(&AdapterInfo{
		Name:        "SocketCAN",
		Description: "Linux Driver, interface from port",
		New:         NewSocketCAN,
	}); err != nil {
		panic(err)
	}
	for _, dev := range FindDevices() {
		if err := RegisterAdapter(&AdapterInfo{
			Name:        "SocketCAN " + dev,
			Description: "Linux Driver",
			New:         NewSocketCANFromDevName(dev),
		}); err != nil {
			panic(err)
		}
	}
}

// SocketCAN reads a kernel CAN interface. When AdditionalConfig "configure"
// is "true" the interface bitrate is set and the link brought up on Open.
type SocketCAN struct {
	*BaseAdapter
	conn net.Conn
	tx   *socketcan.Transmitter
	rx   *socketcan.Receiver
}

func NewSocketCANFromDevName(dev string) func(cfg *AdapterConfig) (Adapter, error) {
	return func(cfg *AdapterConfig) (Adapter, error) {
		cfg.Port = dev
		return NewSocketCAN(cfg)
	}
}

func NewSocketCAN(cfg *AdapterConfig) (Adapter, error) {
	if cfg.Port == "" {
		return nil, fmt.Errorf("socketcan: interface name required")
	}
	return &SocketCAN{
		BaseAdapter: NewBaseAdapter("SocketCAN", cfg),
	}, nil
}

func (a *SocketCAN) Open(ctx context.Context) error {
	if a.cfg.AdditionalConfig["configure"] == "true" {
		if err := a.configure(); err != nil {
			return err
		}
	}
	conn, err := socketcan.DialContext(ctx, "can", a.cfg.Port)
	if err != nil {
		return fmt.Errorf("socketcan: %w", err)
	}
	a.conn = conn
	a.tx = socketcan.NewTransmitter(conn)
	a.rx = socketcan.NewReceiver(conn)

	go a.recvManager()
	go a.sendManager(ctx)
	return nil
}

func (a *SocketCAN) configure() error {
	d, err := candevice.New(a.cfg.Port)
	if err != nil {
		return err
	}
	if err := d.SetBitrate(a.cfg.Bitrate()); err != nil {
		return fmt.Errorf("socketcan: set bitrate: %w", err)
	}
	if err := d.SetUp(); err != nil {
		return fmt.Errorf("socketcan: set up: %w", err)
	}
	return nil
}

func (a *SocketCAN) Close() error {
	a.BaseAdapter.Close()
	if a.conn != nil {
		return a.conn.Close()
	}
	return nil
}

func (a *SocketCAN) recvManager() {
	for a.rx.Receive() {
		if a.rx.HasErrorFrame() {
			a.deliver(&CANFrame{FrameType: ErrorFrame})
			continue
		}
		f := a.rx.Frame()
		frame := NewFrame(f.ID, f.Data[:f.Length], Incoming)
		frame.Extended = f.IsExtended
		frame.RTR = f.IsRemote
		a.deliver(frame)
	}
	if err := a.rx.Err(); err != nil && !a.closed() {
		a.Fatal(fmt.Errorf("socketcan: %w", err))
	}
}

func (a *SocketCAN) sendManager(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-a.closeChan:
			return
		case f := <-a.sendChan:
			frame := can.Frame{
				ID:         f.Identifier,
				Length:     uint8(min(f.DLC(), 8)),
				IsExtended: f.Extended || a.cfg.UseExtendedID,
				IsRemote:   f.RTR,
			}
			copy(frame.Data[:], f.Data)
			if err := a.tx.TransmitFrame(ctx, frame); err != nil {
				a.Error(fmt.Errorf("send error: %w", err))
			}
		}
	}
}

func FindDevices() (dev []string) {
	iFaces, _ := net.Interfaces()
	for _, i := range iFaces {
		if strings.Contains(i.Name, "can") {
			dev = append(dev, i.Name)
		}
	}
	return
}
