//go:build linux

package canshark

import "go.einride.tech/can/pkg/candevice"

func interfaceBitrate(iface string) (uint32, error) {
	d, err := candevice.New(iface)
	if err != nil {
		return 0, err
	}
	return d.Bitrate()
}
