//go:build !linux

package canshark

import "errors"

func interfaceBitrate(string) (uint32, error) {
	return 0, errors.New("bitrate lookup needs netlink")
}
