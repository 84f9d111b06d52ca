//go:build windows
// +build windows

package pipe

import (
	"errors"
	"os"
)

var errChannelsUnsupported = errors.New("named pipes are not supported on this platform")

type channel struct {
	path string
}

type channels struct {
	list []*channel
}

func newChannels(n int) (*channels, error) {
	return nil, errChannelsUnsupported
}

func (cs *channels) paths() []string { return nil }

func (cs *channels) release() {}

func (cs *channels) cleanup() error { return nil }

func (c *channel) openWriter() (*os.File, error) {
	return nil, errChannelsUnsupported
}
