//go:build !windows
// +build !windows

package pipe

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
)

// channel is a named FIFO through which one pipeline feeds the joiner.
// The joiner opens it for reading by path; the pipeline's last stage
// writes to it.
type channel struct {
	path string

	// opened is closed once `openWriter()` has returned, whether or
	// not it succeeded.
	opened      chan struct{}
	releaseOnce sync.Once
}

// channels is the set of FIFOs of one join, all living in a private
// temporary directory.
type channels struct {
	dir  string
	list []*channel
}

// newChannels creates `n` FIFOs in a fresh temporary directory. The
// caller must call `cleanup()` when done with them.
func newChannels(n int) (*channels, error) {
	dir, err := os.MkdirTemp("", "dffs-")
	if err != nil {
		return nil, fmt.Errorf("creating channel directory: %w", err)
	}

	cs := &channels{dir: dir}
	for i := 0; i < n; i++ {
		path := filepath.Join(dir, fmt.Sprintf("pipe%d", i+1))
		if err := unix.Mkfifo(path, 0o600); err != nil {
			_ = cs.cleanup()
			return nil, fmt.Errorf("creating channel %s: %w", path, &os.PathError{Op: "mkfifo", Path: path, Err: err})
		}
		cs.list = append(cs.list, &channel{
			path:   path,
			opened: make(chan struct{}),
		})
	}

	return cs, nil
}

func (cs *channels) paths() []string {
	paths := make([]string, len(cs.list))
	for i, c := range cs.list {
		paths[i] = c.path
	}
	return paths
}

// release unblocks any writer still waiting for a reader of the
// channels. It is called once the joiner has exited.
func (cs *channels) release() {
	for _, c := range cs.list {
		c.release()
	}
}

// cleanup removes the FIFOs and their directory.
func (cs *channels) cleanup() error {
	return os.RemoveAll(cs.dir)
}

// openWriter opens the write side of the FIFO. This blocks until
// somebody (normally the joiner) opens the read side, so it must only
// be called from a goroutine dedicated to this channel.
func (c *channel) openWriter() (*os.File, error) {
	defer close(c.opened)

	for {
		fd, err := unix.Open(c.path, unix.O_WRONLY|unix.O_CLOEXEC, 0)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return nil, &os.PathError{Op: "open", Path: c.path, Err: err}
		}
		return os.NewFile(uintptr(fd), c.path), nil
	}
}

// release opens the read side of the FIFO without blocking, so that a
// writer blocked in `openWriter()` can proceed, then closes it again
// once the writer's open has returned. Whatever the writer then writes
// fails with EPIPE, as it would if the joiner had opened the channel
// and exited early.
func (c *channel) release() {
	c.releaseOnce.Do(func() {
		fd, err := unix.Open(c.path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
		<-c.opened
		if err == nil {
			_ = unix.Close(fd)
		}
	})
}
