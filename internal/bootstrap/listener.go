package bootstrap

import (
	"net"
	"sync"
	"sync/atomic"

	"github.com/louisbranch/portico/internal/platform/telemetry/metrics"
)

// trackingListener counts the connections it hands out until they close.
type trackingListener struct {
	net.Listener
	metrics *metrics.Listener

	active    atomic.Int64
	accepted  atomic.Int64
	closeOnce sync.Once
	closeErr  error
}

func newTrackingListener(ln net.Listener, m *metrics.Listener) *trackingListener {
	return &trackingListener{Listener: ln, metrics: m}
}

func (l *trackingListener) Accept() (net.Conn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}
	l.accepted.Add(1)
	l.active.Add(1)
	l.metrics.ConnAccepted()
	return &trackedConn{Conn: conn, listener: l}, nil
}

// Close is idempotent; transports and Stop may both close the listener.
func (l *trackingListener) Close() error {
	l.closeOnce.Do(func() {
		l.closeErr = l.Listener.Close()
	})
	return l.closeErr
}

func (l *trackingListener) release() {
	l.active.Add(-1)
	l.metrics.ConnClosed()
}

type trackedConn struct {
	net.Conn
	listener  *trackingListener
	closeOnce sync.Once
}

func (c *trackedConn) Close() error {
	err := c.Conn.Close()
	c.closeOnce.Do(c.listener.release)
	return err
}
