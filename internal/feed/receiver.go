// Package feed supplies framed market data to the engine's ingress thread.
//
// The engine only depends on the Receiver contract: "receive up to len(buf)
// bytes into buf, without blocking beyond one iteration". Two sources
// implement it — a UDP multicast receiver for live mode and an in-process
// simulator for everything else. Which one the engine gets is a config
// decision made at startup.
package feed

import (
	"errors"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
)

// Receiver is the ingress contract the market-data thread polls.
type Receiver interface {
	// Start acquires the source. Must be called before Receive.
	Start() error
	// Stop releases the source. Receive calls after Stop return an error.
	Stop()
	// Receive fills buf with the next datagram's bytes. Returns 0, nil
	// when no data is ready; never blocks longer than one poll interval.
	Receive(buf []byte) (int, error)
}

// MulticastConfig describes the live feed's group membership.
type MulticastConfig struct {
	Group           string // e.g. "233.54.12.111"
	Port            int
	Interface       string // interface name; empty lets the kernel choose
	ReadBufferBytes int    // kernel receive buffer; 0 keeps the default
}

// pollTimeout bounds one nonblocking Receive attempt.
const pollTimeout = time.Millisecond

// MulticastReceiver joins a UDP multicast group and drains datagrams with a
// short read deadline so the caller's loop stays responsive to shutdown.
type MulticastReceiver struct {
	cfg    MulticastConfig
	logger *zap.Logger
	conn   *net.UDPConn
}

// NewMulticastReceiver creates a receiver; the socket is opened by Start.
func NewMulticastReceiver(cfg MulticastConfig, logger *zap.Logger) *MulticastReceiver {
	return &MulticastReceiver{cfg: cfg, logger: logger}
}

// Start joins the group. A failure here is a startup error: live mode
// cannot run without the socket.
func (r *MulticastReceiver) Start() error {
	group := net.ParseIP(r.cfg.Group)
	if group == nil {
		return fmt.Errorf("feed: bad multicast group %q", r.cfg.Group)
	}

	var ifi *net.Interface
	if r.cfg.Interface != "" {
		found, err := net.InterfaceByName(r.cfg.Interface)
		if err != nil {
			return fmt.Errorf("feed: interface %s: %w", r.cfg.Interface, err)
		}
		ifi = found
	}

	conn, err := net.ListenMulticastUDP("udp4", ifi, &net.UDPAddr{IP: group, Port: r.cfg.Port})
	if err != nil {
		return fmt.Errorf("feed: join %s:%d: %w", r.cfg.Group, r.cfg.Port, err)
	}
	if r.cfg.ReadBufferBytes > 0 {
		if err := conn.SetReadBuffer(r.cfg.ReadBufferBytes); err != nil && r.logger != nil {
			r.logger.Warn("could not grow kernel receive buffer", zap.Error(err))
		}
	}
	r.conn = conn
	if r.logger != nil {
		r.logger.Info("joined multicast group",
			zap.String("group", r.cfg.Group),
			zap.Int("port", r.cfg.Port),
		)
	}
	return nil
}

// Stop leaves the group and closes the socket. Idempotent.
func (r *MulticastReceiver) Stop() {
	if r.conn != nil {
		r.conn.Close()
		r.conn = nil
	}
}

// Receive reads one datagram, returning 0, nil when nothing arrived within
// the poll window.
func (r *MulticastReceiver) Receive(buf []byte) (int, error) {
	if r.conn == nil {
		return 0, errors.New("feed: receiver not started")
	}
	r.conn.SetReadDeadline(time.Now().Add(pollTimeout))
	n, _, err := r.conn.ReadFromUDP(buf)
	if err != nil {
		var nerr net.Error
		if errors.As(err, &nerr) && nerr.Timeout() {
			return 0, nil
		}
		return 0, err
	}
	return n, nil
}
