package server

import (
	"net"
	"sync"
)

// SyncConn serializes frame reads and writes on a single connection so
// a push broadcast and a response never interleave on the wire.
type SyncConn struct {
	Conn     net.Conn
	rmu, wmu sync.Mutex
}

func NewSyncConn(conn net.Conn) *SyncConn {
	return &SyncConn{Conn: conn}
}

// Write sends one length-prefixed frame.
func (s *SyncConn) Write(b []byte) error {
	return write(&s.wmu, s.Conn, b)
}

// Read receives one length-prefixed frame.
func (s *SyncConn) Read() ([]byte, error) {
	return read(&s.rmu, s.Conn)
}
