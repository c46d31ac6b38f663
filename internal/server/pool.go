package server

import (
	"sync"

	"github.com/solwidget/solw/pkg/logger"
)

// Pool tracks clients attached for schedule push updates. A broadcast
// after every refresh attempt lets the CLI and other clients re-render
// without polling. Writes go through each connection's SyncConn so a
// push never interleaves with an in-flight response frame.
type Pool struct {
	mu    sync.RWMutex
	conns []*SyncConn
	log   logger.Logger
}

func NewPool(l logger.Logger) *Pool {
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &Pool{log: l}
}

// Attach subscribes a connection to push updates. Attaching an already
// attached connection is a no-op.
func (p *Pool) Attach(sconn *SyncConn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range p.conns {
		if c == sconn {
			return
		}
	}
	p.conns = append(p.conns, sconn)
}

// Detach removes a connection from the subscriber set.
func (p *Pool) Detach(sconn *SyncConn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, c := range p.conns {
		if c == sconn {
			p.conns[i] = p.conns[len(p.conns)-1]
			p.conns = p.conns[:len(p.conns)-1]
			return
		}
	}
}

// Count returns the number of attached connections.
func (p *Pool) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.conns)
}

// Broadcast writes a framed message to every attached connection.
// Connections that fail to receive are closed and dropped.
func (p *Pool) Broadcast(data []byte) {
	p.mu.RLock()
	conns := append([]*SyncConn(nil), p.conns...)
	p.mu.RUnlock()

	var dead []*SyncConn
	for _, sconn := range conns {
		if err := sconn.Write(data); err != nil {
			p.log.Warning("push write failed: %v", err)
			dead = append(dead, sconn)
		}
	}

	if len(dead) == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, sconn := range dead {
		_ = sconn.Conn.Close()
		for i, c := range p.conns {
			if c == sconn {
				p.conns[i] = p.conns[len(p.conns)-1]
				p.conns = p.conns[:len(p.conns)-1]
				break
			}
		}
	}
}
