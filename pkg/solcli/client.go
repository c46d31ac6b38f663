// Package solcli is the client library for the solwd daemon. It speaks
// the length-prefixed framed JSON protocol over the daemon's Unix
// socket, with a TCP fallback for hosts without Unix socket support.
package solcli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/solwidget/solw/common"
)

type Client struct {
	mu   *sync.RWMutex
	d    *Dispatcher
	conn net.Conn
}

// NewClient connects to the daemon. The Unix socket is tried first,
// then the TCP fallback address.
func NewClient() (*Client, error) {
	conn, err := net.Dial("unix", socketPath())
	if err != nil {
		debugLog("unix socket %s unavailable (%v), falling back to tcp", socketPath(), err)
		conn, err = net.Dial("tcp", tcpAddress())
		if err != nil {
			return nil, fmt.Errorf("error connecting to daemon: %s", err.Error())
		}
	}
	return &Client{
		conn: conn,
		mu:   &sync.RWMutex{},
		d: &Dispatcher{
			Handlers: make(map[common.UpdateType][]Handler),
		},
	}, nil
}

// NewClientFromConn wraps an existing connection. Used by tests to
// inject a pipe instead of dialing a daemon.
func NewClientFromConn(conn net.Conn) *Client {
	return &Client{
		conn: conn,
		mu:   &sync.RWMutex{},
		d: &Dispatcher{
			Handlers: make(map[common.UpdateType][]Handler),
		},
	}
}

// AddHandler registers a handler for pushed updates of the given type.
func (c *Client) AddHandler(utype common.UpdateType, h Handler) {
	c.d.Handlers[utype] = append(c.d.Handlers[utype], h)
}

// Listen reads pushed updates until a handler returns ErrDisconnect or
// the connection drops.
func (c *Client) Listen() (err error) {
	defer c.conn.Close()
	for {
		c.mu.RLock()
		var buf []byte
		buf, err = read(c.conn)
		if err != nil {
			c.mu.RUnlock()
			err = fmt.Errorf("error reading: %s", err.Error())
			return
		}
		err = c.d.process(buf)
		if err != nil {
			c.mu.RUnlock()
			if err == ErrDisconnect {
				err = nil
			} else {
				err = fmt.Errorf("error processing: %s", err.Error())
			}
			return
		}
		c.mu.RUnlock()
	}
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) invoke(method common.UpdateType, message any) (json.RawMessage, error) {
	// block the updates listener while invoking a method to retrieve
	// the reply here instead
	c.mu.Lock()
	defer c.mu.Unlock()
	buf, err := json.Marshal(&Request{
		Method:  method,
		Message: message,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %s", method, err.Error())
	}
	err = write(c.conn, buf)
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %s", method, err.Error())
	}
	buf, err = read(c.conn)
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %s", method, err.Error())
	}
	var res Response
	err = json.Unmarshal(buf, &res)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %s", method, err.Error())
	}
	if !res.Ok {
		return nil, errors.New(res.Error)
	}
	return res.Update.Message, nil
}
