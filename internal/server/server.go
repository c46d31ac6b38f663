package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"sync"

	"github.com/solwidget/solw/common"
	"github.com/solwidget/solw/pkg/logger"
)

// Server manages framed-protocol connections from CLI clients over a
// Unix socket. It dispatches incoming requests to registered handlers
// and keeps the pool of clients attached for schedule push updates.
type Server struct {
	log      logger.Logger
	pool     *Pool
	handler  map[common.UpdateType]HandlerFunc
	port     int
	listener net.Listener
	mu       sync.Mutex
}

// NewServer creates a new Server instance. The server uses a Unix
// socket as the primary transport, falling back to TCP on the given
// port if Unix socket creation fails.
func NewServer(l logger.Logger, port int) *Server {
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &Server{
		log:     l,
		pool:    NewPool(l),
		handler: make(map[common.UpdateType]HandlerFunc),
		port:    port,
	}
}

// Pool returns the attached-client pool for push broadcasts.
func (s *Server) Pool() *Pool {
	return s.pool
}

// RegisterHandler associates a handler function with a method. When a
// request with the given method is received, the handler is invoked.
func (s *Server) RegisterHandler(method common.UpdateType, handler HandlerFunc) {
	s.handler[method] = handler
}

// createListener creates a Unix socket listener with TCP fallback.
// Transport priority: Unix socket > TCP.
func (s *Server) createListener() (net.Listener, error) {
	socketPath := socketPath()
	_ = os.Remove(socketPath)
	l, err := net.ListenUnix("unix", &net.UnixAddr{
		Name: socketPath,
		Net:  "unix",
	})
	if err != nil {
		s.log.Warning("unix socket unavailable (%v), falling back to tcp", err)
		tcpListener, tcpErr := net.Listen("tcp", fmt.Sprintf("localhost:%d", s.port))
		if tcpErr != nil {
			return nil, fmt.Errorf("error listening: %s", tcpErr.Error())
		}
		return tcpListener, nil
	}
	_ = os.Chmod(socketPath, 0700)
	return l, nil
}

// Start begins listening for incoming connections and blocks until the
// context is canceled. Each connection is handled in its own goroutine.
func (s *Server) Start(ctx context.Context) error {
	l, err := s.createListener()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.listener = l
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	for {
		conn, err := l.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			s.log.Error("error accepting: %v", err)
			continue
		}
		go s.handleConnection(conn)
	}
}

// Shutdown stops the server by closing the listener and removing the
// socket file.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		if err := s.listener.Close(); err != nil {
			s.log.Error("error closing listener: %v", err)
		}
		s.listener = nil
	}
	if err := cleanupSocket(); err != nil {
		s.log.Error("error removing socket file: %v", err)
	}
	return nil
}

func (s *Server) handleConnection(conn net.Conn) {
	sconn := NewSyncConn(conn)
	defer func() {
		s.pool.Detach(sconn)
		conn.Close()
	}()
	for {
		buf, err := sconn.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			s.log.Error("error reading: %v", err)
			break
		}
		err = s.handlerWrapper(sconn, buf)
		if err != nil {
			s.log.Error("error handling: %v", err)
			break
		}
	}
}

func (s *Server) handlerWrapper(sconn *SyncConn, b []byte) error {
	req, err := ParseRequest(b)
	if err != nil {
		return fmt.Errorf("error parsing request: %s", err.Error())
	}
	rHandler, ok := s.handler[req.Method]
	if !ok {
		err = sconn.Write(CreateError("unknown method: " + string(req.Method)))
		if err != nil {
			return fmt.Errorf("error writing response: %s", err.Error())
		}
		return nil
	}
	utype, msg, err := rHandler(sconn, s.pool, req.Message)
	if err != nil {
		err = sconn.Write(InitError(err))
		if err != nil {
			return fmt.Errorf("error writing response: %s", err.Error())
		}
		return nil
	}
	err = sconn.Write(MakeResult(utype, msg))
	if err != nil {
		return fmt.Errorf("error writing response: %s", err.Error())
	}
	return nil
}
