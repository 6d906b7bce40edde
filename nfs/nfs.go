// Package nfs exports a document root read-only over NFSv3.
//
// Clients mount it directly, without portmap:
//
//	mount -o port=N,mountport=N,nfsvers=3,noacl,tcp -t nfs host:/ /mnt
package nfs

import (
	"errors"
	"log"
	"net"
	"sync"

	"github.com/go-git/go-billy/v5"
	gonfs "github.com/willscott/go-nfs"
	nfshelper "github.com/willscott/go-nfs/helpers"

	"minihttpd/utils"
)

// handleCacheSize bounds the number of file handles the export remembers.
const handleCacheSize = 1024

type Server struct {
	listener net.Listener
	logger   *log.Logger

	closeOnce sync.Once
	closeErr  error
	done      chan struct{}
}

// Start binds addr over TCP and serves root in the background.
func Start(addr string, root billy.Filesystem, logger *log.Logger) (*Server, error) {
	if root == nil {
		return nil, errors.New("nfs: nil document root")
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	handler := nfshelper.NewNullAuthHandler(utils.ReadOnly(root))
	cached := nfshelper.NewCachingHandler(handler, handleCacheSize)

	s := &Server{
		listener: ln,
		logger:   logger,
		done:     make(chan struct{}),
	}
	go func() {
		defer close(s.done)
		if logger != nil {
			logger.Printf("nfs export listening on %s", ln.Addr())
		}
		if err := gonfs.Serve(ln, cached); err != nil && !errors.Is(err, net.ErrClosed) {
			if logger != nil {
				logger.Printf("nfs serve error: %v", err)
			}
		}
	}()
	return s, nil
}

func (s *Server) Addr() net.Addr { return s.listener.Addr() }

// Close stops accepting mounts. It is safe to call more than once.
func (s *Server) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.listener.Close()
		<-s.done
	})
	return s.closeErr
}
