// Package proxy runs an in-process SOCKS5 proxy that browser sessions can be
// routed through.
package proxy

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net"
	"strconv"

	"github.com/armon/go-socks5"
	"github.com/golang/glog"
)

// Server is a running SOCKS5 proxy.
type Server struct {
	ln   net.Listener
	done chan struct{}
}

// Option configures the proxy.
type Option func(*socks5.Config)

// WithRedirect sends every proxied connection to hostPort, whatever address
// the client asked for.
func WithRedirect(hostPort string) Option {
	return func(c *socks5.Config) {
		to, err := addrSpec(hostPort)
		if err != nil {
			glog.Errorf("not redirecting proxy traffic: %v", err)
			return
		}
		c.Rewriter = redirect{to}
	}
}

// WithCredentials requires clients to authenticate with user and password.
func WithCredentials(user, password string) Option {
	return func(c *socks5.Config) {
		c.Credentials = socks5.StaticCredentials{user: password}
	}
}

// Start listens on addr, e.g. "127.0.0.1:0", and serves SOCKS5 in the
// background until Close is called.
func Start(addr string, opts ...Option) (*Server, error) {
	conf := &socks5.Config{Logger: log.New(glogWriter{}, "socks5: ", 0)}
	for _, opt := range opts {
		opt(conf)
	}
	srv, err := socks5.New(conf)
	if err != nil {
		return nil, fmt.Errorf("error creating SOCKS5 server: %w", err)
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	s := &Server{ln: ln, done: make(chan struct{})}
	go func() {
		defer close(s.done)
		if err := srv.Serve(ln); err != nil {
			glog.V(1).Infof("SOCKS5 proxy on %s stopped: %v", ln.Addr(), err)
		}
	}()
	glog.V(1).Infof("SOCKS5 proxy listening on %s", ln.Addr())
	return s, nil
}

// Addr returns the host:port the proxy listens on.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Close stops accepting connections and waits for the accept loop to exit.
func (s *Server) Close() error {
	err := s.ln.Close()
	<-s.done
	return err
}

type redirect struct {
	to *socks5.AddrSpec
}

func (r redirect) Rewrite(ctx context.Context, _ *socks5.Request) (context.Context, *socks5.AddrSpec) {
	to := *r.to
	return ctx, &to
}

func addrSpec(hostPort string) (*socks5.AddrSpec, error) {
	host, portStr, err := net.SplitHostPort(hostPort)
	if err != nil {
		return nil, fmt.Errorf("invalid address %q: %w", hostPort, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid port in %q: %w", hostPort, err)
	}
	spec := &socks5.AddrSpec{Port: port}
	if ip := net.ParseIP(host); ip != nil {
		spec.IP = ip
	} else {
		spec.FQDN = host
	}
	return spec, nil
}

// glogWriter forwards the proxy's log output to glog.
type glogWriter struct{}

func (glogWriter) Write(p []byte) (int, error) {
	glog.V(1).Info(string(bytes.TrimRight(p, "\n")))
	return len(p), nil
}
