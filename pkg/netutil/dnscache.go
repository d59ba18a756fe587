// Package netutil builds outbound HTTP clients that share a cached resolver.
package netutil

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/dnscache"
	"github.com/rs/zerolog/log"
)

const defaultRefresh = 5 * time.Minute

// Resolver caches lookups and refreshes them on a fixed interval.
type Resolver struct {
	cache    *dnscache.Resolver
	refresh  time.Duration
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewResolver starts a cached resolver. A non-positive ttl uses five minutes.
func NewResolver(ttl time.Duration) *Resolver {
	if ttl <= 0 {
		ttl = defaultRefresh
	}
	r := &Resolver{
		cache:   &dnscache.Resolver{},
		refresh: ttl,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}

	log.Debug().Dur("ttl", ttl).Msg("Initializing DNS resolver cache")

	go r.refreshLoop()
	return r
}

func (r *Resolver) refreshLoop() {
	defer close(r.doneCh)
	ticker := time.NewTicker(r.refresh)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			// drop entries that were not used since the last refresh
			r.cache.Refresh(true)
			log.Debug().Dur("ttl", r.refresh).Msg("DNS cache refreshed")
		}
	}
}

// Stop ends the refresh loop.
func (r *Resolver) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
	<-r.doneCh
}

// DialContext resolves through the cache and dials the first address.
func (r *Resolver) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	host, port, err := net.SplitHostPort(address)
	if err != nil {
		return nil, err
	}

	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	if ip := net.ParseIP(host); ip != nil {
		return dialer.DialContext(ctx, network, address)
	}

	ips, err := r.cache.LookupHost(ctx, host)
	if err != nil {
		return nil, err
	}
	if len(ips) == 0 {
		return nil, &net.DNSError{Err: "no IP addresses found", Name: host}
	}
	return dialer.DialContext(ctx, network, net.JoinHostPort(ips[0], port))
}

// NewHTTPClient returns a client dialing through r. It sets no overall
// timeout so long-lived streams are bounded only by their context.
func (r *Resolver) NewHTTPClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = r.DialContext
	transport.ResponseHeaderTimeout = 60 * time.Second
	return &http.Client{Transport: transport}
}
