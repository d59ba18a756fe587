// Package knownhosts maintains the known_hosts file the ssh execution backend
// verifies remote host keys against.
package knownhosts

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/ssh"
	xknownhosts "golang.org/x/crypto/ssh/knownhosts"
)

const defaultKeyscanTimeout = 5 * time.Second

var (
	// ErrNoHostKeys is returned when ssh-keyscan yields no usable entries.
	ErrNoHostKeys = errors.New("knownhosts: no host keys discovered")
	// ErrHostKeyChanged signals that a host presented a key that differs from the recorded one.
	ErrHostKeyChanged = errors.New("knownhosts: host key changed")
)

// KeyscanFunc fetches raw known_hosts lines for host:port.
type KeyscanFunc func(ctx context.Context, host string, port int, timeout time.Duration) ([]byte, error)

// HostKeyChangeError describes a detected host key mismatch.
type HostKeyChangeError struct {
	Host string
	Err  error
}

func (e *HostKeyChangeError) Error() string {
	return fmt.Sprintf("knownhosts: host key for %s changed", e.Host)
}

func (e *HostKeyChangeError) Unwrap() error {
	return ErrHostKeyChanged
}

// Option customizes a Store.
type Option func(*Store)

// WithTimeout overrides the ssh-keyscan timeout (defaults to 5 seconds).
func WithTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.keyscanTimeout = d
		}
	}
}

// WithKeyscanFunc replaces ssh-keyscan, mainly for tests.
func WithKeyscanFunc(fn KeyscanFunc) Option {
	return func(s *Store) {
		if fn != nil {
			s.keyscan = fn
		}
	}
}

// Store is a known_hosts file that learns host keys on first contact and then
// pins them.
type Store struct {
	path           string
	mu             sync.Mutex
	known          map[string]struct{}
	keyscan        KeyscanFunc
	keyscanTimeout time.Duration
}

// New returns a Store backed by the file at path.
func New(path string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("knownhosts: empty path")
	}
	s := &Store{
		path:           path,
		known:          make(map[string]struct{}),
		keyscan:        runKeyscan,
		keyscanTimeout: defaultKeyscanTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the known_hosts file location.
func (s *Store) Path() string {
	return s.path
}

// Ensure makes sure host:port has at least one recorded key, scanning it the
// first time it is seen. Existing entries are never replaced.
func (s *Store) Ensure(ctx context.Context, host string, port int) error {
	if strings.TrimSpace(host) == "" {
		return fmt.Errorf("knownhosts: missing host")
	}
	if port <= 0 {
		port = 22
	}
	spec := hostSpec(host, port)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.known[spec]; ok {
		return nil
	}
	if err := s.ensureFile(); err != nil {
		return err
	}

	present, err := s.hasEntry(spec)
	if err != nil {
		return err
	}
	if present {
		s.known[spec] = struct{}{}
		return nil
	}

	raw, err := s.keyscan(ctx, host, port, s.keyscanTimeout)
	if err != nil {
		return fmt.Errorf("knownhosts: ssh-keyscan failed for %s: %w", spec, err)
	}
	lines := keyscanLines(spec, host, raw)
	if len(lines) == 0 {
		return fmt.Errorf("%w for %s", ErrNoHostKeys, spec)
	}
	if err := s.append(lines); err != nil {
		return err
	}

	log.Info().Str("host", spec).Int("keys", len(lines)).Str("path", s.path).Msg("Recorded SSH host keys")
	s.known[spec] = struct{}{}
	return nil
}

// Callback returns a host key callback checking against the current file
// contents. A mismatch is reported as a *HostKeyChangeError.
func (s *Store) Callback() (ssh.HostKeyCallback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureFile(); err != nil {
		return nil, err
	}
	cb, err := xknownhosts.New(s.path)
	if err != nil {
		return nil, fmt.Errorf("knownhosts: load %s: %w", s.path, err)
	}
	return func(hostname string, remote net.Addr, key ssh.PublicKey) error {
		err := cb(hostname, remote, key)
		var keyErr *xknownhosts.KeyError
		if errors.As(err, &keyErr) && len(keyErr.Want) > 0 {
			return &HostKeyChangeError{Host: hostname, Err: err}
		}
		return err
	}, nil
}

func (s *Store) ensureFile() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("knownhosts: mkdir %s: %w", dir, err)
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("knownhosts: create %s: %w", s.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("knownhosts: close %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) hasEntry(spec string) (found bool, retErr error) {
	f, err := os.Open(s.path)
	if err != nil {
		return false, fmt.Errorf("knownhosts: open %s: %w", s.path, err)
	}
	defer func() {
		retErr = joinCloseError(retErr, "knownhosts: close "+s.path, f.Close())
	}()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if lineMatches(spec, scanner.Text()) {
			return true, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return false, fmt.Errorf("knownhosts: scan %s: %w", s.path, err)
	}
	return false, nil
}

func (s *Store) append(lines []string) (retErr error) {
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("knownhosts: open %s: %w", s.path, err)
	}
	defer func() {
		retErr = joinCloseError(retErr, "knownhosts: close "+s.path, f.Close())
	}()

	for _, line := range lines {
		if _, err := f.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("knownhosts: write %s: %w", s.path, err)
		}
	}
	return nil
}

func joinCloseError(err error, op string, closeErr error) error {
	if closeErr == nil {
		return err
	}
	wrapped := fmt.Errorf("%s: %w", op, closeErr)
	if err == nil {
		return wrapped
	}
	return errors.Join(err, wrapped)
}

// hostSpec is the known_hosts address form: bare host on 22, [host]:port otherwise.
func hostSpec(host string, port int) string {
	return xknownhosts.Normalize(net.JoinHostPort(host, strconv.Itoa(port)))
}

// keyscanLines keeps the well-formed lines of ssh-keyscan output that belong
// to host and rewrites their address field to spec.
func keyscanLines(spec, host string, raw []byte) []string {
	var out []string
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "|") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		if !fieldMatches(spec, fields[0]) && !fieldMatches(host, fields[0]) {
			continue
		}
		if _, _, _, _, err := ssh.ParseAuthorizedKey([]byte(strings.Join(fields[1:], " "))); err != nil {
			continue
		}
		out = append(out, spec+" "+strings.Join(fields[1:], " "))
	}
	return out
}

func lineMatches(spec, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "|") {
		return false
	}
	fields := strings.Fields(line)
	return len(fields) >= 3 && fieldMatches(spec, fields[0])
}

func fieldMatches(want, field string) bool {
	for _, part := range strings.Split(field, ",") {
		if strings.EqualFold(strings.TrimSpace(part), want) {
			return true
		}
	}
	return false
}

func runKeyscan(ctx context.Context, host string, port int, timeout time.Duration) ([]byte, error) {
	seconds := int(timeout.Round(time.Second) / time.Second)
	if seconds <= 0 {
		seconds = int(defaultKeyscanTimeout / time.Second)
	}
	scanCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := []string{"-T", strconv.Itoa(seconds)}
	if port != 22 {
		args = append(args, "-p", strconv.Itoa(port))
	}
	args = append(args, host)

	out, err := exec.CommandContext(scanCtx, "ssh-keyscan", args...).Output()
	if err != nil {
		return nil, fmt.Errorf("ssh-keyscan: %w", err)
	}
	return out, nil
}
