// Package sshexec is the ssh execution backend: every account of the primary
// connection logs in with its own credential and keeps one client open.
package sshexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/ssh"

	"github.com/rcourtman/irconsole/internal/accounts"
	"github.com/rcourtman/irconsole/internal/gateway"
)

const defaultDialTimeout = 15 * time.Second

// HostKeys verifies remote host keys. *knownhosts.Store satisfies it.
type HostKeys interface {
	Ensure(ctx context.Context, host string, port int) error
	Callback() (ssh.HostKeyCallback, error)
}

// Option customizes an Executor.
type Option func(*Executor)

// WithDialTimeout bounds TCP connect plus handshake. It does not bound the
// command itself.
func WithDialTimeout(d time.Duration) Option {
	return func(e *Executor) {
		if d > 0 {
			e.dialTimeout = d
		}
	}
}

// Executor implements gateway.Gateway over ssh.
type Executor struct {
	conn        accounts.Connection
	hostKeys    HostKeys
	dialTimeout time.Duration

	mu      sync.Mutex
	clients map[string]*ssh.Client
}

// New returns an Executor for conn. Nothing is dialed until the first command.
func New(conn accounts.Connection, hostKeys HostKeys, opts ...Option) (*Executor, error) {
	if conn.Host == "" {
		return nil, fmt.Errorf("sshexec: connection %q has no host", conn.Name)
	}
	if len(conn.Accounts) == 0 {
		return nil, fmt.Errorf("sshexec: connection %q has no accounts", conn.Name)
	}
	if hostKeys == nil {
		return nil, fmt.Errorf("sshexec: host key verification is required")
	}
	if conn.Port == 0 {
		conn.Port = 22
	}
	e := &Executor{
		conn:        conn,
		hostKeys:    hostKeys,
		dialTimeout: defaultDialTimeout,
		clients:     make(map[string]*ssh.Client),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Execute implements gateway.Gateway. An empty account logs in as the
// connection default.
func (e *Executor) Execute(ctx context.Context, command, account string) (*gateway.Result, error) {
	acct, err := e.resolve(account)
	if err != nil {
		return nil, err
	}

	client, err := e.client(ctx, acct)
	if err != nil {
		return nil, err
	}

	session, err := client.NewSession()
	if err != nil {
		e.drop(acct.Username, client)
		return nil, fmt.Errorf("open ssh session as %s: %w", acct.Username, err)
	}
	defer session.Close()

	var out bytes.Buffer
	session.Stdout = &out
	session.Stderr = &out

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = session.Signal(ssh.SIGKILL)
			_ = session.Close()
		case <-done:
		}
	}()

	runErr := session.Run(command)
	if ctx.Err() != nil {
		return nil, fmt.Errorf("ssh command interrupted: %w", ctx.Err())
	}

	var exitErr *ssh.ExitError
	var missing *ssh.ExitMissingError
	switch {
	case runErr == nil:
		return &gateway.Result{Output: out.String(), ExitCode: gateway.IntPtr(0)}, nil
	case errors.As(runErr, &exitErr):
		return &gateway.Result{Output: out.String(), ExitCode: gateway.IntPtr(exitErr.ExitStatus())}, nil
	case errors.As(runErr, &missing):
		return &gateway.Result{Output: out.String()}, nil
	default:
		e.drop(acct.Username, client)
		return nil, fmt.Errorf("run ssh command as %s: %w", acct.Username, runErr)
	}
}

// Close disconnects every cached client.
func (e *Executor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var errs []error
	for name, c := range e.clients {
		if err := c.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
		delete(e.clients, name)
	}
	return errors.Join(errs...)
}

func (e *Executor) resolve(account string) (accounts.Account, error) {
	if account == "" {
		acct, _ := e.conn.DefaultAccount()
		return acct, nil
	}
	acct, ok := e.conn.Find(account)
	if !ok {
		return accounts.Account{}, fmt.Errorf("account %q is not configured for %s", account, e.conn.Host)
	}
	return acct, nil
}

func (e *Executor) client(ctx context.Context, acct accounts.Account) (*ssh.Client, error) {
	e.mu.Lock()
	c, ok := e.clients[acct.Username]
	e.mu.Unlock()
	if ok {
		return c, nil
	}

	// Dial without e.mu held; a racing dial for the same account is closed below.
	auth, err := authMethods(acct)
	if err != nil {
		return nil, err
	}
	if err := e.hostKeys.Ensure(ctx, e.conn.Host, e.conn.Port); err != nil {
		return nil, fmt.Errorf("verify host key: %w", err)
	}
	callback, err := e.hostKeys.Callback()
	if err != nil {
		return nil, err
	}

	cfg := &ssh.ClientConfig{
		User:            acct.Username,
		Auth:            auth,
		HostKeyCallback: callback,
		Timeout:         e.dialTimeout,
	}
	addr := net.JoinHostPort(e.conn.Host, strconv.Itoa(e.conn.Port))
	c, err = dial(ctx, addr, cfg)
	if err != nil {
		return nil, fmt.Errorf("ssh connect %s as %s: %w", addr, acct.Username, err)
	}

	e.mu.Lock()
	if existing, ok := e.clients[acct.Username]; ok {
		e.mu.Unlock()
		_ = c.Close()
		return existing, nil
	}
	e.clients[acct.Username] = c
	e.mu.Unlock()

	log.Info().Str("host", addr).Str("account", acct.Username).Msg("SSH client connected")
	return c, nil
}

// drop forgets a client that failed, so the next action redials.
func (e *Executor) drop(username string, c *ssh.Client) {
	e.mu.Lock()
	if e.clients[username] == c {
		delete(e.clients, username)
	}
	e.mu.Unlock()
	_ = c.Close()
	log.Warn().Str("account", username).Msg("Dropped SSH client after failure")
}

func dial(ctx context.Context, addr string, cfg *ssh.ClientConfig) (*ssh.Client, error) {
	dialCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	var d net.Dialer
	nc, err := d.DialContext(dialCtx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	if deadline, ok := dialCtx.Deadline(); ok {
		_ = nc.SetDeadline(deadline)
	}
	conn, chans, reqs, err := ssh.NewClientConn(nc, addr, cfg)
	if err != nil {
		_ = nc.Close()
		return nil, err
	}
	_ = nc.SetDeadline(time.Time{})
	return ssh.NewClient(conn, chans, reqs), nil
}

func authMethods(acct accounts.Account) ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod
	if acct.KeyPath != "" {
		pem, err := os.ReadFile(acct.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("read key for %s: %w", acct.Username, err)
		}
		var signer ssh.Signer
		if acct.Password != "" {
			signer, err = ssh.ParsePrivateKeyWithPassphrase(pem, []byte(acct.Password))
		} else {
			signer, err = ssh.ParsePrivateKey(pem)
		}
		if err != nil {
			return nil, fmt.Errorf("parse key for %s: %w", acct.Username, err)
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}
	if acct.Password != "" && acct.KeyPath == "" {
		password := acct.Password
		methods = append(methods,
			ssh.Password(password),
			ssh.KeyboardInteractive(func(user, instruction string, questions []string, echos []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range answers {
					answers[i] = password
				}
				return answers, nil
			}),
		)
	}
	if len(methods) == 0 {
		return nil, fmt.Errorf("account %s has neither a password nor a key", acct.Username)
	}
	return methods, nil
}
