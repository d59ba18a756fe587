// Package accounts loads the credential contexts a command can run under and
// tracks which one the operator picked for the open menu.
package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Account is one credential context on the remote host.
type Account struct {
	Username    string `json:"username"`
	Description string `json:"description,omitempty"`
	IsDefault   bool   `json:"is_default"`
	Password    string `json:"password,omitempty"`
	KeyPath     string `json:"key_path,omitempty"`
}

// Label renders the account the way the picker shows it: "alice (ops) [default]".
func (a Account) Label() string {
	var b strings.Builder
	b.WriteString(a.Username)
	if a.Description != "" {
		fmt.Fprintf(&b, " (%s)", a.Description)
	}
	if a.IsDefault {
		b.WriteString(" [default]")
	}
	return b.String()
}

// Connection is one configured remote host.
type Connection struct {
	Name     string    `json:"name"`
	Host     string    `json:"host"`
	Port     int       `json:"port,omitempty"`
	Accounts []Account `json:"accounts"`
}

// DefaultAccount returns the account flagged is_default, else the first one.
func (c Connection) DefaultAccount() (Account, bool) {
	for _, a := range c.Accounts {
		if a.IsDefault {
			return a, true
		}
	}
	if len(c.Accounts) > 0 {
		return c.Accounts[0], true
	}
	return Account{}, false
}

// Find returns the account with the given username.
func (c Connection) Find(username string) (Account, bool) {
	for _, a := range c.Accounts {
		if a.Username == username {
			return a, true
		}
	}
	return Account{}, false
}

// Lister serves the load_ssh_connections contract.
type Lister interface {
	LoadConnections(ctx context.Context) ([]Connection, error)
}

// FileLister reads connections from a JSON document. A missing file is an
// empty list.
type FileLister struct {
	Path string
}

// NewFileLister creates a lister for the connections document at path.
func NewFileLister(path string) *FileLister {
	return &FileLister{Path: path}
}

// LoadConnections implements Lister.
func (f *FileLister) LoadConnections(ctx context.Context) ([]Connection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read connections: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}

	var conns []Connection
	if err := json.Unmarshal(data, &conns); err != nil {
		return nil, fmt.Errorf("parse connections %s: %w", f.Path, err)
	}
	for i := range conns {
		if conns[i].Port == 0 {
			conns[i].Port = 22
		}
	}
	return conns, nil
}

// Loader reads the account list of the primary connection. Concurrent loads
// share one call to the underlying Lister.
//
// Only the first connection is consulted; a console talks to one host.
type Loader struct {
	lister Lister
	group  singleflight.Group
}

// NewLoader wraps a Lister.
func NewLoader(lister Lister) *Loader {
	return &Loader{lister: lister}
}

// Primary returns connection index 0, if any.
func (l *Loader) Primary(ctx context.Context) (Connection, bool, error) {
	v, err, shared := l.group.Do("connections", func() (interface{}, error) {
		return l.lister.LoadConnections(ctx)
	})
	if err != nil {
		return Connection{}, false, err
	}
	if shared {
		log.Debug().Msg("Account list load shared with a concurrent caller")
	}
	conns, _ := v.([]Connection)
	if len(conns) == 0 {
		return Connection{}, false, nil
	}
	return conns[0], true, nil
}

// Accounts returns the accounts of the primary connection.
func (l *Loader) Accounts(ctx context.Context) ([]Account, error) {
	conn, ok, err := l.Primary(ctx)
	if err != nil || !ok {
		return nil, err
	}
	out := make([]Account, len(conn.Accounts))
	copy(out, conn.Accounts)
	return out, nil
}

// Option is one entry of the account picker. The empty value means "use the
// connection default".
type Option struct {
	Value string
	Label string
}

// DefaultOptionLabel is the label of the empty selection.
const DefaultOptionLabel = "Default account"

// Options builds the picker entries for accounts, default entry first.
func Options(accounts []Account) []Option {
	opts := make([]Option, 0, len(accounts)+1)
	opts = append(opts, Option{Value: "", Label: DefaultOptionLabel})
	for _, a := range accounts {
		opts = append(opts, Option{Value: a.Username, Label: a.Label()})
	}
	return opts
}

// Resolver holds the account selection for one controller. The zero value
// selects the connection default.
type Resolver struct {
	mu       sync.Mutex
	selected string
}

// Select records the operator's choice. An empty name restores the default.
func (r *Resolver) Select(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selected = strings.TrimSpace(username)
}

// Selected returns the explicit account, or false for the connection default.
func (r *Resolver) Selected() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selected, r.selected != ""
}

// Reset clears the selection.
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selected = ""
}
