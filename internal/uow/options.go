package uow

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Options configures a physical unit. They are set exactly once, when the
// unit is initialized.
type Options struct {
	IsTransactional bool

	// IsolationLevel is handed to transaction handles. sql.LevelDefault means
	// "use the configured default".
	IsolationLevel sql.IsolationLevel

	// Timeout bounds the lifetime of transactions opened for the unit. Zero
	// means "use the configured default"; a negative default disables it.
	Timeout time.Duration
}

// TransactionBehavior decides whether units begun with an automatic
// transactional hint become transactional.
type TransactionBehavior string

// Supported transaction behaviors.
const (
	TransactionAuto     TransactionBehavior = "auto"
	TransactionEnabled  TransactionBehavior = "enabled"
	TransactionDisabled TransactionBehavior = "disabled"
)

// IsValid reports whether b is a known behavior.
func (b TransactionBehavior) IsValid() bool {
	switch b {
	case TransactionAuto, TransactionEnabled, TransactionDisabled:
		return true
	default:
		return false
	}
}

// DrainPolicy selects which event channel is published first on every pass
// of the drain loop.
type DrainPolicy string

const (
	// DrainLocalFirst publishes in-process handlers before distributed
	// records.
	DrainLocalFirst DrainPolicy = "local_first"

	// DrainOutboxFirst writes distributed (outbox) records before running
	// in-process handlers, so a failing local handler never leaves a pass
	// with handlers run but distributed records unwritten.
	DrainOutboxFirst DrainPolicy = "outbox_first"
)

// IsValid reports whether p is a known policy.
func (p DrainPolicy) IsValid() bool {
	return p == DrainLocalFirst || p == DrainOutboxFirst
}

// Defaults holds the configured fallbacks used to normalize Options.
type Defaults struct {
	TransactionBehavior TransactionBehavior
	IsolationLevel      sql.IsolationLevel
	Timeout             time.Duration
}

// Normalize fills the unset fields of opts from d.
func (d Defaults) Normalize(opts Options) Options {
	if opts.IsolationLevel == sql.LevelDefault {
		opts.IsolationLevel = d.IsolationLevel
	}
	if opts.Timeout == 0 && d.Timeout > 0 {
		opts.Timeout = d.Timeout
	}
	return opts
}

// IsTransactional resolves the configured behavior against the caller's
// automatic guess (for example "the request is not a GET").
func (d Defaults) IsTransactional(auto bool) bool {
	switch d.TransactionBehavior {
	case TransactionEnabled:
		return true
	case TransactionDisabled:
		return false
	default:
		return auto
	}
}

// ParseIsolationLevel converts a configuration string such as
// "read_committed" or "Serializable" to a sql.IsolationLevel. The empty
// string maps to sql.LevelDefault.
func ParseIsolationLevel(s string) (sql.IsolationLevel, error) {
	norm := strings.NewReplacer("_", " ", "-", " ").Replace(strings.ToLower(strings.TrimSpace(s)))
	if norm == "" {
		return sql.LevelDefault, nil
	}
	for level := sql.LevelDefault; level <= sql.LevelLinearizable; level++ {
		if strings.ToLower(level.String()) == norm {
			return level, nil
		}
	}
	return sql.LevelDefault, fmt.Errorf("uow: unknown isolation level %q", s)
}
