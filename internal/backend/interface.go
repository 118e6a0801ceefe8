package backend

import (
	"context"
	"time"

	"moneyleft/internal/amqp"
	"moneyleft/internal/services"
)

type CleanupFunc func() error

// BackendResult is an opened store plus the optional event client bound to it.
type BackendResult struct {
	Store services.Store
	// Events is nil when AMQP is not configured or could not be reached.
	Events  *amqp.Client
	Cleanup CleanupFunc
}

// Publisher returns Events as a services.Publisher, or nil without AMQP.
func (r *BackendResult) Publisher() services.Publisher {
	if r.Events == nil {
		return nil
	}
	return r.Events
}

type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Optional event publishing
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Now overrides the store clock; nil means time.Now.
	Now func() time.Time
}

type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
