package backend

import (
	"context"
	"time"

	"github.com/yannesss/finreport/internal/service"
	"github.com/yannesss/finreport/internal/smart"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the wired collaborators and optional cleanup function
type BackendResult struct {
	Service *service.LedgerService
	Parser  smart.Parser
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend creates a backend instance based on the provided config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	// Storage backend type
	Type BackendType

	// File specific
	FileDBPath string

	// SQLite specific
	SQLiteDBPath string

	// AMQP (optional)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Smart entry
	Parser          ParserType
	GeminiModel     string
	SmartParseDelay time.Duration

	// Reporting
	BreakdownThreshold int
}

// BackendType represents the type of storage backend
type BackendType string

const (
	FileBackend   BackendType = "file"
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case FileBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// ParserType represents the smart entry parser implementation
type ParserType string

const (
	RulesParser  ParserType = "rules"
	GeminiParser ParserType = "gemini"
)

// String implements fmt.Stringer
func (pt ParserType) String() string {
	return string(pt)
}

// IsValid returns true if the parser type is valid
func (pt ParserType) IsValid() bool {
	switch pt {
	case RulesParser, GeminiParser:
		return true
	default:
		return false
	}
}
