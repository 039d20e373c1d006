package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yannesss/finreport/internal/amqp"
	"github.com/yannesss/finreport/internal/service"
	"github.com/yannesss/finreport/internal/smart"
	"github.com/yannesss/finreport/internal/smart/gemini"
	"github.com/yannesss/finreport/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		repo    storage.Repository
		closers []func() error
	)
	switch config.Type {
	case FileBackend:
		fileRepo, err := storage.NewFileRepository(config.FileDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize file repository: %w", err)
		}
		repo = fileRepo
		f.logger.Info("Initialized file backend", "path", config.FileDBPath)
	case SQLiteBackend:
		sqliteRepo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		repo = sqliteRepo
		closers = append(closers, sqliteRepo.Close)
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	case MemoryBackend:
		repo = storage.NewMemoryRepository()
		f.logger.Info("Initialized memory backend")
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	// AMQP is optional; a broker that is down must not block startup
	var amqpClient *amqp.Client
	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
		} else {
			amqpClient = client
			closers = append(closers, client.Close)
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	svc, err := service.NewLedgerService(ctx, repo, amqpClient, config.BreakdownThreshold)
	if err != nil {
		runCleanup(closers)
		return nil, fmt.Errorf("failed to initialize ledger service: %w", err)
	}

	parser, err := f.createParser(ctx, config)
	if err != nil {
		runCleanup(closers)
		return nil, err
	}

	return &BackendResult{
		Service: svc,
		Parser:  parser,
		Cleanup: func() error {
			runCleanup(closers)
			return nil
		},
	}, nil
}

func (f *DefaultFactory) createParser(ctx context.Context, config Config) (smart.Parser, error) {
	switch config.Parser {
	case RulesParser:
		f.logger.Info("Initialized rule parser", "delay", config.SmartParseDelay)
		return smart.NewRuleParser(config.SmartParseDelay), nil
	case GeminiParser:
		parser, err := gemini.New(ctx, config.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Gemini parser: %w", err)
		}
		f.logger.Info("Initialized Gemini parser", "model", parser.Model())
		return parser, nil
	default:
		return nil, fmt.Errorf("unsupported parser type: %s", config.Parser)
	}
}

func runCleanup(closers []func() error) {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			slog.Error("Cleanup failed", "error", err)
		}
	}
}
