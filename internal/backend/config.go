package backend

import (
	"fmt"

	"github.com/yannesss/finreport/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	parserType := ParserType(appConfig.ParserBackend)
	if !parserType.IsValid() {
		return Config{}, fmt.Errorf("invalid parser type in config: %s", appConfig.ParserBackend)
	}

	return Config{
		Type: backendType,

		FileDBPath:   appConfig.FileDBPath,
		SQLiteDBPath: appConfig.SQLiteDBPath,

		AMQPURL:      appConfig.AMQPURL,
		AMQPExchange: appConfig.AMQPExchange,
		AMQPQueue:    appConfig.AMQPQueue,

		Parser:          parserType,
		GeminiModel:     appConfig.GeminiModel,
		SmartParseDelay: appConfig.SmartParseDelay,

		BreakdownThreshold: appConfig.BreakdownThreshold,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}
	if !c.Parser.IsValid() {
		return fmt.Errorf("invalid parser type: %s", c.Parser)
	}

	switch c.Type {
	case FileBackend:
		if c.FileDBPath == "" {
			return fmt.Errorf("file database path is required for file backend")
		}
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
	case MemoryBackend:
		// Nothing to check, the memory backend starts empty
	}

	return nil
}
