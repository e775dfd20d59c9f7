package initializers

import (
	"log"
	"os"

	"go.uber.org/zap"
)

// Log is the application-wide structured logger. It is initialized once at
// startup, before any request handling begins.
var Log *zap.SugaredLogger

func InitLogger() {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stdout"}
	if os.Getenv("APP_ENV") == "development" {
		cfg = zap.NewDevelopmentConfig()
	}

	logger, err := cfg.Build()
	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	Log = logger.Sugar()
}
