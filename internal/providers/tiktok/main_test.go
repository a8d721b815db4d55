package tiktok_test

import (
	"fmt"
	"os"
	"testing"

	"github.com/toklytics/toklytics-live/internal/logger"
)

// TestMain initializes the global logger once, before any test goroutine can log
func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: true}); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}
