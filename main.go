package main

import (
	"MindProfile/internal/adapters/app"
	"os"

	"go.uber.org/zap"
)

func main() {
	a, err := app.New()
	if err != nil {
		boot := zap.Must(zap.NewProduction())
		boot.Error("startup failed", zap.Error(err))
		_ = boot.Sync()
		os.Exit(1)
	}
	if err := a.Start(); err != nil {
		os.Exit(1)
	}
}
