package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/jakechorley/roster-engine/internal/config"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg    *config.Config
	Logger *zap.Logger
	Ctx    context.Context
}
