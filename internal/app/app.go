package app

import (
	"go.uber.org/zap"

	"aethos/internal/domain"
)

// App is the validated configuration plus the dependency graph built from it.
type App struct {
	Config  Config
	Profile domain.Profile
	*Wire
}

// New validates cfg and wires the application.
func New(cfg Config, log *zap.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w, err := NewWire(cfg, log)
	if err != nil {
		return nil, err
	}
	return &App{
		Config:  cfg,
		Profile: domain.Profile(cfg.Profile),
		Wire:    w,
	}, nil
}
