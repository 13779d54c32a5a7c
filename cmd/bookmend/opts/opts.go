package opts

import (
	"context"
	"os"

	"github.com/walteh/bookmend/pkg/config"
	"github.com/walteh/bookmend/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// RootOpts carries the dependencies shared by every command.
type RootOpts struct {
	ConfigPath string
	Console    *log.Logger
}

// LoadConfig reads the configured rule file. A missing file is not an
// error: runs without rules still do pagination, roman numerals and the
// interactive stages.
func (o *RootOpts) LoadConfig(ctx context.Context) (*config.Config, error) {
	if _, err := os.Stat(o.ConfigPath); os.IsNotExist(err) {
		o.Console.Warningf("config %s not found, running with empty rule sets", o.ConfigPath)
		return &config.Config{}, nil
	}

	cfg, err := config.Load(ctx, o.ConfigPath)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
