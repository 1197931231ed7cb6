package config

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/a8m/envsubst"
	"github.com/pkg/errors"

	"go.viam.com/dualpose/logging"
)

// Read reads a scenario from the given file, expanding environment variables first.
func Read(ctx context.Context, filePath string, logger logging.Logger) (*Scenario, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	return FromReader(ctx, filePath, bytes.NewReader(buf), logger)
}

// FromReader reads a scenario from the given reader and specifies
// where, if applicable, the file the reader originated from.
func FromReader(ctx context.Context, originalPath string, r io.Reader, logger logging.Logger) (*Scenario, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scenario := Scenario{ConfigFilePath: originalPath}
	if err := json.NewDecoder(r).Decode(&scenario); err != nil {
		return nil, errors.Wrapf(err, "failed to decode scenario from json")
	}
	if err := scenario.Validate("scenario"); err != nil {
		return nil, errors.Wrapf(err, "invalid scenario %q", originalPath)
	}

	logger.CDebugw(ctx, "read scenario", "path", originalPath, "ticks", len(scenario.Inputs()))
	return &scenario, nil
}
