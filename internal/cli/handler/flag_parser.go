// Package handler provides flag parsing utilities
package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanban/internal/cli"
	"github.com/thenoetrevino/kanban/internal/types"
)

// FlagParser provides common flag extraction patterns. Failures wrap
// cli.ErrUsage so they exit with the usage code.
type FlagParser struct {
	cmd *cobra.Command
}

// NewFlagParser creates a new flag parser
func NewFlagParser(cmd *cobra.Command) *FlagParser {
	return &FlagParser{cmd: cmd}
}

// ParseBoardID extracts the board ID from --board or KANBAN_BOARD
func (p *FlagParser) ParseBoardID() (types.BoardID, error) {
	return cli.GetBoardID(p.cmd)
}

// ParseID extracts a required positive ID from an int64 flag
func (p *FlagParser) ParseID(flagName string) (int64, error) {
	value, err := p.cmd.Flags().GetInt64(flagName)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s flag: %w", flagName, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%w: --%s must be greater than 0", cli.ErrUsage, flagName)
	}
	return value, nil
}

// ParseIDOptional extracts an ID flag where 0 means unset
func (p *FlagParser) ParseIDOptional(flagName string) (int64, error) {
	value, err := p.cmd.Flags().GetInt64(flagName)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s flag: %w", flagName, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("%w: --%s cannot be negative", cli.ErrUsage, flagName)
	}
	return value, nil
}

// ParseIDArg extracts an ID from the first positional argument, falling back
// to flagName
func (p *FlagParser) ParseIDArg(args []string, flagName string) (int64, error) {
	if len(args) > 0 {
		value, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || value <= 0 {
			return 0, fmt.Errorf("%w: invalid %s ID: %s", cli.ErrUsage, flagName, args[0])
		}
		return value, nil
	}
	return p.ParseID(flagName)
}

// ParseString extracts a required string flag
func (p *FlagParser) ParseString(flagName string) (string, error) {
	value, err := p.cmd.Flags().GetString(flagName)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s flag: %w", flagName, err)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w: --%s is required", cli.ErrUsage, flagName)
	}
	return value, nil
}

// ParseStringOptional extracts an optional string flag
func (p *FlagParser) ParseStringOptional(flagName string) (string, error) {
	return p.cmd.Flags().GetString(flagName)
}

// Changed reports whether the flag was set on the command line
func (p *FlagParser) Changed(flagName string) bool {
	return p.cmd.Flags().Changed(flagName)
}

// ParseBool extracts a boolean flag
func (p *FlagParser) ParseBool(flagName string) (bool, error) {
	return p.cmd.Flags().GetBool(flagName)
}
