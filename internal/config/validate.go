package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

var (
	// ErrEmptyRoot indicates a missing repository root
	ErrEmptyRoot = errors.New("empty repository root")

	// ErrInvalidVerbosity indicates a crawl verbosity outside 0..3
	ErrInvalidVerbosity = errors.New("invalid crawl verbosity")

	// ErrInvalidIgnore indicates an ignore pattern that does not compile
	ErrInvalidIgnore = errors.New("invalid ignore pattern")
)

// MaxVerbose is the most detailed crawl log level
const MaxVerbose = 3

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if strings.TrimSpace(cfg.Repository.Root) == "" {
		errs = append(errs, ErrEmptyRoot)
	}
	if cfg.Crawl.Verbose < 0 || cfg.Crawl.Verbose > MaxVerbose {
		errs = append(errs, fmt.Errorf("%w: %d (must be 0-%d)", ErrInvalidVerbosity, cfg.Crawl.Verbose, MaxVerbose))
	}
	for _, p := range cfg.Crawl.Ignore {
		if _, err := glob.Compile(p, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: %q: %v", ErrInvalidIgnore, p, err))
		}
	}

	return joinErrors(errs)
}

// joinErrors combines multiple errors into a single error.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}

	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}
