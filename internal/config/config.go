// Package config resolves the run configuration from the command line
// arguments and the environment.
package config

import (
	"errors"
	"fmt"
	"iter"
)

// EnvCaseInsensitive is the environment variable that switches searching to
// case-insensitive mode. Only its presence matters, not its value.
const EnvCaseInsensitive = "LGREP_CASE_INSENSITIVE"

var (
	// ErrMissingQuery is reported when no query follows the program name.
	ErrMissingQuery = errors.New("missing query")
	// ErrMissingFilename is reported when no filename follows the query.
	ErrMissingFilename = errors.New("missing filename")
)

// Config holds the validated parameters of one run.
type Config struct {
	Query         string
	Filename      string
	CaseSensitive bool
}

// LookupFunc reports the value of an environment variable and whether it is set.
// os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// MapLookup returns a LookupFunc backed by env.
func MapLookup(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

// ConfigError describes arguments that could not be turned into a Config.
type ConfigError struct {
	// Err is ErrMissingQuery, ErrMissingFilename, or nil when even the
	// program name was absent.
	Err error
}

func (e *ConfigError) Error() string {
	if e.Err == nil {
		return "not enough arguments"
	}
	return fmt.Sprintf("not enough arguments: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Resolve builds a Config from args and the environment.
// args yields the program name, the query and the filename, in that order;
// it is consumed once and anything after the filename is ignored.
// A nil lookup behaves like an empty environment.
func Resolve(args iter.Seq[string], lookup LookupFunc) (*Config, error) {
	next, stop := iter.Pull(args)
	defer stop()

	if _, ok := next(); !ok {
		return nil, &ConfigError{}
	}

	query, ok := next()
	if !ok {
		return nil, &ConfigError{Err: ErrMissingQuery}
	}

	filename, ok := next()
	if !ok {
		return nil, &ConfigError{Err: ErrMissingFilename}
	}

	return &Config{
		Query:         query,
		Filename:      filename,
		CaseSensitive: !caseInsensitive(lookup),
	}, nil
}

func caseInsensitive(lookup LookupFunc) bool {
	if lookup == nil {
		return false
	}
	_, set := lookup(EnvCaseInsensitive)
	return set
}
