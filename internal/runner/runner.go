// Package runner reads the target file and prints the lines that match the
// configured query.
package runner

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/f4ah6o/lgrep-go/internal/config"
	"github.com/f4ah6o/lgrep-go/internal/search"
)

// outputPath is the RunError path used for failures writing results.
const outputPath = "<output>"

// RunError reports a failure to read the target file or to write results.
// The underlying error is passed through unchanged.
type RunError struct {
	Path string
	Err  error
}

func (e *RunError) Error() string {
	if e.Path == outputPath {
		return fmt.Sprintf("failed to write results: %v", e.Err)
	}
	cause := e.Err
	// *fs.PathError already names the path.
	var pathErr *fs.PathError
	if errors.As(cause, &pathErr) {
		cause = pathErr.Err
	}
	return fmt.Sprintf("failed to read %s: %v", e.Path, cause)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// Runner executes a search for a resolved configuration.
type Runner struct {
	logger *slog.Logger
}

// New creates a Runner. A nil logger discards log output.
func New(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{logger: logger}
}

// Run searches with a Runner that does not log.
func Run(cfg *config.Config, w io.Writer) error {
	return New(nil).Run(cfg, w)
}

// Run reads cfg.Filename, searches it for cfg.Query and writes every matching
// line to w followed by a newline. Nothing is written if the file cannot be read.
func (r *Runner) Run(cfg *config.Config, w io.Writer) error {
	contents, err := ReadContents(cfg.Filename)
	if err != nil {
		return err
	}

	mode := search.CaseSensitive
	if !cfg.CaseSensitive {
		mode = search.CaseInsensitive
	}

	r.logger.Debug("searching file",
		"path", cfg.Filename,
		"bytes", len(contents),
		"mode", mode.String())

	results := search.Find(mode, cfg.Query, contents)

	r.logger.Debug("search finished", "matches", len(results))

	bw := bufio.NewWriter(w)
	for _, line := range results {
		if _, err := bw.WriteString(line); err != nil {
			return &RunError{Path: outputPath, Err: err}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return &RunError{Path: outputPath, Err: err}
		}
	}
	if err := bw.Flush(); err != nil {
		return &RunError{Path: outputPath, Err: err}
	}

	return nil
}

// ReadContents reads the whole file at path as UTF-8 text.
// A leading byte order mark is dropped. Invalid UTF-8 is an error
// (encoding.ErrInvalidUTF8), never a partial decode.
func ReadContents(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", &RunError{Path: path, Err: err}
	}
	defer f.Close()

	decoder := transform.Chain(encoding.UTF8Validator, unicode.UTF8BOM.NewDecoder())
	data, err := io.ReadAll(transform.NewReader(f, decoder))
	if err != nil {
		return "", &RunError{Path: path, Err: err}
	}

	return string(data), nil
}
