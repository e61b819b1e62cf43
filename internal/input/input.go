package input

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mcncl/eventdiff/internal/errors"
	"github.com/mcncl/eventdiff/internal/models"
)

// Mode selects how the two sources are given on the command line.
type Mode string

const (
	// ModeFile reads each source from a file path.
	ModeFile Mode = "f"
	// ModeData reads each source from a literal argument.
	ModeData Mode = "d"
)

// Source is one newline-delimited record stream.
type Source struct {
	Name string
	io.Reader
	closer io.Closer
}

// Close releases the underlying file, if any.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Open builds a source for the given mode.
func Open(mode Mode, arg string) (*Source, error) {
	switch mode {
	case ModeFile:
		return OpenFile(arg)
	case ModeData:
		return FromString(arg)
	default:
		return nil, errors.NewInputError(fmt.Sprintf("unknown input mode %q", string(mode)), nil)
	}
}

// OpenFile opens a file of records. An empty file is a valid, already
// exhausted source.
func OpenFile(filePath string) (*Source, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		// Check if the file doesn't exist
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return nil, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.IsDir() {
		_ = file.Close()
		return nil, errors.NewInputError(
			fmt.Sprintf("'%s' is a directory", filePath),
			errors.ErrInvalidFilePath,
		)
	}

	return &Source{Name: filePath, Reader: file, closer: file}, nil
}

// FromString wraps a literal argument. The argument is read line by line
// exactly like a file, so it may carry several records.
func FromString(data string) (*Source, error) {
	if strings.TrimSpace(data) == "" {
		return nil, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return &Source{Name: "argument", Reader: strings.NewReader(data)}, nil
}

// OpenPair opens both sources, closing the first if the second fails.
// Errors are tagged with the side that failed.
func OpenPair(mode Mode, left, right string) (*Source, *Source, error) {
	l, err := Open(mode, left)
	if err != nil {
		return nil, nil, tag(err, models.SideLeft)
	}
	r, err := Open(mode, right)
	if err != nil {
		_ = l.Close()
		return nil, nil, tag(err, models.SideRight)
	}
	return l, r, nil
}

func tag(err error, side models.Side) error {
	if appErr, ok := err.(*errors.AppError); ok {
		return appErr.At(side, 0)
	}
	return err
}
