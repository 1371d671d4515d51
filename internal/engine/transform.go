package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/idelchi/fcrypt/internal/encryption"
	"github.com/idelchi/fcrypt/internal/fileutil"
)

// Outcome describes a successful transform of one file.
type Outcome struct {
	// Input file path
	Input string

	// Output file path
	Output string

	Mode Mode

	// Output file size in bytes
	Size int64

	// Warning wraps ErrPartialCleanup when the input survived the transform.
	Warning error
}

// Transformer applies the stream codec to exactly one file.
type Transformer struct {
	fs                 afero.Fs
	registry           *NameRegistry
	preserveTimestamps bool
}

// NewTransformer returns a Transformer working on fsys that records encrypted
// names in registry.
func NewTransformer(fsys afero.Fs, registry *NameRegistry, preserveTimestamps bool) *Transformer {
	return &Transformer{
		fs:                 fsys,
		registry:           registry,
		preserveTimestamps: preserveTimestamps,
	}
}

// Transform encrypts or decrypts the file at path and removes the input on success.
// An existing output file is overwritten.
//
// When the input cannot be removed the returned error is nil and
// Outcome.Warning wraps ErrPartialCleanup: both files now exist.
func (t *Transformer) Transform(path string, mode Mode, password string) (Outcome, error) {
	outcome := Outcome{Input: path, Mode: mode}

	job, err := NewFileJob(path, mode)
	if err != nil {
		return outcome, err
	}

	outcome.Output = job.OutputPath

	info, err := t.fs.Stat(path)
	if err != nil {
		return outcome, classifyStat(path, err)
	}

	if info.IsDir() {
		return outcome, fmt.Errorf("%w: %q is a directory", ErrIO, path)
	}

	key, err := encryption.DeriveKey(password)
	if err != nil {
		return outcome, fmt.Errorf("%w: %q: deriving key: %w", ErrIO, path, err)
	}
	defer key.Wipe()

	size, err := t.write(job, key)
	if err != nil {
		return outcome, classify(path, err)
	}

	outcome.Size = size

	if mode == Encrypt {
		t.registry.Record(job.OutputPath, filepath.Base(path))
	}

	if err := t.fs.Remove(path); err != nil {
		outcome.Warning = fmt.Errorf("%w: %q: %w", ErrPartialCleanup, path, err)
	}

	return outcome, nil
}

// write streams the input through the codec into a temp file that replaces
// the output only once the codec succeeded.
func (t *Transformer) write(job FileJob, key encryption.Key) (size int64, err error) {
	tc, err := fileutil.NewTempContext(t.fs, job.InputPath, job.OutputPath)
	if err != nil {
		return 0, fmt.Errorf("preparing atomic write: %w", err)
	}

	defer tc.CleanupOnError(&err)

	inFile, err := t.fs.Open(filepath.Clean(job.InputPath))
	if err != nil {
		return 0, fmt.Errorf("opening input file: %w", err)
	}
	defer inFile.Close()

	switch job.Mode {
	case Encrypt:
		err = encryption.EncryptStream(inFile, tc.TmpFile, key)
	case Decrypt:
		err = encryption.DecryptStream(inFile, tc.TmpFile, key)
	}

	if err != nil {
		return 0, fmt.Errorf("%sing file: %w", job.Mode, err)
	}

	if err = inFile.Close(); err != nil {
		return 0, fmt.Errorf("closing input file: %w", err)
	}

	if err = tc.Commit(job.OutputPath); err != nil {
		return 0, err
	}

	size, err = fileutil.FinalizeOutput(t.fs, job.OutputPath, t.preserveTimestamps, tc.SrcInfo.ModTime())
	if err != nil {
		return 0, fmt.Errorf("finalizing output: %w", err)
	}

	return size, nil
}

// classify maps a codec or filesystem error onto the error taxonomy, keeping the cause.
func classify(path string, err error) error {
	switch {
	case errors.Is(err, encryption.ErrMalformedHeader):
		return fmt.Errorf("%w: %q: %w", ErrNotEncryptedFormat, path, err)
	case errors.Is(err, encryption.ErrInvalidPadding),
		errors.Is(err, encryption.ErrInvalidBlockSize),
		errors.Is(err, encryption.ErrEmptyData):
		return fmt.Errorf("%w: %q: %w", ErrBadPadding, path, err)
	default:
		return fmt.Errorf("%w: %q: %w", ErrIO, path, err)
	}
}

func classifyStat(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %q", ErrInputNotFound, path)
	}

	return fmt.Errorf("%w: %q: %w", ErrIO, path, err)
}
