package engine

import (
	"fmt"
	"os"
	"strings"
)

// Suffix is appended to a plaintext path to name its encrypted counterpart.
const Suffix = ".encrypted"

// Mode selects the direction of a transform.
type Mode int

const (
	// Encrypt turns plaintext files into encrypted ones.
	Encrypt Mode = iota
	// Decrypt restores plaintext from encrypted files.
	Decrypt
)

func (m Mode) String() string {
	switch m {
	case Encrypt:
		return "encrypt"
	case Decrypt:
		return "decrypt"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// FileJob is one leaf file scheduled for a transform.
type FileJob struct {
	InputPath  string
	OutputPath string
	Mode       Mode
}

// NewFileJob derives the output path for path under mode.
// Decrypt jobs require the Suffix and a non-empty name once it is stripped.
func NewFileJob(path string, mode Mode) (FileJob, error) {
	job := FileJob{InputPath: path, Mode: mode}

	switch mode {
	case Encrypt:
		job.OutputPath = path + Suffix
	case Decrypt:
		if !strings.HasSuffix(path, Suffix) {
			return job, fmt.Errorf("%w: %q is missing the %q suffix", ErrNotEncryptedFormat, path, Suffix)
		}

		restored := strings.TrimSuffix(path, Suffix)
		if restored == "" || os.IsPathSeparator(restored[len(restored)-1]) {
			return job, fmt.Errorf("%w: %q has no name besides the suffix", ErrNotEncryptedFormat, path)
		}

		job.OutputPath = restored
	default:
		return job, fmt.Errorf("unknown mode %v", mode)
	}

	return job, nil
}
