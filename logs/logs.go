package logs

import (
	"log"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

var Output *os.File

// InitializeFileLogger redirects the standard logger to dir/logs.txt.
func InitializeFileLogger(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "couldn't create log directory %s", dir)
	}
	f, err := os.Create(filepath.Join(dir, "logs.txt"))
	if err != nil {
		return errors.Wrap(err, "couldn't create logs file")
	}
	Output = f
	log.SetOutput(Output)
	return nil
}

func CloseLogger() {
	if Output == nil {
		return
	}
	log.SetOutput(os.Stderr)
	Output.Close()
	Output = nil
}
