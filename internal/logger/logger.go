// Package logger is the shared zerolog handle. The zero value of L is a
// no-op, so library code may log before Init has run (tests never call Init).
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var L zerolog.Logger

// Init routes the log to path, stdout when path is empty. The TUI owns
// stdout, nên cmd/nimbus luôn truyền đường dẫn file.
func Init(path string) error {
	var w io.Writer = os.Stdout
	toFile := path != ""
	if toFile {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		w = f
	}
	L = log.Output(zerolog.ConsoleWriter{Out: w, NoColor: toFile})
	return nil
}

func Infof(format string, v ...interface{})  { L.Info().Msgf(format, v...) }
func Errorf(format string, v ...interface{}) { L.Error().Msgf(format, v...) }
