package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"reaper/internal/services"
)

var errNotInteractive = errors.New("confirmation required but input is not a terminal (pass --yes to skip the prompt)")

// confirm asks a yes/no question on out and reads the answer from in.
// Anything but y or yes declines.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	if file, ok := in.(*os.File); ok && !isInteractive(file) {
		return false, errNotInteractive
	}
	fmt.Fprintf(out, "%s [y/N]: ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func confirmOrAbort(in io.Reader, out io.Writer, question string) error {
	ok, err := confirm(in, out, question)
	if err != nil {
		return services.Wrap(services.ErrValidation, "confirm", "prompt", "", err)
	}
	if !ok {
		return services.Wrap(services.ErrAborted, "confirm", "prompt", "upload declined", nil)
	}
	return nil
}

func isInteractive(file *os.File) bool {
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
