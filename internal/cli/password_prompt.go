package cli

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
)

var errNoTerminal = errors.New("stdin unavailable")

// readSecretLine reads one line from stdin while echo is switched off by the
// caller.
func readSecretLine(stdin *os.File) ([]byte, error) {
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}
