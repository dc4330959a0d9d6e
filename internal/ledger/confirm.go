package ledger

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// ConfirmPrompt is shown before a mutation is committed.
const ConfirmPrompt = "Input Yes(YES/yes/Y/y) to confirm, other to give up."

// Accepts reports whether a confirmation answer is a yes: "y" or "yes"
// after trimming, case-insensitive. Everything else, empty included, is no.
func Accepts(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// readAnswer reads one line. End of input counts as whatever was read.
func readAnswer(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return line, nil
}
