package document

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
)

// Load reads the raw profile bytes for the analyze command: a file path, "-"
// for stdin, or "" for interactive paste.
func Load(input string) ([]byte, error) {
	switch input {
	case "":
		return readInteractive()
	case "-":
		return io.ReadAll(os.Stdin)
	default:
		return os.ReadFile(input)
	}
}

func readInteractive() ([]byte, error) {
	fmt.Print("Paste query profile JSON")
	if runtime.GOOS == "windows" {
		fmt.Print(" (Ctrl+Z, Enter to submit)\n")
	} else {
		fmt.Print(" (Ctrl+D to submit)\n")
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(string(data))

	if (strings.HasPrefix(trimmed, "{") ||
		strings.HasPrefix(trimmed, "[")) &&
		!json.Valid(data) {
		return nil, fmt.Errorf("input appears truncated; for large profiles use: dprof analyze <file>")
	}

	return data, nil
}
