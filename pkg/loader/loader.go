// Package loader reads configuration-style documents from files or stdin and
// works out which of YAML, JSON or TOML they are written in.
package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Stdin is the path that reads from standard input.
const Stdin = "-"

// Extensions returned by Detect and Read.
const (
	ExtYAML = ".yaml"
	ExtJSON = ".json"
	ExtTOML = ".toml"
)

var (
	// TOML section headers: [server], [[items]], ["table name"], [a.b]
	tomlSection = regexp.MustCompile(`^\s*\[{1,2}(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\]{1,2}\s*$`)
	// TOML key = value, as opposed to YAML key: value
	tomlKeyValue = regexp.MustCompile(`^\s*(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\s*=\s*.+$`)
)

// Read returns the contents of path and the extension naming its format. The
// extension comes from the file name; stdin ("-") and files without a known
// extension are sniffed with Detect.
func Read(path string, stdin io.Reader) ([]byte, string, error) {
	var (
		data []byte
		err  error
	)
	if path == Stdin {
		if stdin == nil {
			stdin = os.Stdin
		}
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, "", err
	}
	if path != Stdin {
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ExtYAML, ".yml", ExtJSON, ExtTOML:
			return data, ext, nil
		}
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, "", fmt.Errorf("%s: empty input", displayName(path))
	}
	return data, Detect(data), nil
}

func displayName(path string) string {
	if path == Stdin {
		return "stdin"
	}
	return path
}

// Detect guesses the format of data. TOML is recognised by section headers
// or a majority of key = value lines, JSON by a leading brace or bracket that
// is not a TOML header; everything else is YAML.
func Detect(data []byte) string {
	input := strings.TrimSpace(string(data))
	if isLikelyTOML(input) {
		return ExtTOML
	}
	if strings.HasPrefix(input, "{") || strings.HasPrefix(input, "[") {
		return ExtJSON
	}
	return ExtYAML
}

func isLikelyTOML(input string) bool {
	sections, keyValues, nonEmpty := 0, 0, 0
	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		nonEmpty++
		if tomlSection.MatchString(line) {
			sections++
		}
		if tomlKeyValue.MatchString(line) {
			keyValues++
		}
	}
	return sections > 0 || (nonEmpty > 0 && keyValues > nonEmpty/2)
}
