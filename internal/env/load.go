package env

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Load reads a dotenv file (e.g. ".env") and exports each KEY=VALUE line that is not already set
// in the process environment, so real environment variables always win. Blank lines, comments
// and an optional "export " prefix are accepted. A missing file is not an error.
// It returns the keys it exported.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("env: %w", err)
	}
	defer f.Close()

	var set []string
	scanner := bufio.NewScanner(f)
	for n := 1; scanner.Scan(); n++ {
		key, value, ok := parseLine(scanner.Text())
		if !ok {
			continue
		}
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return set, fmt.Errorf("env: %s:%d: %w", path, n, err)
		}
		set = append(set, key)
	}
	return set, scanner.Err()
}

// parseLine splits one dotenv line. Values may be wrapped in matching single or double quotes.
func parseLine(line string) (key, value string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || line[0] == '#' {
		return "", "", false
	}
	line = strings.TrimPrefix(line, "export ")
	key, value, found := strings.Cut(line, "=")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return "", "", false
	}
	value = strings.TrimSpace(value)
	if n := len(value); n >= 2 && (value[0] == '"' || value[0] == '\'') && value[n-1] == value[0] {
		value = value[1 : n-1]
	}
	return key, value, true
}
