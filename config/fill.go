package config

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/lixenwraith/holodisc/toml"
)

var (
	sectionLine = regexp.MustCompile(`^\s*\[\s*([A-Za-z0-9_.-]+)\s*\]`)
	keyLine     = regexp.MustCompile(`^\s*([A-Za-z0-9_-]+)\s*=`)
)

// defaultEntry is one key of the default file with its source lines, comment included
type defaultEntry struct {
	section string
	key     string
	lines   []string
}

// defaultEntries lists the keys of the embedded default file in file order
// A multi-line array is kept whole up to the line holding its closing bracket
func defaultEntries() []defaultEntry {
	var (
		out     []defaultEntry
		section string
		open    *defaultEntry
	)
	sc := bufio.NewScanner(bytes.NewReader(defaultFile))
	for sc.Scan() {
		line := sc.Text()
		if open != nil {
			open.lines = append(open.lines, line)
			if strings.HasPrefix(strings.TrimSpace(line), "]") {
				out = append(out, *open)
				open = nil
			}
			continue
		}
		if m := sectionLine.FindStringSubmatch(line); m != nil {
			section = m[1]
			continue
		}
		m := keyLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		e := defaultEntry{section: section, key: m[1], lines: []string{line}}
		value := line[strings.Index(line, "=")+1:]
		if strings.HasPrefix(strings.TrimSpace(value), "[") && !strings.Contains(value, "]") {
			open = &e
			continue
		}
		out = append(out, e)
	}
	return out
}

// FillMissing returns data with every key of the default file that data lacks inserted
// into its section, plus the dotted names of the inserted keys. Existing lines and
// comments are left untouched; absent sections are appended at the end
func FillMissing(data []byte) ([]byte, []string, error) {
	parsed, err := toml.NewParser(data).Parse()
	if err != nil {
		return nil, nil, fmt.Errorf("parse config: %w", err)
	}

	missing := make(map[string][]defaultEntry)
	var order []string
	var added []string
	for _, e := range defaultEntries() {
		if has(parsed, e.section, e.key) {
			continue
		}
		if _, seen := missing[e.section]; !seen {
			order = append(order, e.section)
		}
		missing[e.section] = append(missing[e.section], e)
		added = append(added, e.section+"."+e.key)
	}
	if len(added) == 0 {
		return data, nil, nil
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(data) == 0 {
		lines = nil
	}
	for _, section := range order {
		var insert []string
		for _, e := range missing[section] {
			insert = append(insert, e.lines...)
		}

		at := sectionEnd(lines, section)
		if at < 0 {
			if len(lines) > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, "["+section+"]")
			lines = append(lines, insert...)
			continue
		}
		lines = append(lines[:at], append(insert, lines[at:]...)...)
	}
	return []byte(strings.Join(lines, "\n") + "\n"), added, nil
}

func has(parsed map[string]any, section, key string) bool {
	table := parsed
	if section != "" {
		for _, part := range strings.Split(section, ".") {
			next, ok := table[part].(map[string]any)
			if !ok {
				return false
			}
			table = next
		}
	}
	_, ok := table[key]
	return ok
}

// sectionEnd returns the line index just past the last non-blank line of section, or -1
func sectionEnd(lines []string, section string) int {
	start := -1
	for i, line := range lines {
		if m := sectionLine.FindStringSubmatch(line); m != nil && m[1] == section {
			start = i
			break
		}
	}
	if start < 0 {
		return -1
	}

	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		if sectionLine.MatchString(lines[i]) {
			end = i
			break
		}
	}
	for end > start+1 && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return end
}

// writeFile replaces path through a temporary file in the same directory
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".holodisc-*.toml")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
