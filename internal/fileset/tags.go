// Package fileset snapshots the working tree and selects the per-hook subset
// of files matching each hook's filters.
package fileset

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// extensionTags maps file extensions to their detected type tags.
// The table covers the file types the bundled hook ecosystem filters on.
var extensionTags = map[string][]string{ //nolint:gochecknoglobals // Static lookup table
	".bash":  {"shell", "bash", "text"},
	".c":     {"c", "text"},
	".cfg":   {"ini", "text"},
	".cpp":   {"c++", "text"},
	".css":   {"css", "text"},
	".go":    {"go", "text"},
	".h":     {"c", "header", "text"},
	".html":  {"html", "text"},
	".ini":   {"ini", "text"},
	".js":    {"javascript", "text"},
	".json":  {"json", "text"},
	".jsx":   {"jsx", "javascript", "text"},
	".md":    {"markdown", "text"},
	".proto": {"proto", "text"},
	".py":    {"python", "text"},
	".pyi":   {"pyi", "python", "text"},
	".rb":    {"ruby", "text"},
	".rs":    {"rust", "text"},
	".sh":    {"shell", "text"},
	".sql":   {"sql", "text"},
	".toml":  {"toml", "text"},
	".ts":    {"ts", "text"},
	".tsx":   {"tsx", "ts", "text"},
	".txt":   {"plain-text", "text"},
	".xml":   {"xml", "text"},
	".yaml":  {"yaml", "text"},
	".yml":   {"yaml", "text"},
}

// basenameTags maps well-known extensionless file names to type tags.
var basenameTags = map[string][]string{ //nolint:gochecknoglobals // Static lookup table
	"Dockerfile": {"dockerfile", "text"},
	"Makefile":   {"makefile", "text"},
}

// shebangTags maps interpreter names found on a #! line to type tags.
var shebangTags = map[string][]string{ //nolint:gochecknoglobals // Static lookup table
	"bash":    {"shell", "bash", "text"},
	"python":  {"python", "text"},
	"python3": {"python", "text"},
	"sh":      {"shell", "text"},
}

// TagsForPath detects the type tags for the file at relPath under root.
// Every file carries the "file" tag; known extensions, well-known basenames,
// the executable bit, and (for extensionless executables) the shebang line
// contribute the rest.
func TagsForPath(root, relPath string) []string {
	tags := []string{"file"}

	ext := strings.ToLower(filepath.Ext(relPath))
	base := filepath.Base(relPath)

	known := false
	if extTags, ok := extensionTags[ext]; ok {
		tags = append(tags, extTags...)
		known = true
	} else if baseTags, ok := basenameTags[base]; ok {
		tags = append(tags, baseTags...)
		known = true
	}

	full := filepath.Join(root, relPath)
	info, err := os.Lstat(full)
	if err != nil {
		return tags
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return append(tags, "symlink")
	}

	if info.Mode().Perm()&0o111 != 0 {
		tags = append(tags, "executable")
		if !known {
			tags = append(tags, sniffShebang(full)...)
		}
	} else {
		tags = append(tags, "non-executable")
	}

	return tags
}

// sniffShebang reads the first line of an executable and maps its interpreter
// to type tags. Returns nil when there is no recognizable shebang.
func sniffShebang(path string) []string {
	f, err := os.Open(path) //nolint:gosec // G304: path is a tracked file in the user's own repository
	if err != nil {
		return nil
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return nil
	}
	line := scanner.Text()
	if !strings.HasPrefix(line, "#!") {
		return nil
	}

	fields := strings.Fields(strings.TrimPrefix(line, "#!"))
	if len(fields) == 0 {
		return nil
	}

	interpreter := filepath.Base(fields[0])
	// "#!/usr/bin/env python3" names the interpreter in the second field.
	if interpreter == "env" && len(fields) > 1 {
		interpreter = filepath.Base(fields[1])
	}

	return shebangTags[interpreter]
}

// hasAllTags reports whether tags contains every tag in required.
func hasAllTags(tags, required []string) bool {
	for _, want := range required {
		found := false
		for _, have := range tags {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
