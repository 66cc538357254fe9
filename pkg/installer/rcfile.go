package installer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Managed block markers. Only the text between them is ever rewritten;
// everything else in the rc file belongs to the user.
const (
	blockBegin = "# >>> cmdlink managed path >>>"
	blockEnd   = "# <<< cmdlink managed path <<<"
)

// RCFileTable treats a shell rc file as the command-search table: the entry
// is a PATH export inside a cmdlink-managed block.
type RCFileTable struct {
	rcPath string
}

// NewRCFileTable creates a table backed by the given rc file.
func NewRCFileTable(rcPath string) *RCFileTable {
	return &RCFileTable{rcPath: rcPath}
}

// Path returns the rc file location.
func (t *RCFileTable) Path() string {
	return t.rcPath
}

// DetectRCFile picks the login shell's rc file, falling back to ~/.profile.
func DetectRCFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".profile"
	}
	switch filepath.Base(os.Getenv("SHELL")) {
	case "zsh":
		return filepath.Join(home, ".zshrc")
	case "bash":
		return filepath.Join(home, ".bashrc")
	default:
		return filepath.Join(home, ".profile")
	}
}

func exportLine(entry PathEntry) string {
	return fmt.Sprintf(`export PATH="%s:$PATH"`, entry.Dir)
}

func (t *RCFileTable) Contains(entry PathEntry) (bool, error) {
	raw, err := os.ReadFile(t.rcPath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return strings.Contains(string(raw), exportLine(entry)), nil
}

func (t *RCFileTable) Add(entry PathEntry) error {
	var content string
	raw, err := os.ReadFile(t.rcPath)
	switch {
	case os.IsNotExist(err):
		content = ""
	case err != nil:
		return err
	default:
		content = string(raw)
	}

	block := strings.Join([]string{blockBegin, exportLine(entry), blockEnd}, "\n")

	begin := strings.Index(content, blockBegin)
	end := strings.Index(content, blockEnd)
	if begin >= 0 && end > begin {
		// Rewrite the managed block in place, leaving user content alone.
		content = content[:begin] + block + content[end+len(blockEnd):]
	} else {
		if content != "" && !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		content += block + "\n"
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(t.rcPath); err == nil {
		mode = info.Mode().Perm()
	}
	return os.WriteFile(t.rcPath, []byte(content), mode)
}
