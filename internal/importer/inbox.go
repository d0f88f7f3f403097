package importer

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Inbox layout under the data directory. Pastes sit directly in import/ or in
// import/<account>/, where <account> is an id, alias or number.
const (
	InboxDir     = "import"
	ProcessedDir = "processed"
)

// Paste is one pasted statement waiting in the inbox.
type Paste struct {
	// Name is the path relative to the inbox, slash separated: "marzo.txt" or
	// "Sueldo/marzo.txt".
	Name string
	Path string
	// Account is the subdirectory the paste was found in, empty for the
	// inbox root.
	Account string
	Text    string
}

// Blank reports whether the paste has nothing but whitespace.
func (p Paste) Blank() bool {
	return strings.TrimSpace(p.Text) == ""
}

// Pending reads every .txt paste in the inbox root and its account
// subdirectories, sorted by Name. A missing inbox yields nothing.
func Pending(dataDir string) ([]Paste, error) {
	root := filepath.Join(dataDir, InboxDir)
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading inbox: %w", err)
	}

	pastes, err := readPastes(root, "")
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if !e.IsDir() || e.Name() == ProcessedDir {
			continue
		}
		sub, err := readPastes(filepath.Join(root, e.Name()), e.Name())
		if err != nil {
			return nil, err
		}
		pastes = append(pastes, sub...)
	}

	sort.Slice(pastes, func(i, j int) bool { return pastes[i].Name < pastes[j].Name })
	return pastes, nil
}

func readPastes(dir, account string) ([]Paste, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading inbox: %w", err)
	}

	var pastes []Paste
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".txt") {
			continue
		}
		p := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", e.Name(), err)
		}
		pastes = append(pastes, Paste{
			Name:    path.Join(account, e.Name()),
			Path:    p,
			Account: account,
			Text:    string(data),
		})
	}
	return pastes, nil
}

// Archive moves a paste to import/processed/, keeping its account
// subdirectory.
func Archive(dataDir string, p Paste) error {
	dst := filepath.Join(dataDir, InboxDir, ProcessedDir, filepath.FromSlash(p.Name))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}
	if err := os.Rename(p.Path, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", p.Name, err)
	}
	return nil
}
