// Package media enumerates the image files a scheduling request will publish.
package media

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/instasched/instasched/internal/model"
)

// ErrNoMediaFound indicates the folder contains no file with an allowed
// image extension.
var ErrNoMediaFound = errors.New("no valid images found in folder")

// validExtensions is the allow-set for publishable images, matched
// case-insensitively.
var validExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// Scanner lists publishable images from a local folder.
type Scanner struct {
	fs afero.Fs
}

// NewScanner returns a Scanner reading from fs.
func NewScanner(fs afero.Fs) *Scanner {
	return &Scanner{fs: fs}
}

// Scan returns the images directly inside folder, sorted by name so the
// enumeration order is stable. Subdirectories are not descended into.
// It returns ErrNoMediaFound when the folder holds no valid image.
func (s *Scanner) Scan(folder string) ([]model.MediaItem, error) {
	entries, err := afero.ReadDir(s.fs, folder)
	if err != nil {
		return nil, fmt.Errorf("failed to read media folder: %w", err)
	}

	var items []model.MediaItem
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !validExtensions[ext] {
			continue
		}
		items = append(items, model.MediaItem{
			Path: filepath.Join(folder, entry.Name()),
			Name: entry.Name(),
		})
	}
	if len(items) == 0 {
		return nil, ErrNoMediaFound
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}
