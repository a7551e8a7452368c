package media

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
)

func newTestFs(t *testing.T, paths ...string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, p := range paths {
		if err := afero.WriteFile(fs, p, []byte("img"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return fs
}

func TestScan_FiltersAndSorts(t *testing.T) {
	fs := newTestFs(t,
		"/photos/b.png",
		"/photos/a.jpg",
		"/photos/C.JPEG",
		"/photos/notes.txt",
		"/photos/clip.gif",
		"/photos/sub/nested.png", // subdirectory, must not be descended into
	)

	items, err := NewScanner(fs).Scan("/photos")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"C.JPEG", "a.jpg", "b.png"}
	if len(items) != len(want) {
		t.Fatalf("got %d items %v, want %d", len(items), items, len(want))
	}
	for i, name := range want {
		if items[i].Name != name {
			t.Errorf("item %d: got %q, want %q", i, items[i].Name, name)
		}
	}
}

func TestScan_NoValidImages(t *testing.T) {
	fs := newTestFs(t, "/photos/readme.md", "/photos/clip.mp4")

	_, err := NewScanner(fs).Scan("/photos")
	if !errors.Is(err, ErrNoMediaFound) {
		t.Errorf("got %v, want ErrNoMediaFound", err)
	}
}

func TestScan_MissingFolder(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := NewScanner(fs).Scan("/nope")
	if err == nil {
		t.Error("expected an error for a missing folder")
	}
	if errors.Is(err, ErrNoMediaFound) {
		t.Error("a missing folder should not be reported as ErrNoMediaFound")
	}
}
