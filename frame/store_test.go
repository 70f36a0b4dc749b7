package frame

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/lixenwraith/holodisc/status"
)

var (
	red   = color.NRGBA{R: 255, A: 255}
	green = color.NRGBA{G: 255, A: 255}
	blue  = color.NRGBA{B: 255, A: 255}
)

func writePNG(t *testing.T, dir, name string, w, h int, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", name, err)
	}
}

func newTestStore(w, h int) (*Store, *status.Registry) {
	reg := status.NewRegistry()
	opts := Options{Width: w, Height: h, Formats: []string{"png", ".JPG"}, Resample: ResampleNearest}
	return NewStore(opts, log.New(io.Discard, "", 0), reg), reg
}

// TestLoadOrdersByFileName verifies frames are appended in lexicographic name order
func TestLoadOrdersByFileName(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "frame_000002.png", 4, 4, blue)
	writePNG(t, dir, "frame_000000.png", 4, 4, red)
	writePNG(t, dir, "frame_000001.png", 4, 4, green)

	store, reg := newTestStore(2, 2)
	anim, err := store.Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if anim.Len() != 3 {
		t.Fatalf("Expected 3 frames, got %d", anim.Len())
	}
	want := []color.NRGBA{red, green, blue}
	for i, c := range want {
		if got := anim.Frame(i).At(0, 0); got != c {
			t.Errorf("Frame %d: expected %v, got %v", i, c, got)
		}
	}
	if anim.Name(0) != "frame_000000.png" {
		t.Errorf("Expected first name frame_000000.png, got %q", anim.Name(0))
	}
	if store.Current() != anim {
		t.Error("Expected Current to return the loaded animation")
	}
	if got := reg.Counter("frames.loaded").Load(); got != 3 {
		t.Errorf("Expected frames.loaded=3, got %d", got)
	}
}

// TestLoadResizesToGrid verifies every frame matches the configured resolution
func TestLoadResizesToGrid(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "a.png", 40, 10, red)
	writePNG(t, dir, "b.png", 3, 7, green)

	for _, resample := range []string{ResampleNearest, ResampleBilinear, ResampleCatmullRom} {
		store := NewStore(Options{Width: 8, Height: 6, Formats: []string{"png"}, Resample: resample}, log.New(io.Discard, "", 0), nil)
		anim, err := store.Load(dir)
		if err != nil {
			t.Fatalf("%s: Load failed: %v", resample, err)
		}
		for i := 0; i < anim.Len(); i++ {
			f := anim.Frame(i)
			if f.Width() != 8 || f.Height() != 6 {
				t.Errorf("%s: frame %d is %dx%d, expected 8x6", resample, i, f.Width(), f.Height())
			}
		}
		if w, h := anim.Size(); w != 8 || h != 6 {
			t.Errorf("%s: animation size %dx%d, expected 8x6", resample, w, h)
		}
	}
}

// TestLoadSkipsBadFiles verifies undecodable and unlisted files do not abort the load
func TestLoadSkipsBadFiles(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "0.png", 2, 2, red)
	if err := os.WriteFile(filepath.Join(dir, "1.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	writePNG(t, dir, "2.PNG", 2, 2, green)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	store, reg := newTestStore(2, 2)
	anim, err := store.Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if anim.Len() != 2 {
		t.Fatalf("Expected 2 frames, got %d", anim.Len())
	}
	if anim.Name(1) != "2.PNG" {
		t.Errorf("Expected upper-case extension to be accepted, got %q", anim.Name(1))
	}
	if got := reg.Counter("frames.skipped").Load(); got != 1 {
		t.Errorf("Expected frames.skipped=1, got %d", got)
	}
}

// TestLoadFollowsSymlinks verifies linked frame files load while links to directories and dangling links do not
func TestLoadFollowsSymlinks(t *testing.T) {
	src := t.TempDir()
	writePNG(t, src, "shared.png", 2, 2, blue)

	dir := t.TempDir()
	writePNG(t, dir, "0.png", 2, 2, red)
	if err := os.Symlink(filepath.Join(src, "shared.png"), filepath.Join(dir, "1.png")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	if err := os.Symlink(src, filepath.Join(dir, "2.png")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(src, "gone.png"), filepath.Join(dir, "3.png")); err != nil {
		t.Fatal(err)
	}

	store, reg := newTestStore(2, 2)
	anim, err := store.Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if anim.Len() != 2 {
		t.Fatalf("Expected 2 frames, got %d", anim.Len())
	}
	if got := anim.Frame(1).At(0, 0); got != blue {
		t.Errorf("Expected linked frame to be blue, got %v", got)
	}
	if got := reg.Counter("frames.skipped").Load(); got != 0 {
		t.Errorf("Expected no skipped frames, got %d", got)
	}
}

// TestLoadMissingDirectory verifies a missing path installs an empty animation
func TestLoadMissingDirectory(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "0.png", 2, 2, red)

	store, _ := newTestStore(2, 2)
	if _, err := store.Load(dir); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if store.Current().Empty() {
		t.Fatal("Expected frames after first load")
	}

	anim, err := store.Load(filepath.Join(dir, "missing"))
	if !errors.Is(err, ErrNotDirectory) {
		t.Fatalf("Expected ErrNotDirectory, got %v", err)
	}
	if !anim.Empty() || !store.Current().Empty() {
		t.Error("Expected empty animation after failed load")
	}

	// A regular file is not a directory either
	_, err = store.Load(filepath.Join(dir, "0.png"))
	if !errors.Is(err, ErrNotDirectory) {
		t.Errorf("Expected ErrNotDirectory for a file path, got %v", err)
	}
}

// TestLoadEmptyDirectory verifies zero frames is a valid result
func TestLoadEmptyDirectory(t *testing.T) {
	store, _ := newTestStore(2, 2)
	anim, err := store.Load(t.TempDir())
	if err != nil {
		t.Fatalf("Expected no error for empty directory, got %v", err)
	}
	if !anim.Empty() {
		t.Errorf("Expected empty animation, got %d frames", anim.Len())
	}
}

// TestSetOptionsAppliesOnNextLoad verifies option changes take effect on reload only
func TestSetOptionsAppliesOnNextLoad(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "0.png", 4, 4, red)

	store, _ := newTestStore(2, 2)
	first, _ := store.Load(dir)

	store.SetOptions(Options{Width: 3, Height: 1, Formats: []string{"png"}})
	if w, _ := store.Current().Size(); w != 2 {
		t.Errorf("Expected current animation untouched by SetOptions, width %d", w)
	}

	second, _ := store.Load(dir)
	if first == second {
		t.Fatal("Expected reload to install a new animation")
	}
	if w, h := second.Size(); w != 3 || h != 1 {
		t.Errorf("Expected 3x1 after reload, got %dx%d", w, h)
	}
}

// TestNewStoreCurrentNeverNil verifies readers always get an animation
func TestNewStoreCurrentNeverNil(t *testing.T) {
	store, _ := newTestStore(4, 4)
	if store.Current() == nil {
		t.Fatal("Expected non-nil animation before any load")
	}
	if !store.Current().Empty() {
		t.Error("Expected empty animation before any load")
	}
}
