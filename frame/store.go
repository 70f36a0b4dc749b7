package frame

import (
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/lixenwraith/holodisc/status"
)

var (
	// ErrNotDirectory is returned when the frames path is missing or not a directory
	ErrNotDirectory = errors.New("frames path is not a directory")

	// ErrNoFrames reports an animation with nothing to play
	ErrNoFrames = errors.New("no frames loaded")
)

// Resampler names accepted by Options.Resample
const (
	ResampleNearest    = "nearest"
	ResampleBilinear   = "bilinear"
	ResampleCatmullRom = "catmullrom"
)

// Options controls how source images become frames
type Options struct {
	Width    int
	Height   int
	Formats  []string // accepted extensions, case-insensitive, with or without dot
	Resample string   // one of the Resample* names, bilinear when empty
}

// Store loads and caches the current animation
// Readers call Current from any goroutine; a reload swaps the whole animation at once
type Store struct {
	mu      sync.Mutex // serializes loads
	opts    Options
	current atomic.Pointer[Animation]
	logger  *log.Logger

	statLoaded  *atomic.Int64
	statSkipped *atomic.Int64
}

// NewStore creates a store holding an empty animation
func NewStore(opts Options, logger *log.Logger, metrics *status.Registry) *Store {
	if logger == nil {
		logger = log.Default()
	}
	s := &Store{
		opts:        opts,
		logger:      logger,
		statLoaded:  metrics.Counter("frames.loaded"),
		statSkipped: metrics.Counter("frames.skipped"),
	}
	s.current.Store(NewAnimation(opts.Width, opts.Height, nil, nil))
	return s
}

// Current returns the installed animation, never nil
func (s *Store) Current() *Animation {
	return s.current.Load()
}

// SetOptions replaces decode options for subsequent loads
func (s *Store) SetOptions(opts Options) {
	s.mu.Lock()
	s.opts = opts
	s.mu.Unlock()
}

// Load decodes every accepted file in dir, in file name order, and installs the result
// Undecodable files are logged and skipped. A missing directory installs an empty
// animation and returns an error wrapping ErrNotDirectory.
func (s *Store) Load(dir string) (*Animation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	opts := s.opts
	empty := NewAnimation(opts.Width, opts.Height, nil, nil)

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		s.current.Store(empty)
		s.logger.Printf("Video directory not found: %s", dir)
		return empty, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		s.current.Store(empty)
		return empty, fmt.Errorf("read frames directory %s: %w", dir, err)
	}

	allowed := normalizeFormats(opts.Formats)
	var names []string
	for _, entry := range entries {
		if !isFile(dir, entry) {
			continue
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(entry.Name()), "."))
		if allowed[ext] {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	scaler := resampler(opts.Resample)
	frames := make([]*Frame, 0, len(names))
	kept := make([]string, 0, len(names))
	for _, name := range names {
		f, err := decodeFile(filepath.Join(dir, name), opts.Width, opts.Height, scaler)
		if err != nil {
			s.statSkipped.Add(1)
			s.logger.Printf("Failed to load frame: %s: %v", name, err)
			continue
		}
		frames = append(frames, f)
		kept = append(kept, name)
	}

	anim := NewAnimation(opts.Width, opts.Height, frames, kept)
	s.current.Store(anim)
	s.statLoaded.Add(int64(len(frames)))
	s.logger.Printf("Loaded %d frames from %s", len(frames), dir)
	return anim, nil
}

func normalizeFormats(formats []string) map[string]bool {
	allowed := make(map[string]bool, len(formats))
	for _, f := range formats {
		f = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(f), "."))
		if f != "" {
			allowed[f] = true
		}
	}
	return allowed
}

func resampler(name string) draw.Scaler {
	switch strings.ToLower(name) {
	case ResampleNearest:
		return draw.NearestNeighbor
	case ResampleCatmullRom:
		return draw.CatmullRom
	default:
		return draw.BiLinear
	}
}

func decodeFile(path string, width, height int, scaler draw.Scaler) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	src, _, err := image.Decode(file)
	if err != nil {
		return nil, err
	}
	return Resize(src, width, height, scaler), nil
}

// Resize scales src to exactly width x height
func Resize(src image.Image, width, height int, scaler draw.Scaler) *Frame {
	rect := image.Rect(0, 0, width, height)

	// Scale in premultiplied space so transparent edges do not bleed colour
	scaled := image.NewRGBA(rect)
	scaler.Scale(scaled, rect, src, src.Bounds(), draw.Src, nil)

	out := image.NewNRGBA(rect)
	draw.Draw(out, rect, scaled, image.Point{}, draw.Src)
	return NewFrame(out)
}

// isFile reports whether entry is a regular file, following symlinks
func isFile(dir string, entry os.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	return err == nil && info.Mode().IsRegular()
}
