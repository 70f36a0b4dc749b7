// Package preview draws one session's forward face in a terminal
package preview

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/holodisc/parameter"
	"github.com/lixenwraith/holodisc/render"
	"github.com/lixenwraith/holodisc/scene"
)

// CellWidth is the number of terminal columns per grid cell; two columns keep cells roughly square
const CellWidth = 2

// Screen is a scene.Sink painting the followed identity onto a tcell screen
// Grid row 0 is drawn at the bottom, matching the world layout
type Screen struct {
	mu       sync.Mutex
	screen   tcell.Screen
	width    int
	height   int
	identity string
	cells    map[render.Key]render.Proxy
	status   string
	dirty    bool
}

func New(screen tcell.Screen, width, height int) *Screen {
	return &Screen{
		screen: screen,
		width:  width,
		height: height,
		cells:  make(map[render.Key]render.Proxy),
		dirty:  true,
	}
}

// Follow switches to identity and forgets what was drawn for the previous one
func (s *Screen) Follow(identity string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == identity {
		return
	}
	s.identity = identity
	clear(s.cells)
	s.dirty = true
}

// Resize changes the grid dimensions, e.g. after a reload
func (s *Screen) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = width, height
	s.dirty = true
}

func (s *Screen) SetStatus(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != text {
		s.status = text
		s.dirty = true
	}
}

// Publish implements scene.Sink; backward proxies and other identities are ignored
func (s *Screen) Publish(b scene.Batch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.Identity != s.identity {
		return
	}
	for _, p := range b.Patches {
		if p.Key.Side != render.Forward {
			continue
		}
		switch p.Op {
		case scene.OpAdd, scene.OpUpdate:
			s.cells[p.Key] = p.Proxy
		case scene.OpRemove:
			delete(s.cells, p.Key)
		}
		s.dirty = true
	}
}

// Len returns the number of lit cells
func (s *Screen) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cells)
}

// Draw repaints when something changed since the last call and reports whether it did
func (s *Screen) Draw() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return false
	}
	s.dirty = false

	s.screen.Clear()
	sw, sh := s.screen.Size()

	for key, p := range s.cells {
		if key.X < 0 || key.X >= s.width || key.Y < 0 || key.Y >= s.height {
			continue
		}
		row := s.height - 1 - key.Y
		if row >= sh {
			continue
		}
		c := render.Lit(p.Color, p.Brightness, parameter.MaxBrightness)
		style := tcell.StyleDefault.Background(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
		for i := 0; i < CellWidth; i++ {
			col := key.X*CellWidth + i
			if col >= sw {
				break
			}
			s.screen.SetContent(col, row, ' ', nil, style)
		}
	}

	if s.height < sh {
		col := 0
		for _, r := range s.status {
			if col >= sw {
				break
			}
			s.screen.SetContent(col, s.height, r, nil, tcell.StyleDefault)
			col++
		}
	}

	s.screen.Show()
	return true
}
