// Package window applies the window configuration to ebiten and owns
// the title bar.
package window

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/nightfore/nf/internal/infrastructure/config"
)

// Manager holds the configured window state. The logical screen size
// never changes at runtime; scale and fullscreen only affect the
// desktop window.
type Manager struct {
	cfg config.WindowConfig
}

// NewManager applies cfg to ebiten and returns the manager.
func NewManager(cfg config.WindowConfig) *Manager {
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width*cfg.Scale, cfg.Height*cfg.Scale)
	ebiten.SetTPS(cfg.TPS)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	if cfg.Fullscreen {
		ebiten.SetFullscreen(true)
	}
	return &Manager{cfg: cfg}
}

// Layout returns the logical screen size regardless of the desktop
// window size.
func (m *Manager) Layout(outsideWidth, outsideHeight int) (int, int) {
	return m.cfg.Width, m.cfg.Height
}

// ToggleFullscreen flips between windowed and fullscreen mode.
func (m *Manager) ToggleFullscreen() {
	ebiten.SetFullscreen(!ebiten.IsFullscreen())
}

// ShowFPS appends the measured frame and tick rates to the title.
func (m *Manager) ShowFPS() {
	ebiten.SetWindowTitle(fmt.Sprintf("%s | %.0f fps %.0f tps", m.cfg.Title, ebiten.ActualFPS(), ebiten.ActualTPS()))
}

// ResetTitle restores the configured title.
func (m *Manager) ResetTitle() {
	ebiten.SetWindowTitle(m.cfg.Title)
}
