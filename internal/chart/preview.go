package chart

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
)

// Previewer opens saved images in the desktop viewer
type Previewer struct {
	goos   string
	getenv func(string) string
	start  func(name string, args ...string) error
	logger *slog.Logger
}

// NewPreviewer creates a Previewer for the running platform
func NewPreviewer(logger *slog.Logger) *Previewer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Previewer{
		goos:   runtime.GOOS,
		getenv: os.Getenv,
		start:  startDetached,
		logger: logger,
	}
}

// Available reports whether a display can show the image
func (p *Previewer) Available() bool {
	switch p.goos {
	case "darwin", "windows":
		return true
	default:
		return p.getenv("DISPLAY") != "" || p.getenv("WAYLAND_DISPLAY") != ""
	}
}

// Open shows path in the platform viewer. It returns false without error
// when no display is available.
func (p *Previewer) Open(ctx context.Context, path string) (bool, error) {
	if !p.Available() {
		p.logger.DebugContext(ctx, "No display available, skipping preview", slog.String("path", path))
		return false, nil
	}

	name, args := p.command(path)
	if err := p.start(name, args...); err != nil {
		return false, fmt.Errorf("failed to open preview with %s: %w", name, err)
	}

	p.logger.InfoContext(ctx, "Preview opened", slog.String("path", path), slog.String("viewer", name))
	return true, nil
}

func (p *Previewer) command(path string) (string, []string) {
	switch p.goos {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "cmd", []string{"/c", "start", "", path}
	default:
		return "xdg-open", []string{path}
	}
}

// startDetached starts the viewer without waiting for it to exit. The
// viewer outlives the run.
func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}
