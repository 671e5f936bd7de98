package assistants

import (
	"context"
	"os"
	"os/exec"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Probe describes how to tell whether an assistant is installed: any of
// Dirs existing, or any of Commands being on PATH.
type Probe struct {
	Dirs     []string `yaml:"dirs"`
	Commands []string `yaml:"commands"`
}

// Prober is the filesystem and PATH access detection needs.
type Prober interface {
	DirExists(path string) bool
	LookPath(name string) bool
}

// OSProber probes the real filesystem and PATH.
type OSProber struct{}

func (OSProber) DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (OSProber) LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// Detect evaluates probe against p. It has no side effects and caches
// nothing. A cancelled context reports false.
func Detect(ctx context.Context, p Prober, probe Probe) bool {
	for _, dir := range probe.Dirs {
		if ctx.Err() != nil {
			return false
		}
		if p.DirExists(dir) {
			return true
		}
	}
	for _, cmd := range probe.Commands {
		if ctx.Err() != nil {
			return false
		}
		if p.LookPath(cmd) {
			return true
		}
	}
	return false
}

const detectConcurrency = 8

// DetectAll runs every assistant's probe in one batch and returns the
// installed state keyed by id.
func (r *Registry) DetectAll(ctx context.Context, p Prober) map[string]bool {
	result := make(map[string]bool, len(r.assistants))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(detectConcurrency)
	for _, a := range r.assistants {
		g.Go(func() error {
			installed := Detect(gctx, p, a.Probe)
			mu.Lock()
			result[a.ID] = installed
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return result
}

// Detected returns the ids of installed assistants in table order.
func (r *Registry) Detected(ctx context.Context, p Prober) []string {
	state := r.DetectAll(ctx, p)
	var ids []string
	for _, a := range r.assistants {
		if state[a.ID] {
			ids = append(ids, a.ID)
		}
	}
	return ids
}
