// Package builtins provides the commands every palette ships with: play-mode
// controls of the editor, scene saving, and a set of selection commands that
// cover every validation kind.
package builtins

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-logr/logr"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/cmdpal/internal/catalog"
	"github.com/oakwood-commons/cmdpal/internal/selection"
)

// PlayState is the play mode of the editor.
type PlayState int

const (
	Stopped PlayState = iota
	Playing
	Paused
)

func (s PlayState) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// ErrNoScenePath is returned by Save Scene when the host has nowhere to save.
var ErrNoScenePath = errors.New("scene has no path")

// Host is the editor the built-in commands act on.
type Host struct {
	mu    sync.Mutex
	state PlayState
	frame int

	out       io.Writer
	store     *selection.Store
	scene     []catalog.FileObject
	scenePath string
	log       logr.Logger
}

// Option configures a Host.
type Option func(*Host)

// WithScene sets the objects of the open scene and the file Save Scene writes.
func WithScene(path string, objects []catalog.FileObject) Option {
	return func(h *Host) {
		h.scenePath = path
		h.scene = objects
	}
}

// WithLogger sets the host logger.
func WithLogger(log logr.Logger) Option {
	return func(h *Host) { h.log = log }
}

// NewHost returns a host writing command feedback to out and operating on the
// selection in store.
func NewHost(out io.Writer, store *selection.Store, opts ...Option) *Host {
	if out == nil {
		out = io.Discard
	}
	h := &Host{out: out, store: store, log: logr.Discard()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// State returns the play state and the number of stepped frames.
func (h *Host) State() (PlayState, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state, h.frame
}

func (h *Host) printf(format string, args ...any) error {
	_, err := fmt.Fprintf(h.out, format+"\n", args...)
	return err
}

// Descriptors returns the built-in command descriptors.
func (h *Host) Descriptors() []catalog.Descriptor {
	entity := []catalog.Param{{Name: "entity", Type: catalog.ParamEntity}}
	entities := []catalog.Param{{Name: "entities", Type: catalog.ParamEntity, List: true}}
	transform := []catalog.Param{{Name: "transform", Type: catalog.ParamTransform}}
	transforms := []catalog.Param{{Name: "transforms", Type: catalog.ParamTransform, List: true}}
	object := []catalog.Param{{Name: "object", Type: catalog.ParamObject}}
	objects := []catalog.Param{{Name: "objects", Type: catalog.ParamObject, List: true}}
	text := []catalog.Param{{Name: "text", Type: catalog.ParamString}}

	return []catalog.Descriptor{
		{Name: "Play", Category: "Editor", Description: "Enter in playmode.", Tags: []string{"EAP"}, Handler: h.play},
		{Name: "Stop", Category: "Editor", Description: "Stops playmode.", Tags: []string{"EAS"}, Handler: h.stop},
		{Name: "Pause", Category: "Editor", Description: "Pause current game.", Tags: []string{"EAU"}, Handler: h.pause},
		{Name: "Step", Category: "Editor", Description: "Step to the next frame.", Tags: []string{"EAT"}, Handler: h.step},
		{Name: "Save Scene", Description: "Save the current scene.", Handler: h.saveScene},

		{Name: "Find", Category: "Selection", Description: "Select scene objects whose name contains the query.", Tags: []string{"SF"}, Params: text, Handler: h.find},
		{Name: "Focus Entity", Category: "Selection", Description: "Focus the active entity.", Params: entity, Handler: h.focus},
		{Name: "Count Entities", Category: "Selection", Description: "Count the selected entities.", Params: entities, Handler: h.count},
		{Name: "Reset Transform", Category: "Selection", Description: "Reset the active transform.", Params: transform, Handler: h.resetTransform},
		{Name: "Align Transforms", Category: "Selection", Description: "Align the selected transforms.", Params: transforms, Handler: h.align},
		{Name: "Ping", Category: "Selection", Description: "Highlight the active object.", Params: object, Handler: h.ping},
		{Name: "Deselect All", Category: "Selection", Description: "Clear the selection.", Tags: []string{"SD"}, Params: objects, Handler: h.deselect},
	}
}

// Play toggles play mode, matching the editor's play button.
func (h *Host) play(context.Context, catalog.Argument) error {
	h.mu.Lock()
	if h.state == Stopped {
		h.state = Playing
		h.frame = 0
	} else {
		h.state = Stopped
	}
	state := h.state
	h.mu.Unlock()
	return h.printf("editor %s", state)
}

func (h *Host) stop(context.Context, catalog.Argument) error {
	h.mu.Lock()
	wasRunning := h.state != Stopped
	h.state = Stopped
	h.mu.Unlock()
	if !wasRunning {
		return nil
	}
	return h.printf("editor %s", Stopped)
}

func (h *Host) pause(context.Context, catalog.Argument) error {
	h.mu.Lock()
	switch h.state {
	case Playing:
		h.state = Paused
	case Paused:
		h.state = Playing
	}
	state := h.state
	h.mu.Unlock()
	return h.printf("editor %s", state)
}

// step advances one frame and leaves the editor paused. Stepping while
// stopped does nothing.
func (h *Host) step(context.Context, catalog.Argument) error {
	h.mu.Lock()
	if h.state == Stopped {
		h.mu.Unlock()
		return nil
	}
	h.state = Paused
	h.frame++
	frame := h.frame
	h.mu.Unlock()
	return h.printf("editor stepped to frame %d", frame)
}

func (h *Host) saveScene(context.Context, catalog.Argument) error {
	if h.scenePath == "" {
		return ErrNoScenePath
	}
	data, err := yaml.Marshal(catalog.File{Objects: h.scene})
	if err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(h.scenePath), 0o750); err != nil {
		return fmt.Errorf("save scene: %w", err)
	}
	if err := os.WriteFile(h.scenePath, data, 0o600); err != nil {
		return fmt.Errorf("save scene: %w", err)
	}
	h.log.Info("scene saved", "path", h.scenePath, "objects", len(h.scene))
	return h.printf("saved %d object(s) to %s", len(h.scene), h.scenePath)
}

func (h *Host) find(_ context.Context, arg catalog.Argument) error {
	needle := strings.ToLower(strings.TrimSpace(arg.Text))
	var found []selection.Object
	for _, o := range h.scene {
		if needle == "" || strings.Contains(strings.ToLower(o.Name), needle) {
			found = append(found, o.Object)
		}
	}
	if h.store != nil {
		h.store.Set(found...)
	}
	return h.printf("selected %d object(s) matching %q", len(found), arg.Text)
}

func (h *Host) focus(_ context.Context, arg catalog.Argument) error {
	o, _ := arg.Object()
	return h.printf("focused %s", o.Name)
}

func (h *Host) count(_ context.Context, arg catalog.Argument) error {
	return h.printf("%d entities selected", len(arg.Objects))
}

func (h *Host) resetTransform(_ context.Context, arg catalog.Argument) error {
	o, _ := arg.Object()
	return h.printf("reset transform of %s", o.Name)
}

func (h *Host) align(_ context.Context, arg catalog.Argument) error {
	names := make([]string, 0, len(arg.Objects))
	for _, o := range arg.Objects {
		names = append(names, o.Name)
	}
	return h.printf("aligned %s", strings.Join(names, ", "))
}

func (h *Host) ping(_ context.Context, arg catalog.Argument) error {
	o, _ := arg.Object()
	return h.printf("ping %s (#%d)", o.Name, o.ID)
}

func (h *Host) deselect(_ context.Context, arg catalog.Argument) error {
	if h.store != nil {
		h.store.Clear()
	}
	return h.printf("deselected %d object(s)", len(arg.Objects))
}
