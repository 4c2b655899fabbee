// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

package world3

import (
	"github.com/gazed/nphys/body3"
	"github.com/gazed/nphys/solver3"
)

// bodyTracker is the per-stage "bodies I've been told about" set every
// Integrator and Detector keeps, populated from the world's body_added,
// body_removed, body_activated, and body_deactivated signals so that a
// stage never iterates bodies it was never introduced to, or that have
// since been removed or put to sleep.
type bodyTracker struct {
	handles []body3.Handle
	index   map[body3.Handle]int
}

func newBodyTracker() *bodyTracker {
	return &bodyTracker{index: map[body3.Handle]int{}}
}

func (t *bodyTracker) add(h body3.Handle) {
	if _, ok := t.index[h]; ok {
		return
	}
	t.index[h] = len(t.handles)
	t.handles = append(t.handles, h)
}

func (t *bodyTracker) remove(h body3.Handle) {
	i, ok := t.index[h]
	if !ok {
		return
	}
	last := len(t.handles) - 1
	t.handles[i] = t.handles[last]
	t.index[t.handles[i]] = i
	t.handles = t.handles[:last]
	delete(t.index, h)
}

func (t *bodyTracker) each(w *World, f func(h body3.Handle, b *body3.RigidBody)) {
	for _, h := range t.handles {
		if b := w.Body(h); b != nil {
			f(h, b)
		}
	}
}

// subscribeLifecycle wires a tracker to added/removed, and activated/
// deactivated so sleeping bodies drop out without being removed from the
// world, under the given stable subscriber key.
func subscribeLifecycle(w *World, key string, t *bodyTracker) {
	w.signals.OnBodyAdded(key, func(h body3.Handle) { t.add(h) })
	w.signals.OnBodyRemoved(key, func(h body3.Handle) { t.remove(h) })
	w.signals.OnBodyActivated(key, func(h body3.Handle, out *[]solver3.Contact) { t.add(h) })
	w.signals.OnBodyDeactivated(key, func(h body3.Handle) { t.remove(h) })
}
