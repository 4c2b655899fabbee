// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

package world2

import (
	"github.com/gazed/nphys/body2"
	"github.com/gazed/nphys/solver2"
)

// bodyTracker is the per-stage "bodies I've been told about" set, the 2D
// counterpart of world3's tracker.
type bodyTracker struct {
	handles []body2.Handle
	index   map[body2.Handle]int
}

func newBodyTracker() *bodyTracker {
	return &bodyTracker{index: map[body2.Handle]int{}}
}

func (t *bodyTracker) add(h body2.Handle) {
	if _, ok := t.index[h]; ok {
		return
	}
	t.index[h] = len(t.handles)
	t.handles = append(t.handles, h)
}

func (t *bodyTracker) remove(h body2.Handle) {
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

func (t *bodyTracker) each(w *World, f func(h body2.Handle, b *body2.RigidBody)) {
	for _, h := range t.handles {
		if b := w.Body(h); b != nil {
			f(h, b)
		}
	}
}

// subscribeLifecycle wires a tracker to added/removed/activated/deactivated.
func subscribeLifecycle(w *World, key string, t *bodyTracker) {
	w.signals.OnBodyAdded(key, func(h body2.Handle) { t.add(h) })
	w.signals.OnBodyRemoved(key, func(h body2.Handle) { t.remove(h) })
	w.signals.OnBodyActivated(key, func(h body2.Handle, out *[]solver2.Contact) { t.add(h) })
	w.signals.OnBodyDeactivated(key, func(h body2.Handle) { t.remove(h) })
}
