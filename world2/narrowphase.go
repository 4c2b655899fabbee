// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

package world2

import (
	"github.com/gazed/nphys/body2"
	"github.com/gazed/nphys/geom2"
	"github.com/gazed/nphys/solver2"
)

// broadphaseMargin pads AABBs before the overlap test.
const broadphaseMargin = 0.02

func normalizePair(a, b body2.Handle) (body2.Handle, body2.Handle) {
	if a.Index > b.Index {
		return b, a
	}
	return a, b
}

type pairState struct {
	manifold     geom2.Manifold
	detector     geom2.Detector
	wasContacted bool
}

type pairKey struct{ a, b body2.Handle }

// BodiesBodies is the 2D narrow phase, the counterpart of world3's.
type BodiesBodies struct {
	w *World

	pairs map[pairKey]*pairState

	pendingReactivation []solver2.Contact
}

// NewBodiesBodies returns a narrow phase subscribed to w's activation signal.
func NewBodiesBodies(w *World) *BodiesBodies {
	nb := &BodiesBodies{w: w, pairs: map[pairKey]*pairState{}}
	w.signals.OnBodyActivated("narrow-phase", nb.onActivated)
	return nb
}

func (nb *BodiesBodies) onActivated(h body2.Handle, out *[]solver2.Contact) {
	w := nb.w
	woken := w.Body(h)
	if woken == nil {
		return
	}
	wokenBox := woken.Aabb().Grow(broadphaseMargin)
	w.Bodies(func(oh body2.Handle, other *body2.RigidBody) {
		if oh == h || !other.Activation.Active {
			return
		}
		if !validPair(woken, other) {
			return
		}
		if !wokenBox.Overlaps(other.Aabb().Grow(broadphaseMargin)) {
			return
		}
		contacts := nb.updatePair(h, woken, oh, other)
		*out = append(*out, contacts...)
	})
}

func validPair(a, b *body2.RigidBody) bool {
	if a == b {
		return false
	}
	if a.Mobility == body2.Static && b.Mobility == body2.Static {
		return false
	}
	return true
}

// Update runs the per-step brute-force broad phase and narrow-phase update.
func (nb *BodiesBodies) Update(w *World) {
	type entry struct {
		h body2.Handle
		b *body2.RigidBody
	}
	var live []entry
	w.Bodies(func(h body2.Handle, b *body2.RigidBody) { live = append(live, entry{h, b}) })

	seen := map[pairKey]bool{}
	for i := 0; i < len(live); i++ {
		for j := i + 1; j < len(live); j++ {
			a, b := live[i], live[j]
			if !validPair(a.b, b.b) {
				continue
			}
			if !a.b.Activation.Active && !b.b.Activation.Active {
				continue
			}
			if !a.b.Aabb().Grow(broadphaseMargin).Overlaps(b.b.Aabb().Grow(broadphaseMargin)) {
				continue
			}

			if a.b.Activation.Active != b.b.Activation.Active {
				sleeping, sleepingH := b, b.h
				if !a.b.Activation.Active {
					sleeping, sleepingH = a, a.h
				}
				if sleeping.b.Mobility == body2.Dynamic {
					contacts := w.activateBody(sleepingH, sleeping.b)
					nb.pendingReactivation = append(nb.pendingReactivation, contacts...)
					continue
				}
			}

			key := pairKey{}
			key.a, key.b = normalizePair(a.h, b.h)
			seen[key] = true
			nb.updatePair(a.h, a.b, b.h, b.b)
		}
	}

	for k := range nb.pairs {
		if !seen[k] {
			delete(nb.pairs, k)
		}
	}
}

func (nb *BodiesBodies) updatePair(ah body2.Handle, a *body2.RigidBody, bh body2.Handle, b *body2.RigidBody) []solver2.Contact {
	ka, kb := normalizePair(ah, bh)
	first, second := a, b
	if ka != ah {
		first, second = b, a
	}

	key := pairKey{ka, kb}
	ps, ok := nb.pairs[key]
	if !ok {
		// Dispatch in the same (first, second) order the detector will
		// always be invoked with, so Normal's sense (A toward B) matches
		// key.a/key.b regardless of the argument order this first call
		// happened to use.
		detector, supported := geom2.Dispatch(first.Geom, second.Geom)
		if !supported {
			return nil
		}
		ps = &pairState{detector: detector}
		nb.pairs[key] = ps
	}

	ps.detector(&first.Xform, first.Geom, &second.Xform, second.Geom, &ps.manifold)

	nowContacted := len(ps.manifold.Contacts) > 0
	if nowContacted != ps.wasContacted {
		if nowContacted {
			nb.w.signals.EmitCollisionStarted(ka, kb)
		} else {
			nb.w.signals.EmitCollisionEnded(ka, kb)
		}
		ps.wasContacted = nowContacted
	}

	if !nowContacted {
		return nil
	}
	bodyA, bodyB := nb.w.Body(ka), nb.w.Body(kb)
	friction := solver2.CombinedFriction(bodyA.Friction, bodyB.Friction)
	restitution := max(bodyA.Restitution, bodyB.Restitution)
	out := make([]solver2.Contact, len(ps.manifold.Contacts))
	for i, c := range ps.manifold.Contacts {
		out[i] = solver2.Contact{
			A: bodyA, B: bodyB,
			Point: c.Point, Normal: c.Normal, Depth: c.Depth,
			Friction: friction, Restitution: restitution,
		}
	}
	return out
}

// Interferences appends an RBRB constraint for every current contact across
// all live pairs, plus any buffered reactivation contacts from this step.
func (nb *BodiesBodies) Interferences(w *World, out *solver2.Input) {
	for key, ps := range nb.pairs {
		if len(ps.manifold.Contacts) == 0 {
			continue
		}
		a, b := w.Body(key.a), w.Body(key.b)
		if a == nil || b == nil {
			continue
		}
		friction := solver2.CombinedFriction(a.Friction, b.Friction)
		restitution := max(a.Restitution, b.Restitution)
		for _, c := range ps.manifold.Contacts {
			out.Contacts = append(out.Contacts, solver2.Contact{
				A: a, B: b,
				Point: c.Point, Normal: c.Normal, Depth: c.Depth,
				Friction: friction, Restitution: restitution,
			})
		}
	}
	out.Contacts = append(out.Contacts, nb.pendingReactivation...)
	nb.pendingReactivation = nb.pendingReactivation[:0]
}

// handleBodyRemoval wakes sleeping dynamic neighbors when the removed body
// was itself sleeping, so they don't remain stuck without their support.
func (nb *BodiesBodies) handleBodyRemoval(w *World, removed *body2.RigidBody) []solver2.Contact {
	if removed.Activation.Active {
		return nil
	}
	box := removed.Aabb().Grow(broadphaseMargin)
	var out []solver2.Contact
	w.Bodies(func(h body2.Handle, other *body2.RigidBody) {
		if other == removed || other.Activation.Active || other.Mobility != body2.Dynamic {
			return
		}
		if !box.Overlaps(other.Aabb().Grow(broadphaseMargin)) {
			return
		}
		out = append(out, w.activateBody(h, other)...)
	})
	return out
}
