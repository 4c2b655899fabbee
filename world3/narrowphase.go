// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

package world3

import (
	"github.com/gazed/nphys/body3"
	"github.com/gazed/nphys/geom3"
	"github.com/gazed/nphys/solver3"
)

// broadphaseMargin pads AABBs before the overlap test so small jitters
// don't thrash pair creation/destruction every other step.
const broadphaseMargin = 0.02

func normalizePair(a, b body3.Handle) (body3.Handle, body3.Handle) {
	if a.Index > b.Index {
		return b, a
	}
	return a, b
}

type pairState struct {
	manifold     geom3.Manifold
	detector     geom3.Detector
	wasContacted bool
}

type pairKey struct{ a, b body3.Handle }

// BodiesBodies is the narrow phase: it maintains a table of active
// pairwise detectors keyed by ordered body-pair identity, synchronized with
// the (brute-force) broad phase, and is itself a Detector/Integrator-style
// pipeline stage.
type BodiesBodies struct {
	w *World

	pairs map[pairKey]*pairState

	// pendingReactivation buffers contacts that the activation handler
	// (onActivated) produces when Update wakes a sleeping body, drained into
	// the next Interferences call. Contacts from handleBodyRemoval's
	// wake-neighbor cascade are returned to its caller instead.
	pendingReactivation []solver3.Contact
}

// NewBodiesBodies returns a narrow phase subscribed to w's activation signal.
func NewBodiesBodies(w *World) *BodiesBodies {
	nb := &BodiesBodies{w: w, pairs: map[pairKey]*pairState{}}
	w.signals.OnBodyActivated("narrow-phase", nb.onActivated)
	return nb
}

func (nb *BodiesBodies) onActivated(h body3.Handle, out *[]solver3.Contact) {
	w := nb.w
	woken := w.Body(h)
	if woken == nil {
		return
	}
	wokenBox := woken.Aabb().Grow(broadphaseMargin)
	w.Bodies(func(oh body3.Handle, other *body3.RigidBody) {
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

func validPair(a, b *body3.RigidBody) bool {
	if a == b {
		return false
	}
	if a.Mobility == body3.Static && b.Mobility == body3.Static {
		return false
	}
	return true
}

// Update runs the per-step brute-force broad phase and, for every
// overlapping valid pair, the narrow-phase update, emitting
// collision_started/collision_ended on contact-count transitions. It also
// implements the "contact with an already-active body wakes a sleeping
// neighbor" activation trigger.
func (nb *BodiesBodies) Update(w *World) {
	type entry struct {
		h body3.Handle
		b *body3.RigidBody
	}
	var live []entry
	w.Bodies(func(h body3.Handle, b *body3.RigidBody) { live = append(live, entry{h, b}) })

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

			// Exactly one side asleep and dynamic: waking it is the
			// narrow phase's job, per the activation trigger contract;
			// the freshly produced contacts arrive via the reentrant
			// activation handler, so skip normal processing this round.
			if a.b.Activation.Active != b.b.Activation.Active {
				sleeping, sleepingH := b, b.h
				if !a.b.Activation.Active {
					sleeping, sleepingH = a, a.h
				}
				if sleeping.b.Mobility == body3.Dynamic {
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

	// Drop stale pair state for pairs no longer overlapping so a later
	// reactivation of either body starts its manifold fresh.
	for k := range nb.pairs {
		if !seen[k] {
			delete(nb.pairs, k)
		}
	}
}

// updatePair fetches or creates the pair's stateful detector, recomputes
// its manifold, fires collision_started/ended on transitions, and returns
// the pair's current contacts converted to solver3.Contact.
func (nb *BodiesBodies) updatePair(ah body3.Handle, a *body3.RigidBody, bh body3.Handle, b *body3.RigidBody) []solver3.Contact {
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
		detector, supported := geom3.Dispatch(first.Geom, second.Geom)
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
	friction := solver3.CombinedFriction(bodyA.Friction, bodyB.Friction)
	restitution := max(bodyA.Restitution, bodyB.Restitution)
	out := make([]solver3.Contact, len(ps.manifold.Contacts))
	for i, c := range ps.manifold.Contacts {
		out[i] = solver3.Contact{
			A: bodyA, B: bodyB,
			Point: c.Point, Normal: c.Normal, Depth: c.Depth,
			Friction: friction, Restitution: restitution,
		}
	}
	return out
}

// Interferences appends an RBRB constraint for every current contact across
// all live pairs, plus any buffered reactivation contacts from this step.
func (nb *BodiesBodies) Interferences(w *World, out *solver3.Input) {
	for key, ps := range nb.pairs {
		if len(ps.manifold.Contacts) == 0 {
			continue
		}
		a, b := w.Body(key.a), w.Body(key.b)
		if a == nil || b == nil {
			continue
		}
		friction := solver3.CombinedFriction(a.Friction, b.Friction)
		restitution := max(a.Restitution, b.Restitution)
		for _, c := range ps.manifold.Contacts {
			out.Contacts = append(out.Contacts, solver3.Contact{
				A: a, B: b,
				Point: c.Point, Normal: c.Normal, Depth: c.Depth,
				Friction: friction, Restitution: restitution,
			})
		}
	}
	out.Contacts = append(out.Contacts, nb.pendingReactivation...)
	nb.pendingReactivation = nb.pendingReactivation[:0]
}

// handleBodyRemoval implements the body-removal "stuck support" rule: if
// the body being removed was itself sleeping, every sleeping dynamic
// neighbor within its (grown) bounding box is reactivated so it doesn't
// remain frozen in mid-air once its support is gone.
func (nb *BodiesBodies) handleBodyRemoval(w *World, removed *body3.RigidBody) []solver3.Contact {
	if removed.Activation.Active {
		return nil
	}
	box := removed.Aabb().Grow(broadphaseMargin)
	var out []solver3.Contact
	w.Bodies(func(h body3.Handle, other *body3.RigidBody) {
		if other == removed || other.Activation.Active || other.Mobility != body3.Dynamic {
			return
		}
		if !box.Overlaps(other.Aabb().Grow(broadphaseMargin)) {
			return
		}
		out = append(out, w.activateBody(h, other)...)
	})
	return out
}
