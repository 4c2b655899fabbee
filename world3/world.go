// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package world3 is the 3D physics pipeline: it owns the body arena, the
// detector/integrator stages, the signal bus, and the step orchestration
// described for the World pipeline capability.
package world3

import (
	"log/slog"
	"math"
	"sort"

	"github.com/gazed/nphys/body3"
	"github.com/gazed/nphys/geom3"
	"github.com/gazed/nphys/joint3"
	"github.com/gazed/nphys/lin3"
	"github.com/gazed/nphys/signal"
	"github.com/gazed/nphys/solver3"
)

// Detector is a pipeline stage that updates pairwise or joint state each
// step and contributes constraints to the solver.
type Detector interface {
	Update(w *World)
	Interferences(w *World, out *solver3.Input)
}

// Integrator is a pipeline stage that advances velocity-level state: force
// accumulation, damping, or velocity integration. Integrators only ever see
// bodies the world has told them about via add/activated signals.
type Integrator interface {
	Update(w *World, dt float64)
}

type stageEntry[T any] struct {
	priority float64
	seq      int
	stage    T
}

// World owns a generational arena of bodies plus the registered stages.
type World struct {
	Log *slog.Logger

	Gravity lin3.V3

	bodies   []bodyEntry
	freelist []uint32

	signals *signal.SignalEmitter[body3.Handle, solver3.Contact]

	detectors   []stageEntry[Detector]
	integrators []stageEntry[Integrator]
	seq         int

	narrow *BodiesBodies
	joints *joint3.Detector

	forces *ForceGenerator

	solverIterations int

	// ccdClamp maps a body handle to the fraction of dt its position
	// update should be clamped to this step (1.0 if untouched).
	ccdClamp map[body3.Handle]float64

	// bodyForce/bodyTorque are the force generator's per-step output,
	// read by the velocity integrator and overwritten by the force
	// generator's next update.
	bodyForce  map[body3.Handle]lin3.V3
	bodyTorque map[body3.Handle]lin3.V3

	// linDamping/angDamping are per-body damping coefficients applied by
	// the damping integrator; a body absent from the map uses no damping.
	linDamping map[body3.Handle]float64
	angDamping map[body3.Handle]float64
}

type bodyEntry struct {
	body  *body3.RigidBody
	gen   uint32
	alive bool
}

// NewWorld returns an empty world with the given gravity and a default
// 8-iteration solver budget.
func NewWorld(gravity lin3.V3, log *slog.Logger) *World {
	if log == nil {
		log = slog.Default()
	}
	w := &World{
		Log:              log,
		Gravity:          gravity,
		signals:          signal.NewSignalEmitter[body3.Handle, solver3.Contact](),
		joints:           joint3.NewDetector(),
		solverIterations: 8,
		ccdClamp:         map[body3.Handle]float64{},
		bodyForce:        map[body3.Handle]lin3.V3{},
		bodyTorque:       map[body3.Handle]lin3.V3{},
		linDamping:       map[body3.Handle]float64{},
		angDamping:       map[body3.Handle]float64{},
	}
	w.forces = NewForceGenerator(w)
	w.narrow = NewBodiesBodies(w)
	w.AddIntegrator(0, w.forces)
	w.AddIntegrator(10, NewDampingIntegrator(w))
	w.AddIntegrator(20, NewVelocityIntegrator(w))
	w.AddDetector(0, w.narrow)
	w.AddDetector(10, &jointDetectorStage{w.joints})
	return w
}

// Signals returns the world's event bus, for stages or external callers
// that need to subscribe to body lifecycle events.
func (w *World) Signals() *signal.SignalEmitter[body3.Handle, solver3.Contact] { return w.signals }

// Joints returns the world's joint detector, for constructing and
// registering ball-in-socket and fixed joints.
func (w *World) Joints() *joint3.Detector { return w.joints }

// AddDetector registers a detector stage at the given priority (smaller runs
// earlier); ties break by registration order.
func (w *World) AddDetector(priority float64, d Detector) {
	w.seq++
	w.detectors = append(w.detectors, stageEntry[Detector]{priority, w.seq, d})
	sortStages(w.detectors)
}

// AddIntegrator registers an integrator stage at the given priority.
func (w *World) AddIntegrator(priority float64, i Integrator) {
	w.seq++
	w.integrators = append(w.integrators, stageEntry[Integrator]{priority, w.seq, i})
	sortStages(w.integrators)
}

func sortStages[T any](s []stageEntry[T]) {
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].priority != s[j].priority {
			return s[i].priority < s[j].priority
		}
		return s[i].seq < s[j].seq
	})
}

// AddBody inserts b into the world's arena and emits body_added. Returns the
// handle stages must use to refer to it afterward.
func (w *World) AddBody(b *body3.RigidBody) body3.Handle {
	var h body3.Handle
	if n := len(w.freelist); n > 0 {
		idx := w.freelist[n-1]
		w.freelist = w.freelist[:n-1]
		gen := w.bodies[idx].gen
		w.bodies[idx] = bodyEntry{body: b, gen: gen, alive: true}
		h = body3.Handle{Index: idx, Gen: gen}
	} else {
		h = body3.Handle{Index: uint32(len(w.bodies)), Gen: 1}
		w.bodies = append(w.bodies, bodyEntry{body: b, gen: 1, alive: true})
	}
	b.Handle = h
	w.signals.EmitBodyAdded(h)
	return h
}

// RemoveBody removes the body at h, emits body_removed, and returns any
// constraints generated by a reactivation cascade the removal triggers (see
// the narrow phase's body-removal behavior): removing a sleeping support
// may wake sleeping neighbors, and the contacts produced by that wake-up are
// surfaced here rather than silently discarded, since callers (and the
// regression test for this behavior) need to observe the cascade.
func (w *World) RemoveBody(h body3.Handle) []solver3.Contact {
	e := w.lookup(h)
	if e == nil {
		w.Log.Warn("remove unknown body", "handle", h)
		return nil
	}
	body := e.body
	out := w.narrow.handleBodyRemoval(w, body)
	w.joints.RemoveBody(body)
	e.alive = false
	e.body = nil
	e.gen++
	w.freelist = append(w.freelist, h.Index)
	w.signals.EmitBodyRemoved(h)
	return out
}

func (w *World) lookup(h body3.Handle) *bodyEntry {
	if int(h.Index) >= len(w.bodies) {
		return nil
	}
	e := &w.bodies[h.Index]
	if !e.alive || e.gen != h.Gen {
		return nil
	}
	return e
}

// Body returns the rigid body at h, or nil if h is stale or unknown.
func (w *World) Body(h body3.Handle) *body3.RigidBody {
	e := w.lookup(h)
	if e == nil {
		return nil
	}
	return e.body
}

// Bodies calls f for every live body in the world. Removal of a body during
// iteration is safe: the snapshot is taken before f is called for any body.
func (w *World) Bodies(f func(h body3.Handle, b *body3.RigidBody)) {
	type pair struct {
		h body3.Handle
		b *body3.RigidBody
	}
	snapshot := make([]pair, 0, len(w.bodies))
	for i := range w.bodies {
		e := &w.bodies[i]
		if e.alive {
			snapshot = append(snapshot, pair{body3.Handle{Index: uint32(i), Gen: e.gen}, e.body})
		}
	}
	for _, p := range snapshot {
		f(p.h, p.b)
	}
}

// SetSolverIterations sets the fixed iteration budget the constraint solver
// runs per step.
func (w *World) SetSolverIterations(n int) { w.solverIterations = n }

// Activate reactivates the body at h if it is currently sleeping, running
// the same narrow-phase reactivation cascade RemoveBody triggers, and
// returns any constraints the cascade produced.
func (w *World) Activate(h body3.Handle) []solver3.Contact {
	e := w.lookup(h)
	if e == nil {
		return nil
	}
	return w.activateBody(h, e.body)
}

func (w *World) activateBody(h body3.Handle, b *body3.RigidBody) []solver3.Contact {
	if b.Activation.Active {
		return nil
	}
	b.Activation.Active = true
	b.Activation.Energy = b.Activation.DeactivationThreshold * 2
	var out []solver3.Contact
	w.signals.EmitBodyActivated(h, &out)
	return out
}

func (w *World) deactivateBody(h body3.Handle, b *body3.RigidBody) {
	if !b.Activation.Active {
		return
	}
	b.Activation.Active = false
	b.SetLinearVelocity(&lin3.V3{})
	b.SetAngularVelocity(&lin3.V3{})
	w.signals.EmitBodyDeactivated(h)
}

// CastRay tests the ray against every body's geometry (brute force, no
// spatial index) and returns the nearest hit body and world-space hit
// point, if any.
func (w *World) CastRay(origin, dir lin3.V3) (h body3.Handle, point lin3.V3, hit bool) {
	dir.Unit()
	bestT := lin3.Large
	var bestH body3.Handle
	var bestP lin3.V3
	w.Bodies(func(handle body3.Handle, b *body3.RigidBody) {
		t, ok := rayShape(origin, dir, &b.Xform, b.Geom)
		if ok && t < bestT {
			bestT = t
			bestH = handle
			p := lin3.V3{}
			p.Scale(&dir, t)
			p.Add(&p, &origin)
			bestP = p
		}
	})
	if bestT == lin3.Large {
		return body3.Handle{}, lin3.V3{}, false
	}
	return bestH, bestP, true
}

func rayShape(origin, dir lin3.V3, t *lin3.T, shape geom3.Shape) (float64, bool) {
	switch s := shape.(type) {
	case geom3.Ball:
		center := *t.Loc
		oc := lin3.V3{}
		oc.Sub(&origin, &center)
		b := oc.Dot(&dir)
		c := oc.Dot(&oc) - s.Radius*s.Radius
		disc := b*b - c
		if disc < 0 {
			return 0, false
		}
		sq := math.Sqrt(disc)
		t0 := -b - sq
		if t0 >= 0 {
			return t0, true
		}
		t1 := -b + sq
		if t1 >= 0 {
			return t1, true
		}
		return 0, false
	case geom3.Plane:
		n := lin3.V3{}
		n.MultQ(&s.Normal, t.Rot)
		planePt := lin3.V3{}
		planePt.Scale(&n, s.Offset)
		planePt.Add(&planePt, t.Loc)
		denom := dir.Dot(&n)
		if denom >= -lin3.Epsilon {
			return 0, false
		}
		diff := lin3.V3{}
		diff.Sub(&planePt, &origin)
		tt := diff.Dot(&n) / denom
		if tt < 0 {
			return 0, false
		}
		return tt, true
	default:
		// Rays are tested against the shape's local-frame bounding box: exact
		// for Box, an approximation for Compound.
		box := shape.Aabb()
		return rayAabb(origin, dir, t, box)
	}
}

func rayAabb(origin, dir lin3.V3, t *lin3.T, box geom3.Abox) (float64, bool) {
	local := origin
	t.Inv(&local)
	ld := dir
	inv := lin3.Q{X: -t.Rot.X, Y: -t.Rot.Y, Z: -t.Rot.Z, W: t.Rot.W}
	ld.MultQ(&ld, &inv)

	tmin, tmax := 0.0, lin3.Large
	for axis := 0; axis < 3; axis++ {
		var o, d, lo, hi float64
		switch axis {
		case 0:
			o, d, lo, hi = local.X, ld.X, box.Min.X, box.Max.X
		case 1:
			o, d, lo, hi = local.Y, ld.Y, box.Min.Y, box.Max.Y
		default:
			o, d, lo, hi = local.Z, ld.Z, box.Min.Z, box.Max.Z
		}
		if math.Abs(d) < lin3.Epsilon {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}
		t0, t1 := (lo-o)/d, (hi-o)/d
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tmin {
			tmin = t0
		}
		if t1 < tmax {
			tmax = t1
		}
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}

