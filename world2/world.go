// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package world2 is the 2D counterpart of world3: the same pipeline
// orchestration, lighter on angular state (scalar angle/angular velocity
// instead of quaternion/3x3 inertia).
package world2

import (
	"log/slog"
	"math"
	"sort"

	"github.com/gazed/nphys/body2"
	"github.com/gazed/nphys/geom2"
	"github.com/gazed/nphys/joint2"
	"github.com/gazed/nphys/lin2"
	"github.com/gazed/nphys/signal"
	"github.com/gazed/nphys/solver2"
)

// Detector is a pipeline stage that updates pairwise or joint state each
// step and contributes constraints to the solver.
type Detector interface {
	Update(w *World)
	Interferences(w *World, out *solver2.Input)
}

// Integrator is a pipeline stage that advances velocity-level state.
type Integrator interface {
	Update(w *World, dt float64)
}

type stageEntry[T any] struct {
	priority float64
	seq      int
	stage    T
}

// World owns a generational arena of 2D bodies plus the registered stages.
type World struct {
	Log *slog.Logger

	Gravity lin2.V2

	bodies   []bodyEntry
	freelist []uint32

	signals *signal.SignalEmitter[body2.Handle, solver2.Contact]

	detectors   []stageEntry[Detector]
	integrators []stageEntry[Integrator]
	seq         int

	narrow *BodiesBodies
	joints *joint2.Detector

	forces *ForceGenerator

	solverIterations int

	ccdClamp map[body2.Handle]float64

	bodyForce  map[body2.Handle]lin2.V2
	bodyTorque map[body2.Handle]float64

	linDamping map[body2.Handle]float64
	angDamping map[body2.Handle]float64
}

type bodyEntry struct {
	body  *body2.RigidBody
	gen   uint32
	alive bool
}

// NewWorld returns an empty world with the given gravity and a default
// 8-iteration solver budget.
func NewWorld(gravity lin2.V2, log *slog.Logger) *World {
	if log == nil {
		log = slog.Default()
	}
	w := &World{
		Log:              log,
		Gravity:          gravity,
		signals:          signal.NewSignalEmitter[body2.Handle, solver2.Contact](),
		joints:           joint2.NewDetector(),
		solverIterations: 8,
		ccdClamp:         map[body2.Handle]float64{},
		bodyForce:        map[body2.Handle]lin2.V2{},
		bodyTorque:       map[body2.Handle]float64{},
		linDamping:       map[body2.Handle]float64{},
		angDamping:       map[body2.Handle]float64{},
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

// Signals returns the world's event bus.
func (w *World) Signals() *signal.SignalEmitter[body2.Handle, solver2.Contact] { return w.signals }

// Joints returns the world's joint detector.
func (w *World) Joints() *joint2.Detector { return w.joints }

// AddDetector registers a detector stage at the given priority.
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

// AddBody inserts b into the world's arena and emits body_added.
func (w *World) AddBody(b *body2.RigidBody) body2.Handle {
	var h body2.Handle
	if n := len(w.freelist); n > 0 {
		idx := w.freelist[n-1]
		w.freelist = w.freelist[:n-1]
		gen := w.bodies[idx].gen
		w.bodies[idx] = bodyEntry{body: b, gen: gen, alive: true}
		h = body2.Handle{Index: idx, Gen: gen}
	} else {
		h = body2.Handle{Index: uint32(len(w.bodies)), Gen: 1}
		w.bodies = append(w.bodies, bodyEntry{body: b, gen: 1, alive: true})
	}
	b.Handle = h
	w.signals.EmitBodyAdded(h)
	return h
}

// RemoveBody removes the body at h, emits body_removed, and returns any
// constraints generated by a reactivation cascade the removal triggers.
func (w *World) RemoveBody(h body2.Handle) []solver2.Contact {
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

func (w *World) lookup(h body2.Handle) *bodyEntry {
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
func (w *World) Body(h body2.Handle) *body2.RigidBody {
	e := w.lookup(h)
	if e == nil {
		return nil
	}
	return e.body
}

// Bodies calls f for every live body in the world, snapshot-stable.
func (w *World) Bodies(f func(h body2.Handle, b *body2.RigidBody)) {
	type pair struct {
		h body2.Handle
		b *body2.RigidBody
	}
	snapshot := make([]pair, 0, len(w.bodies))
	for i := range w.bodies {
		e := &w.bodies[i]
		if e.alive {
			snapshot = append(snapshot, pair{body2.Handle{Index: uint32(i), Gen: e.gen}, e.body})
		}
	}
	for _, p := range snapshot {
		f(p.h, p.b)
	}
}

// SetSolverIterations sets the fixed iteration budget the solver runs per step.
func (w *World) SetSolverIterations(n int) { w.solverIterations = n }

// Activate reactivates the body at h if it is currently sleeping.
func (w *World) Activate(h body2.Handle) []solver2.Contact {
	e := w.lookup(h)
	if e == nil {
		return nil
	}
	return w.activateBody(h, e.body)
}

func (w *World) activateBody(h body2.Handle, b *body2.RigidBody) []solver2.Contact {
	if b.Activation.Active {
		return nil
	}
	b.Activation.Active = true
	b.Activation.Energy = b.Activation.DeactivationThreshold * 2
	var out []solver2.Contact
	w.signals.EmitBodyActivated(h, &out)
	return out
}

func (w *World) deactivateBody(h body2.Handle, b *body2.RigidBody) {
	if !b.Activation.Active {
		return
	}
	b.Activation.Active = false
	b.SetLinearVelocity(&lin2.V2{})
	b.SetAngularVelocity(0)
	w.signals.EmitBodyDeactivated(h)
}

// CastRay returns the nearest hit body and world-space hit point, if any.
func (w *World) CastRay(origin, dir lin2.V2) (h body2.Handle, point lin2.V2, hit bool) {
	dir.Unit()
	bestT := lin2.Large
	var bestH body2.Handle
	var bestP lin2.V2
	w.Bodies(func(handle body2.Handle, b *body2.RigidBody) {
		t, ok := rayShape(origin, dir, &b.Xform, b.Geom)
		if ok && t < bestT {
			bestT = t
			bestH = handle
			p := lin2.V2{}
			p.Scale(&dir, t)
			p.Add(&p, &origin)
			bestP = p
		}
	})
	if bestT == lin2.Large {
		return body2.Handle{}, lin2.V2{}, false
	}
	return bestH, bestP, true
}

func rayShape(origin, dir lin2.V2, t *lin2.T2, shape geom2.Shape) (float64, bool) {
	switch s := shape.(type) {
	case geom2.Circle:
		center := *t.Loc
		oc := lin2.V2{}
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
	case geom2.Plane:
		n := lin2.V2{}
		n.Rot(&s.Normal, t.Ang)
		planePt := lin2.V2{}
		planePt.Scale(&n, s.Offset)
		planePt.Add(&planePt, t.Loc)
		denom := dir.Dot(&n)
		if denom >= -lin2.Epsilon {
			return 0, false
		}
		diff := lin2.V2{}
		diff.Sub(&planePt, &origin)
		tt := diff.Dot(&n) / denom
		if tt < 0 {
			return 0, false
		}
		return tt, true
	default:
		box := shape.Aabb()
		return rayAabb(origin, dir, t, box)
	}
}

func rayAabb(origin, dir lin2.V2, t *lin2.T2, box geom2.Abox) (float64, bool) {
	local := origin
	t.Inv(&local)
	ld := dir
	ld.Rot(&ld, -t.Ang)

	tmin, tmax := 0.0, lin2.Large
	for axis := 0; axis < 2; axis++ {
		var o, d, lo, hi float64
		switch axis {
		case 0:
			o, d, lo, hi = local.X, ld.X, box.Min.X, box.Max.X
		default:
			o, d, lo, hi = local.Y, ld.Y, box.Min.Y, box.Max.Y
		}
		if math.Abs(d) < lin2.Epsilon {
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

