// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package signal is the process-scoped event bus a world uses to notify
// pipeline stages of body lifecycle and activation changes. It is the one
// package shared verbatim between the 3D and 2D physics cores: the bus
// itself never touches vector math, so it is written once as a generic
// SignalEmitter over the body identity type B and the constraint type C a
// stage contributes when reactivating a body.
package signal

// BodyHandler reacts to a body entering or leaving the world, or changing
// activation state.
type BodyHandler[B comparable] func(id B)

// ActivationHandler reacts to a body activating. out collects constraints
// the handler produces as a side effect of reactivation (e.g. the narrow
// phase re-evaluating the body's current overlaps); the caller that emitted
// the activation owns out and is responsible for feeding it to the solver.
type ActivationHandler[B comparable, C any] func(id B, out *[]C)

// CollisionHandler reacts to a pair of bodies starting or stopping contact.
type CollisionHandler[B comparable] func(a, b B)

type entry[H any] struct {
	key string
	fn  H
}

// registry keeps handlers in registration order while allowing idempotent
// registration and O(1)-ish lookup by key.
type registry[H any] struct {
	entries []entry[H]
	index   map[string]int
}

func (r *registry[H]) register(key string, fn H) {
	if r.index == nil {
		r.index = map[string]int{}
	}
	if _, ok := r.index[key]; ok {
		return
	}
	r.index[key] = len(r.entries)
	r.entries = append(r.entries, entry[H]{key, fn})
}

func (r *registry[H]) unregister(key string) {
	i, ok := r.index[key]
	if !ok {
		return
	}
	r.entries = append(r.entries[:i], r.entries[i+1:]...)
	delete(r.index, key)
	for k, idx := range r.index {
		if idx > i {
			r.index[k] = idx - 1
		}
	}
}

func (r *registry[H]) each(f func(H)) {
	for _, e := range r.entries {
		f(e.fn)
	}
}

// maxActivationDepth bounds the reentrant activation cascade described in
// the package doc: a reactivation may trigger neighboring reactivations
// within the same handler pass, but that is the only level of nesting the
// bus honors. Anything deeper is a sign of a cyclic wake-up and is dropped
// rather than recursed into forever.
const maxActivationDepth = 2

// SignalEmitter is a per-world event bus with six channels: body_added,
// body_removed, body_activated, body_deactivated, collision_started and
// collision_ended. Subscribers register under a stable identity key;
// registering the same key twice is a no-op.
type SignalEmitter[B comparable, C any] struct {
	added             registry[BodyHandler[B]]
	removed           registry[BodyHandler[B]]
	activated         registry[ActivationHandler[B, C]]
	deactivated       registry[BodyHandler[B]]
	collisionStarted  registry[CollisionHandler[B]]
	collisionEnded    registry[CollisionHandler[B]]
	activationDepth   int
}

// NewSignalEmitter returns an empty bus.
func NewSignalEmitter[B comparable, C any]() *SignalEmitter[B, C] {
	return &SignalEmitter[B, C]{}
}

// OnBodyAdded registers h under key for body_added. Returns the emitter for chaining.
func (e *SignalEmitter[B, C]) OnBodyAdded(key string, h BodyHandler[B]) *SignalEmitter[B, C] {
	e.added.register(key, h)
	return e
}

// OffBodyAdded unregisters the body_added handler under key, if any.
func (e *SignalEmitter[B, C]) OffBodyAdded(key string) { e.added.unregister(key) }

// OnBodyRemoved registers h under key for body_removed.
func (e *SignalEmitter[B, C]) OnBodyRemoved(key string, h BodyHandler[B]) *SignalEmitter[B, C] {
	e.removed.register(key, h)
	return e
}

// OffBodyRemoved unregisters the body_removed handler under key, if any.
func (e *SignalEmitter[B, C]) OffBodyRemoved(key string) { e.removed.unregister(key) }

// OnBodyActivated registers h under key for body_activated.
func (e *SignalEmitter[B, C]) OnBodyActivated(key string, h ActivationHandler[B, C]) *SignalEmitter[B, C] {
	e.activated.register(key, h)
	return e
}

// OffBodyActivated unregisters the body_activated handler under key, if any.
func (e *SignalEmitter[B, C]) OffBodyActivated(key string) { e.activated.unregister(key) }

// OnBodyDeactivated registers h under key for body_deactivated.
func (e *SignalEmitter[B, C]) OnBodyDeactivated(key string, h BodyHandler[B]) *SignalEmitter[B, C] {
	e.deactivated.register(key, h)
	return e
}

// OffBodyDeactivated unregisters the body_deactivated handler under key, if any.
func (e *SignalEmitter[B, C]) OffBodyDeactivated(key string) { e.deactivated.unregister(key) }

// OnCollisionStarted registers h under key for collision_started.
func (e *SignalEmitter[B, C]) OnCollisionStarted(key string, h CollisionHandler[B]) *SignalEmitter[B, C] {
	e.collisionStarted.register(key, h)
	return e
}

// OffCollisionStarted unregisters the collision_started handler under key, if any.
func (e *SignalEmitter[B, C]) OffCollisionStarted(key string) { e.collisionStarted.unregister(key) }

// OnCollisionEnded registers h under key for collision_ended.
func (e *SignalEmitter[B, C]) OnCollisionEnded(key string, h CollisionHandler[B]) *SignalEmitter[B, C] {
	e.collisionEnded.register(key, h)
	return e
}

// OffCollisionEnded unregisters the collision_ended handler under key, if any.
func (e *SignalEmitter[B, C]) OffCollisionEnded(key string) { e.collisionEnded.unregister(key) }

// EmitBodyAdded fires body_added handlers in registration order.
func (e *SignalEmitter[B, C]) EmitBodyAdded(id B) {
	e.added.each(func(h BodyHandler[B]) { h(id) })
}

// EmitBodyRemoved fires body_removed handlers in registration order.
func (e *SignalEmitter[B, C]) EmitBodyRemoved(id B) {
	e.removed.each(func(h BodyHandler[B]) { h(id) })
}

// EmitBodyDeactivated fires body_deactivated handlers in registration order.
func (e *SignalEmitter[B, C]) EmitBodyDeactivated(id B) {
	e.deactivated.each(func(h BodyHandler[B]) { h(id) })
}

// EmitBodyActivated fires body_activated handlers in registration order,
// appending any constraints they produce to out. All handlers for this
// event complete, including any they trigger by reactivating neighbors,
// before EmitBodyActivated returns — up to maxActivationDepth levels of
// that reentrant cascade are honored.
func (e *SignalEmitter[B, C]) EmitBodyActivated(id B, out *[]C) {
	if e.activationDepth >= maxActivationDepth {
		return
	}
	e.activationDepth++
	defer func() { e.activationDepth-- }()
	e.activated.each(func(h ActivationHandler[B, C]) { h(id, out) })
}

// EmitCollisionStarted fires collision_started handlers in registration order.
func (e *SignalEmitter[B, C]) EmitCollisionStarted(a, b B) {
	e.collisionStarted.each(func(h CollisionHandler[B]) { h(a, b) })
}

// EmitCollisionEnded fires collision_ended handlers in registration order.
func (e *SignalEmitter[B, C]) EmitCollisionEnded(a, b B) {
	e.collisionEnded.each(func(h CollisionHandler[B]) { h(a, b) })
}
