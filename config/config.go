// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package config loads declarative scene manifests: gravity, solver
// budget, bodies and joints, described in yaml the way shaders are
// described in gazed-vu/load. It is a convenience entry point for
// examples and data-driven tests, not part of the simulation core.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gazed/nphys/body3"
	"github.com/gazed/nphys/geom3"
	"github.com/gazed/nphys/joint3"
	"github.com/gazed/nphys/lin3"
	"github.com/gazed/nphys/world3"
)

var mobilityKinds = map[string]body3.Mobility{
	"dynamic": body3.Dynamic,
	"static":  body3.Static,
}

// Scene is a parsed scene manifest, ready to Build into a running world.
type Scene struct {
	cfg sceneConfig
}

// LoadScene reads and parses a yaml scene manifest from path.
func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config:LoadScene %w", err)
	}
	var cfg sceneConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config:LoadScene yaml %w", err)
	}
	return &Scene{cfg: cfg}, nil
}

// Build constructs a world3.World from the scene manifest and returns it
// along with a lookup from each body's configured id to its handle, so
// callers (examples, tests) can refer back to named bodies.
func (s *Scene) Build() (*world3.World, map[string]body3.Handle, error) {
	gravity, err := vec3(s.cfg.Gravity, lin3.V3{})
	if err != nil {
		return nil, nil, fmt.Errorf("config:Build gravity %w", err)
	}
	w := world3.NewWorld(gravity, nil)
	if s.cfg.SolverIterations > 0 {
		w.SetSolverIterations(s.cfg.SolverIterations)
	}

	handles := map[string]body3.Handle{}
	rigids := map[string]*body3.RigidBody{}
	for _, bc := range s.cfg.Bodies {
		rb, err := buildBody(bc)
		if err != nil {
			return nil, nil, fmt.Errorf("config:Build body %q %w", bc.ID, err)
		}
		h := w.AddBody(rb)
		if bc.ID != "" {
			handles[bc.ID] = h
			rigids[bc.ID] = rb
		}
	}

	for _, jc := range s.cfg.Joints {
		if err := buildJoint(w, rigids, jc); err != nil {
			return nil, nil, fmt.Errorf("config:Build joint %q %w", jc.ID, err)
		}
	}

	return w, handles, nil
}

func buildBody(bc bodyConfig) (*body3.RigidBody, error) {
	shape, err := buildShape(bc.Shape)
	if err != nil {
		return nil, err
	}
	mobility, ok := mobilityKinds[bc.Mobility]
	if !ok {
		if bc.Mobility == "" {
			mobility = body3.Dynamic
		} else {
			return nil, fmt.Errorf("config:unsupported mobility %s", bc.Mobility)
		}
	}

	rb := body3.NewRigidBody(shape, bc.Density, mobility, bc.Restitution, bc.Friction)

	if loc, err := vec3(bc.Position, lin3.V3{}); err != nil {
		return nil, err
	} else if len(bc.Position) > 0 {
		rb.SetPosition(&loc)
	}
	if len(bc.Orientation) > 0 {
		q, err := quat(bc.Orientation)
		if err != nil {
			return nil, err
		}
		rb.SetOrientation(&q)
	}
	if len(bc.LinearVelocity) > 0 {
		v, err := vec3(bc.LinearVelocity, lin3.V3{})
		if err != nil {
			return nil, err
		}
		rb.SetLinearVelocity(&v)
	}
	if len(bc.AngularVelocity) > 0 {
		v, err := vec3(bc.AngularVelocity, lin3.V3{})
		if err != nil {
			return nil, err
		}
		rb.SetAngularVelocity(&v)
	}
	if bc.CCDMotionThreshold > 0 {
		rb.SetCCD(bc.CCDMotionThreshold, bc.CCDSweepRadius)
	}
	if bc.CanDeactivate != nil {
		rb.SetCanDeactivate(*bc.CanDeactivate)
	}
	if bc.DeactivationThreshold > 0 {
		rb.SetDeactivationThreshold(bc.DeactivationThreshold)
	}
	return rb, nil
}

func buildShape(sc shapeConfig) (geom3.Shape, error) {
	switch sc.Type {
	case "plane":
		n, err := vec3(sc.Normal, lin3.V3{Y: 1})
		if err != nil {
			return nil, err
		}
		n.Unit()
		return geom3.Plane{Normal: n, Offset: sc.Offset}, nil
	case "ball":
		return geom3.Ball{Radius: sc.Radius}, nil
	case "box":
		half, err := vec3(sc.Half, lin3.V3{X: 0.5, Y: 0.5, Z: 0.5})
		if err != nil {
			return nil, err
		}
		return geom3.Box{Half: half}, nil
	default:
		return nil, fmt.Errorf("config:unsupported shape type %s", sc.Type)
	}
}

func buildJoint(w *world3.World, rigids map[string]*body3.RigidBody, jc jointConfig) error {
	a, err := buildAnchor(rigids, jc.BodyA, jc.AnchorA, jc.RotA)
	if err != nil {
		return err
	}
	b, err := buildAnchor(rigids, jc.BodyB, jc.AnchorB, jc.RotB)
	if err != nil {
		return err
	}
	switch jc.Type {
	case "ball":
		w.Joints().AddBallInSocket(&joint3.BallInSocket{ID: jc.ID, A: a, B: b})
	case "fixed":
		w.Joints().AddFixed(&joint3.Fixed{ID: jc.ID, A: a, B: b})
	default:
		return fmt.Errorf("config:unsupported joint type %s", jc.Type)
	}
	return nil
}

func buildAnchor(rigids map[string]*body3.RigidBody, bodyID string, point, rot []float64) (joint3.Anchor, error) {
	var body *body3.RigidBody
	if bodyID != "" && bodyID != "world" {
		var ok bool
		body, ok = rigids[bodyID]
		if !ok {
			return joint3.Anchor{}, fmt.Errorf("config:unknown body %s", bodyID)
		}
	}
	p, err := vec3(point, lin3.V3{})
	if err != nil {
		return joint3.Anchor{}, err
	}
	q := lin3.Q{W: 1}
	if len(rot) > 0 {
		q, err = quat(rot)
		if err != nil {
			return joint3.Anchor{}, err
		}
	}
	return joint3.Anchor{Body: body, Point: p, Rot: q}, nil
}

func vec3(v []float64, fallback lin3.V3) (lin3.V3, error) {
	switch len(v) {
	case 0:
		return fallback, nil
	case 3:
		return lin3.V3{X: v[0], Y: v[1], Z: v[2]}, nil
	default:
		return lin3.V3{}, fmt.Errorf("expected 3 components, got %d", len(v))
	}
}

func quat(v []float64) (lin3.Q, error) {
	if len(v) != 4 {
		return lin3.Q{}, fmt.Errorf("expected 4 components (x,y,z,w), got %d", len(v))
	}
	return lin3.Q{X: v[0], Y: v[1], Z: v[2], W: v[3]}, nil
}

// sceneConfig mirrors the yaml scene manifest shape. Kept string-based
// (mobility, shape type, joint type) so the manifest stays readable, the
// same tradeoff gazed-vu's shaderConfig makes for shader descriptions.
type sceneConfig struct {
	Gravity          []float64    `yaml:"gravity"`
	SolverIterations int          `yaml:"solver_iterations"`
	Bodies           []bodyConfig `yaml:"bodies"`
	Joints           []jointConfig `yaml:"joints"`
}

type bodyConfig struct {
	ID                     string      `yaml:"id"`
	Shape                  shapeConfig `yaml:"shape"`
	Mobility               string      `yaml:"mobility"` // "dynamic" or "static"
	Density                float64     `yaml:"density"`
	Restitution            float64     `yaml:"restitution"`
	Friction               float64     `yaml:"friction"`
	Position               []float64   `yaml:"position"`
	Orientation            []float64   `yaml:"orientation"` // x,y,z,w
	LinearVelocity         []float64   `yaml:"linear_velocity"`
	AngularVelocity        []float64   `yaml:"angular_velocity"`
	CCDMotionThreshold     float64     `yaml:"ccd_motion_threshold"`
	CCDSweepRadius         float64     `yaml:"ccd_sweep_radius"`
	CanDeactivate          *bool       `yaml:"can_deactivate"`
	DeactivationThreshold  float64     `yaml:"deactivation_threshold"`
}

type shapeConfig struct {
	Type   string    `yaml:"type"` // "plane", "ball", or "box"
	Normal []float64 `yaml:"normal"`
	Offset float64   `yaml:"offset"`
	Radius float64   `yaml:"radius"`
	Half   []float64 `yaml:"half"`
}

type jointConfig struct {
	Type    string    `yaml:"type"` // "ball" or "fixed"
	ID      string    `yaml:"id"`
	BodyA   string    `yaml:"body_a"` // "world" or a body id
	BodyB   string    `yaml:"body_b"`
	AnchorA []float64 `yaml:"anchor_a"`
	AnchorB []float64 `yaml:"anchor_b"`
	RotA    []float64 `yaml:"rot_a"`
	RotB    []float64 `yaml:"rot_b"`
}
