// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gazed/nphys/body3"
)

const sceneYAML = `
gravity: [0, -9.81, 0]
solver_iterations: 4
bodies:
  - id: ground
    mobility: static
    shape: {type: box, half: [100, 1, 100]}
  - id: ball
    density: 1.0
    restitution: 0.3
    friction: 0.6
    position: [0, 5, 0]
    shape: {type: ball, radius: 0.5}
joints:
  - id: pin
    type: ball
    body_a: world
    body_b: ball
    anchor_a: [0, 10, 0]
    anchor_b: [0, 0.5, 0]
`

func writeScene(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadSceneBuildsWorldAndHandles(t *testing.T) {
	path := writeScene(t, sceneYAML)
	scene, err := LoadScene(path)
	if err != nil {
		t.Fatalf("LoadScene: %v", err)
	}
	w, handles, err := scene.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := handles["ground"]; !ok {
		t.Fatalf("expected a handle for the ground body")
	}
	ballHandle, ok := handles["ball"]
	if !ok {
		t.Fatalf("expected a handle for the ball body")
	}
	ball := w.Body(ballHandle)
	if ball.Mobility != body3.Dynamic {
		t.Fatalf("ball mobility = %v, want Dynamic", ball.Mobility)
	}
	if ball.Xform.Loc.Y != 5 {
		t.Fatalf("ball position.Y = %v, want 5", ball.Xform.Loc.Y)
	}
}

func TestBuildRejectsUnknownShapeType(t *testing.T) {
	path := writeScene(t, `
bodies:
  - id: mystery
    shape: {type: cone}
`)
	scene, err := LoadScene(path)
	if err != nil {
		t.Fatalf("LoadScene: %v", err)
	}
	if _, _, err := scene.Build(); err == nil {
		t.Fatalf("expected an error for an unsupported shape type")
	}
}

func TestBuildRejectsUnknownJointBody(t *testing.T) {
	path := writeScene(t, `
bodies:
  - id: a
    shape: {type: ball, radius: 1}
joints:
  - type: ball
    body_a: a
    body_b: missing
`)
	scene, err := LoadScene(path)
	if err != nil {
		t.Fatalf("LoadScene: %v", err)
	}
	if _, _, err := scene.Build(); err == nil {
		t.Fatalf("expected an error for a joint referencing an unknown body")
	}
}
