package runner

import (
	"github.com/vovakirdan/season-runner/internal/core"
	"github.com/vovakirdan/season-runner/internal/track"
)

// Object is a scene entry created by the track.
type Object struct {
	Handle  track.Handle
	Kind    track.Occupancy // Empty for segments
	Variant string
	Palette int
	At      core.Transform
	Parent  track.Handle
}

// Scene is an in-memory world. It records instantiated segments and content,
// forgets them when their segment is released and keeps the current
// environment.
type Scene struct {
	next     track.Handle
	objects  map[track.Handle]Object
	children map[track.Handle][]track.Handle
	env      track.Environment
	envSwaps int
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{
		objects:  make(map[track.Handle]Object),
		children: make(map[track.Handle][]track.Handle),
	}
}

func (s *Scene) InstantiateSegment(variant track.SegmentVariant, palette *track.Palette, at core.Transform) track.Handle {
	s.next++
	obj := Object{Handle: s.next, Variant: variant.Name, At: at}
	if palette != nil {
		obj.Palette = palette.Index
	}
	s.objects[s.next] = obj
	return s.next
}

func (s *Scene) InstantiateContent(kind track.Occupancy, variant string, at core.Transform, parent track.Handle) track.Handle {
	s.next++
	s.objects[s.next] = Object{Handle: s.next, Kind: kind, Variant: variant, At: at, Parent: parent}
	s.children[parent] = append(s.children[parent], s.next)
	return s.next
}

// ReleaseSegment removes a segment and its content.
func (s *Scene) ReleaseSegment(h track.Handle) {
	for _, c := range s.children[h] {
		delete(s.objects, c)
	}
	delete(s.children, h)
	delete(s.objects, h)
}

// SetEnvironment replaces the ambient environment.
func (s *Scene) SetEnvironment(env track.Environment) {
	s.env = env
	s.envSwaps++
}

// Environment returns the current ambient environment.
func (s *Scene) Environment() track.Environment {
	return s.env
}

// EnvironmentSwaps returns how many times the environment was set.
func (s *Scene) EnvironmentSwaps() int {
	return s.envSwaps
}

// Object returns the object with handle h.
func (s *Scene) Object(h track.Handle) (Object, bool) {
	obj, ok := s.objects[h]
	return obj, ok
}

// Len returns the number of live objects.
func (s *Scene) Len() int {
	return len(s.objects)
}
