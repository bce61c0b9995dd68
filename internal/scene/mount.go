package scene

import (
	"pixels/internal/chunk"
	"pixels/internal/plane"
	"pixels/internal/stream"
)

// apply moves the mounted set to next. Chunks leaving the set are unmounted first so their
// textures become idle before new ones are requested.
func (s *Scene) apply(next []chunk.Key) {
	add, remove := stream.Diff(s.visible, next)
	for _, k := range remove {
		s.unmount(k)
	}
	for _, k := range add {
		s.mountChunk(k)
	}
	s.visible = next
	if len(add) > 0 || len(remove) > 0 {
		s.log.Debug("chunks streamed", "center", s.ctrl.Grid().Key().String(), "mounted", len(add), "unmounted", len(remove))
	}
}

func (s *Scene) mountChunk(k chunk.Key) {
	if _, ok := s.mounted[k]; ok {
		return
	}
	m := &mount{key: k}
	s.mounted[k] = m
	m.cancel = s.idle.Schedule(func() { s.populate(m) })
}

// populate creates the planes of m and takes a reference on each plane's media.
func (s *Scene) populate(m *mount) {
	m.populated = true
	s.dirty = true
	n := len(s.items)
	if n == 0 {
		return
	}
	for _, d := range s.layouts.Planes(m.key) {
		item := s.items[d.Media(n)]
		h := s.media.Get(item, nil)
		s.media.Acquire(h)
		m.handles = append(m.handles, h)
		m.planes = append(m.planes, plane.New(d, item, h))
	}
}

func (s *Scene) unmount(k chunk.Key) {
	m, ok := s.mounted[k]
	if !ok {
		return
	}
	delete(s.mounted, k)
	m.cancel()
	for _, h := range m.handles {
		s.media.Release(h)
	}
	if m.populated {
		s.dirty = true
	}
}

// rebuildLive refreshes the plane list in visible-set order (nearest chunks first).
func (s *Scene) rebuildLive() {
	if !s.dirty {
		return
	}
	s.dirty = false
	s.live = s.live[:0]
	for _, k := range s.visible {
		if m, ok := s.mounted[k]; ok {
			s.live = append(s.live, m.planes...)
		}
	}
}
