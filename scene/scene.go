package scene

import "sort"

// Scene groups the camera and the asset handles the narrative references by id
type Scene struct {
	Camera *Camera
	assets map[string]*Asset
}

// New creates an empty scene around camera
func New(camera *Camera) *Scene {
	return &Scene{
		Camera: camera,
		assets: make(map[string]*Asset),
	}
}

// Add registers or replaces an asset handle
func (s *Scene) Add(a *Asset) {
	s.assets[a.ID] = a
}

// Asset returns the handle for id, nil if unknown
func (s *Scene) Asset(id string) *Asset {
	return s.assets[id]
}

// Object returns the resolved object for id
func (s *Scene) Object(id string) (*Object, bool) {
	return s.assets[id].Get()
}

// IDs returns registered asset ids in sorted order
func (s *Scene) IDs() []string {
	ids := make([]string, 0, len(s.assets))
	for id := range s.assets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
