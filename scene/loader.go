package scene

import (
	"context"
	"fmt"
)

// StaticLoader serves prebuilt objects keyed by path, each Load returns a fresh copy
// Used by the terminal host and tests in place of a model loader
type StaticLoader struct {
	Objects map[string]*Object
}

// Load implements Loader
func (l *StaticLoader) Load(ctx context.Context, path string) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	obj, ok := l.Objects[path]
	if !ok {
		return nil, fmt.Errorf("no model at %q", path)
	}
	return obj.Clone(), nil
}
