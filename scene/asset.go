package scene

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
)

// ErrNotLoaded is returned by consumers that touch an asset before it resolves
var ErrNotLoaded = errors.New("asset not loaded")

// Loader is the renderer's asynchronous model loader
type Loader interface {
	Load(ctx context.Context, path string) (*Object, error)
}

// Asset is a future for a loaded object
// Consumers must handle the unresolved state; Get never blocks
type Asset struct {
	ID   string
	Path string

	done chan struct{}
	once sync.Once

	obj *Object
	err error
}

func newAsset(id, path string) *Asset {
	return &Asset{
		ID:   id,
		Path: path,
		done: make(chan struct{}),
	}
}

// LoadAsset starts loading in the background and returns the pending handle
func LoadAsset(ctx context.Context, loader Loader, id, path string) *Asset {
	a := newAsset(id, path)
	go func() {
		obj, err := loader.Load(ctx, path)
		if err == nil && obj == nil {
			err = fmt.Errorf("loader returned no object for %q", path)
		}
		if err != nil {
			log.Printf("[scene] asset %s (%s) failed: %v", id, path, err)
			a.resolve(nil, err)
			return
		}
		if obj.ID == "" {
			obj.ID = id
		}
		a.resolve(obj, nil)
	}()
	return a
}

// ResolvedAsset wraps an already available object
func ResolvedAsset(obj *Object) *Asset {
	a := newAsset(obj.ID, "")
	a.resolve(obj, nil)
	return a
}

// FailedAsset returns a handle that never resolves to an object
func FailedAsset(id string, err error) *Asset {
	a := newAsset(id, "")
	a.resolve(nil, err)
	return a
}

// PendingAsset returns a handle that has not resolved yet
func PendingAsset(id string) *Asset {
	return newAsset(id, "")
}

func (a *Asset) resolve(obj *Object, err error) {
	a.once.Do(func() {
		a.obj = obj
		a.err = err
		close(a.done)
	})
}

// Get returns the object if resolved successfully, never blocks
// Nil receiver is treated as unresolved
func (a *Asset) Get() (*Object, bool) {
	if a == nil {
		return nil, false
	}
	select {
	case <-a.done:
		return a.obj, a.obj != nil
	default:
		return nil, false
	}
}

// Err returns the load error, ErrNotLoaded while pending
func (a *Asset) Err() error {
	if a == nil {
		return ErrNotLoaded
	}
	select {
	case <-a.done:
		return a.err
	default:
		return ErrNotLoaded
	}
}

// Done is closed once the asset resolves or fails
func (a *Asset) Done() <-chan struct{} {
	return a.done
}

// Wait blocks until resolution or context cancellation
func (a *Asset) Wait(ctx context.Context) (*Object, error) {
	select {
	case <-a.done:
		if a.err != nil {
			return nil, a.err
		}
		return a.obj, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
