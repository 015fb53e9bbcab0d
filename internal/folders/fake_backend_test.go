package folders

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"media-service/internal/storage"
)

// fakeBackend is an in-memory storage.Backend for registry and cascade
// tests. Keys can be marked as failing to simulate backend I/O errors, and
// every delete is recorded in order.
type fakeBackend struct {
	mu       sync.Mutex
	name     string
	objects  map[string]fakeObject
	failKeys map[string]bool
	deletes  []string
	now      time.Time
}

type fakeObject struct {
	size     int64
	modified time.Time
}

func newFakeBackend(name string) *fakeBackend {
	return &fakeBackend{
		name:     name,
		objects:  make(map[string]fakeObject),
		failKeys: make(map[string]bool),
		now:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// seed stores an object directly, advancing the fake clock so later seeds
// get later timestamps.
func (f *fakeBackend) seed(key string, size int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(time.Second)
	f.objects[key] = fakeObject{size: size, modified: f.now}
}

func (f *fakeBackend) failOn(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failKeys[key] = true
}

func (f *fakeBackend) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

func (f *fakeBackend) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

func (f *fakeBackend) Name() string {
	return f.name
}

func (f *fakeBackend) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	var size int64
	if body != nil {
		n, err := io.Copy(io.Discard, body)
		if err != nil {
			return "", err
		}
		size = n
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failKeys[key] {
		return "", fmt.Errorf("simulated put failure")
	}
	f.now = f.now.Add(time.Second)
	f.objects[key] = fakeObject{size: size, modified: f.now}
	return "fake://" + f.name + "/" + key, nil
}

func (f *fakeBackend) List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	keyPrefix := storage.ListPrefix(prefix)

	var keys []string
	for key := range f.objects {
		if strings.HasPrefix(key, keyPrefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	objects := make([]storage.ObjectInfo, 0, len(keys))
	for _, key := range keys {
		obj := f.objects[key]
		objects = append(objects, storage.ObjectInfo{
			Key:          key,
			URL:          "fake://" + f.name + "/" + key,
			Size:         obj.size,
			LastModified: obj.modified,
		})
	}
	return objects, nil
}

func (f *fakeBackend) DeleteOne(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failKeys[key] {
		return fmt.Errorf("simulated delete failure")
	}

	delete(f.objects, key)
	f.deletes = append(f.deletes, key)
	return nil
}

func (f *fakeBackend) DeleteByPrefix(ctx context.Context, prefix string) (*storage.PrefixDeleteResult, error) {
	objects, err := f.List(ctx, prefix)
	if err != nil {
		return nil, err
	}

	result := &storage.PrefixDeleteResult{}
	for _, obj := range objects {
		if err := f.DeleteOne(ctx, obj.Key); err != nil {
			result.Errors = append(result.Errors, &storage.KeyError{Key: obj.Key, Err: err})
			continue
		}
		result.Deleted++
	}
	return result, nil
}

func (f *fakeBackend) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return "fake://" + f.name + "/signed/" + key, nil
}
