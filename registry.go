// registry.go: process-wide topic catalog
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package ringmesh

import (
	"reflect"
	"sync"

	"go.uber.org/zap"
)

// typedEntry is a type-erased handle to a *Topic[T], tagged with T's
// reflect.Type so a later lookup with a mismatched element type can be
// rejected instead of silently replacing the buffer.
type typedEntry struct {
	elemType reflect.Type
	topic    any
}

// Registry is a process-wide, name-keyed catalog of topics. Two namespaces
// are maintained independently — typed and byte — so the same name may
// exist in both. Entries are created on first lookup and are never
// removed; repeat lookups of the same (name, kind) always return a handle
// to the same underlying buffer, with the capacity argument ignored after
// first creation.
//
// All methods are safe for concurrent use. Creation is serialized with an
// RWMutex; the cost is paid only when a name is seen for the first time.
type Registry struct {
	mu         sync.RWMutex
	typed      map[string]typedEntry
	byteTopics map[string]*ByteTopic
	logger     *zap.Logger
}

// RegistryOption configures a Registry at construction time.
type RegistryOption func(*Registry)

// WithLogger attaches a structured logger the registry uses to report
// rejected type-mismatched lookups. A nil logger (the default) disables
// this reporting entirely.
func WithLogger(logger *zap.Logger) RegistryOption {
	return func(r *Registry) { r.logger = logger }
}

// NewRegistry constructs an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		typed:      make(map[string]typedEntry),
		byteTopics: make(map[string]*ByteTopic),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetOrCreateTopic returns the named typed topic, creating it with the
// given capacity if this is the first lookup for that name. Subsequent
// calls ignore the capacity argument and return the existing buffer.
//
// If name already names a typed topic whose element type differs from T,
// the lookup is rejected with ErrTopicTypeMismatch rather than replacing
// the existing buffer.
func GetOrCreateTopic[T any](r *Registry, name string, capacity int) (*Topic[T], error) {
	wantType := reflect.TypeOf((*T)(nil)).Elem()

	r.mu.RLock()
	entry, ok := r.typed[name]
	r.mu.RUnlock()
	if ok {
		return coerceTypedEntry[T](r, name, entry, wantType)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.typed[name]; ok {
		return coerceTypedEntry[T](r, name, entry, wantType)
	}

	buf, err := NewRB[T](capacity)
	if err != nil {
		return nil, err
	}
	topic := NewTopic[T](name, buf)
	r.typed[name] = typedEntry{elemType: wantType, topic: topic}
	return topic, nil
}

func coerceTypedEntry[T any](r *Registry, name string, entry typedEntry, wantType reflect.Type) (*Topic[T], error) {
	if entry.elemType != wantType {
		if r.logger != nil {
			r.logger.Warn("rejected typed topic lookup with mismatched element type",
				zap.String("topic", name),
				zap.String("existing_type", entry.elemType.String()),
				zap.String("requested_type", wantType.String()),
			)
		}
		return nil, ErrTopicTypeMismatch
	}
	return entry.topic.(*Topic[T]), nil
}

// GetOrCreateByteTopic returns the named byte topic, creating it with the
// given capacity if this is the first lookup for that name.
func (r *Registry) GetOrCreateByteTopic(name string, capacity int) (*ByteTopic, error) {
	r.mu.RLock()
	topic, ok := r.byteTopics[name]
	r.mu.RUnlock()
	if ok {
		return topic, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if topic, ok := r.byteTopics[name]; ok {
		return topic, nil
	}

	buf, err := NewRBB(capacity)
	if err != nil {
		return nil, err
	}
	topic = NewByteTopic(name, buf)
	r.byteTopics[name] = topic
	return topic, nil
}

// TopicCount returns the number of distinct entries across both
// namespaces.
func (r *Registry) TopicCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.typed) + len(r.byteTopics)
}

// ByteTopicNames returns the names of every byte topic currently
// registered, in no particular order.
func (r *Registry) ByteTopicNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.byteTopics))
	for name := range r.byteTopics {
		names = append(names, name)
	}
	return names
}

// TypedTopicNames returns the names of every typed topic currently
// registered, in no particular order.
func (r *Registry) TypedTopicNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.typed))
	for name := range r.typed {
		names = append(names, name)
	}
	return names
}

// ByteTopic returns the named byte topic if it has already been created,
// without creating it.
func (r *Registry) ByteTopic(name string) (*ByteTopic, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byteTopics[name]
	return t, ok
}
