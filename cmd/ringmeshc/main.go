// main.go: C ABI surface for embedding ringmesh in non-Go processes
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

// Package main builds a C shared library (-buildmode=c-shared) exposing
// the registry and byte-topic operations over a stable C ABI. Opaque
// handles are returned as uintptr_t, boxing a runtime/cgo.Handle; callers
// must release every handle they receive via the matching *_free function.
package main

/*
#include <stddef.h>
#include <stdint.h>
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"

	"github.com/agilira/ringmesh"
)

// byteTopicHandle is the value boxed behind a byte-topic handle exported
// to C.
type byteTopicHandle struct {
	topic *ringmesh.ByteTopic
}

// typedTopicHandle additionally fixes the expected payload size, since
// typed topics over the C ABI are byte topics with a size check in this
// wrapper rather than a compile-time element type.
type typedTopicHandle struct {
	topic   *ringmesh.ByteTopic
	msgSize int
}

//export ringmesh_registry_new
func ringmesh_registry_new() C.uintptr_t {
	return C.uintptr_t(cgo.NewHandle(ringmesh.NewRegistry()))
}

//export ringmesh_registry_free
func ringmesh_registry_free(reg C.uintptr_t) {
	if reg == 0 {
		return
	}
	cgo.Handle(reg).Delete()
}

//export ringmesh_registry_get_byte_topic
func ringmesh_registry_get_byte_topic(reg C.uintptr_t, name *C.char, capacity C.size_t) C.uintptr_t {
	if reg == 0 || name == nil {
		return 0
	}
	registry := cgo.Handle(reg).Value().(*ringmesh.Registry)
	topic, err := registry.GetOrCreateByteTopic(C.GoString(name), int(capacity))
	if err != nil {
		return 0
	}
	return C.uintptr_t(cgo.NewHandle(&byteTopicHandle{topic: topic}))
}

//export ringmesh_registry_get_typed_topic
func ringmesh_registry_get_typed_topic(reg C.uintptr_t, name *C.char, capacity C.size_t, msgSize C.size_t) C.uintptr_t {
	if reg == 0 || name == nil {
		return 0
	}
	registry := cgo.Handle(reg).Value().(*ringmesh.Registry)
	topic, err := registry.GetOrCreateByteTopic(C.GoString(name), int(capacity))
	if err != nil {
		return 0
	}
	return C.uintptr_t(cgo.NewHandle(&typedTopicHandle{topic: topic, msgSize: int(msgSize)}))
}

//export ringmesh_byte_topic_free
func ringmesh_byte_topic_free(topic C.uintptr_t) {
	if topic == 0 {
		return
	}
	cgo.Handle(topic).Delete()
}

//export ringmesh_byte_topic_publish
func ringmesh_byte_topic_publish(topic C.uintptr_t, data *C.uint8_t, length C.size_t) C.uint64_t {
	if topic == 0 || data == nil {
		return 0
	}
	h := cgo.Handle(topic).Value().(*byteTopicHandle)
	b := C.GoBytes(unsafe.Pointer(data), C.int(length))
	epoch, ok := h.topic.Publish(b)
	if !ok {
		return 0
	}
	return C.uint64_t(epoch)
}

//export ringmesh_byte_topic_try_receive
func ringmesh_byte_topic_try_receive(topic C.uintptr_t, outData *C.uint8_t, outLen *C.size_t, maxLen C.size_t) C.int32_t {
	if topic == 0 || outData == nil || outLen == nil {
		return -1
	}
	h := cgo.Handle(topic).Value().(*byteTopicHandle)
	data, _, ok := h.topic.TryReceive()
	if !ok {
		return 0
	}
	if C.size_t(len(data)) > maxLen {
		return -2
	}
	copyToC(outData, data)
	*outLen = C.size_t(len(data))
	return 1
}

//export ringmesh_byte_topic_peek_latest
func ringmesh_byte_topic_peek_latest(topic C.uintptr_t, outData *C.uint8_t, outLen *C.size_t, outEpoch *C.uint64_t, maxLen C.size_t) C.int32_t {
	if topic == 0 || outData == nil || outLen == nil {
		return -1
	}
	h := cgo.Handle(topic).Value().(*byteTopicHandle)
	data, epoch, ok := h.topic.PeekLatest()
	if !ok {
		return 0
	}
	if C.size_t(len(data)) > maxLen {
		return -2
	}
	copyToC(outData, data)
	*outLen = C.size_t(len(data))
	if outEpoch != nil {
		*outEpoch = C.uint64_t(epoch)
	}
	return 1
}

//export ringmesh_byte_topic_len
func ringmesh_byte_topic_len(topic C.uintptr_t) C.size_t {
	if topic == 0 {
		return 0
	}
	h := cgo.Handle(topic).Value().(*byteTopicHandle)
	return C.size_t(h.topic.Len())
}

//export ringmesh_byte_topic_is_empty
func ringmesh_byte_topic_is_empty(topic C.uintptr_t) C.int {
	if topic == 0 {
		return 1
	}
	h := cgo.Handle(topic).Value().(*byteTopicHandle)
	if h.topic.Len() == 0 {
		return 1
	}
	return 0
}

//export ringmesh_byte_topic_latest_epoch
func ringmesh_byte_topic_latest_epoch(topic C.uintptr_t) C.uint64_t {
	if topic == 0 {
		return 0
	}
	h := cgo.Handle(topic).Value().(*byteTopicHandle)
	return C.uint64_t(h.topic.LatestEpoch())
}

//export ringmesh_typed_topic_free
func ringmesh_typed_topic_free(topic C.uintptr_t) {
	if topic == 0 {
		return
	}
	cgo.Handle(topic).Delete()
}

//export ringmesh_typed_topic_publish
func ringmesh_typed_topic_publish(topic C.uintptr_t, data *C.uint8_t) C.uint64_t {
	if topic == 0 || data == nil {
		return 0
	}
	h := cgo.Handle(topic).Value().(*typedTopicHandle)
	b := C.GoBytes(unsafe.Pointer(data), C.int(h.msgSize))
	epoch, ok := h.topic.Publish(b)
	if !ok {
		return 0
	}
	return C.uint64_t(epoch)
}

//export ringmesh_typed_topic_try_receive
func ringmesh_typed_topic_try_receive(topic C.uintptr_t, outData *C.uint8_t) C.int32_t {
	if topic == 0 || outData == nil {
		return -1
	}
	h := cgo.Handle(topic).Value().(*typedTopicHandle)
	data, _, ok := h.topic.TryReceive()
	if !ok {
		return 0
	}
	if len(data) != h.msgSize {
		return -2
	}
	copyToC(outData, data)
	return 1
}

//export ringmesh_typed_topic_peek_latest
func ringmesh_typed_topic_peek_latest(topic C.uintptr_t, outData *C.uint8_t, outEpoch *C.uint64_t) C.int32_t {
	if topic == 0 || outData == nil {
		return -1
	}
	h := cgo.Handle(topic).Value().(*typedTopicHandle)
	data, epoch, ok := h.topic.PeekLatest()
	if !ok {
		return 0
	}
	if len(data) != h.msgSize {
		return -2
	}
	copyToC(outData, data)
	if outEpoch != nil {
		*outEpoch = C.uint64_t(epoch)
	}
	return 1
}

func copyToC(dst *C.uint8_t, src []byte) {
	if len(src) == 0 {
		return
	}
	d := unsafe.Slice((*byte)(unsafe.Pointer(dst)), len(src))
	copy(d, src)
}

func main() {}
