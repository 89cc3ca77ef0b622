//go:build linux || darwin

package libretro

import "unsafe"

// cRetroVariable mirrors struct retro_variable { const char *key; const
// char *value; }.
type cRetroVariable struct {
	key   *byte
	value *byte
}

// cRetroMemoryDescriptor is a reduced mirror of struct
// retro_memory_descriptor sufficient for the host's bookkeeping (spec §3
// "memory descriptors"); exact flag/select/disable semantics are left to
// the core and not reinterpreted here.
type cRetroMemoryDescriptor struct {
	flags  uint64
	ptr    unsafe.Pointer
	offset uintptr
	start  unsafe.Pointer
	selct  uintptr
	disable uintptr
	length uintptr
	addrspace *byte
}

type cRetroMemoryMap struct {
	descriptors *cRetroMemoryDescriptor
	numDescriptors uint32
}

// dispatchEnvironment translates the raw C payload for cmd into the
// typed Go value Host.environment expects, keeping the ABI-facing code
// isolated from the host's pure-Go dispatch logic.
func (c *dynCore) dispatchEnvironment(cmd uint32, data unsafe.Pointer) bool {
	switch cmd {
	case EnvSetPixelFormat:
		if data == nil {
			return false
		}
		val := *(*uint32)(data)
		return c.env(uint(cmd), PixelFormat(val))

	case EnvGetSystemDirectory, EnvGetSaveDirectory:
		if data == nil {
			return false
		}
		var dir string
		ok := c.env(uint(cmd), &dir)
		if !ok || dir == "" {
			return false
		}
		buf := append([]byte(dir), 0)
		*(**byte)(data) = &buf[0]
		c.pin(dir, buf)
		return true

	case EnvSetVariables:
		if data == nil {
			return false
		}
		var schema []VariableSchema
		ptr := (*cRetroVariable)(data)
		for {
			if ptr.key == nil {
				break
			}
			schema = append(schema, VariableSchema{
				Key:          cStr(ptr.key),
				DisplayValue: cStr(ptr.value),
			})
			ptr = (*cRetroVariable)(unsafe.Add(unsafe.Pointer(ptr), unsafe.Sizeof(cRetroVariable{})))
		}
		return c.env(uint(cmd), schema)

	case EnvGetVariable:
		if data == nil {
			return false
		}
		v := (*cRetroVariable)(data)
		kv := &struct {
			Key   string
			Value string
		}{Key: cStr(v.key)}
		if !c.env(uint(cmd), kv) {
			return false
		}
		buf := append([]byte(kv.Value), 0)
		v.value = &buf[0]
		c.pin(kv.Key, buf)
		return true

	case EnvGetVariableUpdate:
		if data == nil {
			return false
		}
		var dirty bool
		if !c.env(uint(cmd), &dirty) {
			return false
		}
		*(*byte)(data) = boolByte(dirty)
		return true

	case EnvSetGeometry:
		if data == nil {
			return false
		}
		geo := (*cRetroGameGeometry)(data)
		return c.env(uint(cmd), GeometryUpdate{
			Width: int(geo.baseWidth), Height: int(geo.baseHeight),
			AspectRatio: float64(geo.aspectRatio),
		})

	case EnvGetLanguage:
		if data == nil {
			return false
		}
		var lang int
		if !c.env(uint(cmd), &lang) {
			return false
		}
		*(*uint32)(data) = uint32(lang)
		return true

	case EnvSetMemoryMaps:
		if data == nil {
			return false
		}
		mm := (*cRetroMemoryMap)(data)
		descs := make([]MemoryDescriptor, 0, mm.numDescriptors)
		base := mm.descriptors
		for i := uint32(0); i < mm.numDescriptors; i++ {
			d := (*cRetroMemoryDescriptor)(unsafe.Add(unsafe.Pointer(base), uintptr(i)*unsafe.Sizeof(cRetroMemoryDescriptor{})))
			name := ""
			if d.addrspace != nil {
				name = cStr(d.addrspace)
			}
			descs = append(descs, MemoryDescriptor{
				Flags: d.flags,
				Start: uint64(uintptr(d.start)),
				Len:   uint64(d.length),
				Name:  name,
			})
		}
		return c.env(uint(cmd), MemoryMapUpdate{Descriptors: descs})

	case EnvSetSupportNoGame:
		if data == nil {
			return false
		}
		return c.env(uint(cmd), *(*byte)(data) != 0)

	case EnvSetRumbleInterface, EnvSetPerformanceCounter, EnvSetInputDescriptors, EnvShutdown:
		return c.env(uint(cmd), nil)

	default:
		// Includes EnvGetLogInterface: wiring a variadic C printf-style
		// callback through purego is not attempted; the core falls back to
		// its own stderr logging, which spec §4.F explicitly allows
		// ("Unknown commands return false; core must continue").
		return false
	}
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// pin keeps short-lived C string buffers reachable for the lifetime of
// the core by stashing them in a map keyed by the logical key they
// represent, mirroring the teacher's ensureOptionStrings()/CString
// pattern of allocating once and holding a reference rather than
// relying on GC timing across the cgo/purego boundary.
func (c *dynCore) pin(key string, buf []byte) {
	if c.strPins == nil {
		c.strPins = make(map[string][]byte)
	}
	c.strPins[key] = buf
}
