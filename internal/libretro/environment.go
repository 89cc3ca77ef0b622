package libretro

// VariableSchema is the payload for EnvSetVariables: an ordered list of
// (key, "Display Name; default|alt1|alt2") strings the core provides the
// same way libretro's struct retro_variable array works.
type VariableSchema struct {
	Key          string
	DisplayValue string // "Display Name; default|alt1|alt2"
}

// GeometryUpdate is the payload for EnvSetGeometry.
type GeometryUpdate struct {
	Width, Height int
	AspectRatio   float64
}

// MemoryMapUpdate is the payload for EnvSetMemoryMaps.
type MemoryMapUpdate struct {
	Descriptors []MemoryDescriptor
}

// environment is the EnvironmentFunc bound to the core at Load time. It
// implements spec §4.F's minimum command set; every unhandled command
// returns false so "core must continue" holds.
func (h *Host) environment(cmd uint, data any) bool {
	switch cmd {
	case EnvSetPixelFormat:
		pf, ok := data.(PixelFormat)
		if !ok {
			return false
		}
		h.pixelFormat = pf
		return true

	case EnvGetSystemDirectory:
		ptr, ok := data.(*string)
		if !ok {
			return false
		}
		*ptr = h.systemDir
		return true

	case EnvGetSaveDirectory:
		ptr, ok := data.(*string)
		if !ok {
			return false
		}
		*ptr = h.saveDir
		return true

	case EnvSetVariables:
		schema, ok := data.([]VariableSchema)
		if !ok {
			return false
		}
		h.setVariables(schema)
		return true

	case EnvGetVariable:
		kv, ok := data.(*struct {
			Key   string
			Value string
		})
		if !ok {
			return false
		}
		for _, o := range h.options {
			if o.Key == kv.Key {
				kv.Value = o.Value()
				return true
			}
		}
		return false

	case EnvGetVariableUpdate:
		ptr, ok := data.(*bool)
		if !ok {
			return false
		}
		*ptr = h.optionsDirty
		h.optionsDirty = false
		return true

	case EnvSetInputDescriptors:
		// Accepted but not consumed: the frontend's pad abstraction uses a
		// fixed abstract button set (spec §4.A), not per-core descriptor text.
		return true

	case EnvSetControllerInfo:
		// Accepted but not consumed, for the same reason as
		// EnvSetInputDescriptors: port 0 always presents as a joypad (spec
		// §4.A's single fixed abstract button set), so there is no
		// alternate controller type for the frontend to switch to.
		return true

	case EnvSetGeometry:
		geo, ok := data.(GeometryUpdate)
		if !ok {
			return false
		}
		h.avInfo.Geometry.BaseWidth = geo.Width
		h.avInfo.Geometry.BaseHeight = geo.Height
		h.avInfo.Geometry.AspectRatio = geo.AspectRatio
		return true

	case EnvGetLanguage:
		ptr, ok := data.(*int)
		if !ok {
			return false
		}
		*ptr = 0 // RETRO_LANGUAGE_ENGLISH
		return true

	case EnvSetMemoryMaps:
		mm, ok := data.(MemoryMapUpdate)
		if !ok {
			return false
		}
		h.memDescs = mm.Descriptors
		return true

	case EnvSetRumbleInterface:
		// May be a no-op per spec §4.F.
		return true

	case EnvSetPerformanceCounter:
		// May be a no-op per spec §4.F.
		return true

	case EnvGetLogInterface:
		ptr, ok := data.(*func(level int, fmt string, args ...any))
		if !ok {
			return false
		}
		*ptr = func(level int, format string, args ...any) {
			h.sinks.Log(format, args...)
		}
		return true

	case EnvSetSupportNoGame:
		support, ok := data.(bool)
		if !ok {
			return false
		}
		h.supportNoGame = support
		return true

	case EnvShutdown:
		if h.sinks.Shutdown != nil {
			h.sinks.Shutdown()
		}
		return true

	default:
		return false
	}
}

// setVariables builds the host's Option mirror from the core's schema
// (spec §3 "Option") the first time SET_VARIABLES is called, preserving
// any already-applied selection/lock so a later re-declaration (some
// cores call this more than once) doesn't clobber user choices.
func (h *Host) setVariables(schema []VariableSchema) {
	prior := make(map[string]Option, len(h.options))
	for _, o := range h.options {
		prior[o.Key] = o
	}

	opts := make([]Option, 0, len(schema))
	for _, v := range schema {
		display, values := parseVariable(v.DisplayValue)
		display, needsRestart := stripRestartMarker(display)
		opt := Option{
			Key:             v.Key,
			DisplayName:     display,
			Values:          values,
			Selected:        0,
			Default:         0,
			RequiresRestart: needsRestart,
		}
		if p, ok := prior[v.Key]; ok {
			opt.Selected = p.Selected
			opt.Locked = p.Locked
			opt.Dirty = p.Dirty
		}
		opts = append(opts, opt)
	}
	h.options = opts
}

// parseVariable splits "Display Name; default|alt1|alt2" into the
// display name and the ordered value list, matching the format the
// teacher's libretro core binding builds (eblitui's optValRegion string
// construction in reverse).
func parseVariable(s string) (display string, values []string) {
	sep := -1
	for i, r := range s {
		if r == ';' {
			sep = i
			break
		}
	}
	if sep < 0 {
		return s, nil
	}
	display = trimSpace(s[:sep])
	rest := trimSpace(s[sep+1:])
	values = splitPipe(rest)
	return display, values
}

// restartMarker is the suffix some cores append to a variable's display
// name to flag that changing it only takes effect after a reload, e.g.
// "Internal Resolution (Restart Required)". There is no dedicated field
// for this in the libretro variable wire format, so the frontend grounds
// the convention on the marker text the way other libretro frontends do.
const restartMarker = "(Restart Required)"

func stripRestartMarker(display string) (string, bool) {
	if len(display) < len(restartMarker) {
		return display, false
	}
	tail := display[len(display)-len(restartMarker):]
	if tail != restartMarker {
		return display, false
	}
	return trimSpace(display[:len(display)-len(restartMarker)]), true
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && isSpace(s[start]) {
		start++
	}
	for end > start && isSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' }

func splitPipe(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '|' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

// videoRefresh is the VideoRefreshFunc bound to the core (spec §4.F
// "Video refresh"). A nil data slice signals a duplicate frame; the
// presenter is responsible for reusing the previous frame in that case,
// so the host simply skips invoking the sink.
func (h *Host) videoRefresh(data []byte, width, height, pitch int) {
	if data == nil {
		return
	}
	if h.sinks.Video != nil {
		h.sinks.Video(VideoFrame{
			Data:   data,
			Width:  width,
			Height: height,
			Pitch:  pitch,
			Format: h.pixelFormat,
		})
	}
}

// audioSample is the AudioSampleFunc bound to the core (spec §4.F "Audio
// sample" — pushes a single stereo frame through to the ring via Sinks.Audio).
func (h *Host) audioSample(left, right int16) {
	if h.sinks.Audio != nil {
		h.sinks.Audio([]int16{left, right})
	}
}

// audioSampleBatch is the AudioSampleBatchFunc bound to the core (spec
// §4.F "Audio sample batch").
func (h *Host) audioSampleBatch(frames []int16) uint {
	if h.sinks.Audio != nil {
		h.sinks.Audio(frames)
	}
	return uint(len(frames) / 2)
}
