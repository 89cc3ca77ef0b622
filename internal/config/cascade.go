package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Paths resolves the six cascade layer file locations for a given
// platform/device/system combination (spec §3 "Config layer": system,
// system-<device>, default, default-<device>, user(<rom>),
// user(<rom>-<device>)). The exact directory layout isn't pinned down
// by the specification beyond the one worked example in §9 ("base/GBA/
// default.cfg", "tg5040/GBA/default-brick.cfg"); this generalizes that
// example into Platform (the base/<platform> directory selector) and
// Device (the filename suffix), matching it exactly when
// Platform="tg5040" and Device="brick".
type Paths struct {
	SystemDir string // SYSTEM_PATH
	Platform  string // "" selects the platform-agnostic "base" directory
	Device    string // "" means no device-specific layer is consulted
	System    string // console/system short name, e.g. "GBA"
}

func (p Paths) platformDir() string {
	if p.Platform == "" {
		return "base"
	}
	return p.Platform
}

// layerSpec names one cascade layer and the file it loads from.
type layerSpec struct {
	name string
	path string
}

func (p Paths) layerSpecs(romPath string) []layerSpec {
	sysDir := filepath.Join(p.SystemDir, "base", p.System)
	devDir := filepath.Join(p.SystemDir, p.platformDir(), p.System)
	romDir := filepath.Dir(romPath)
	romBase := strings.TrimSuffix(filepath.Base(romPath), filepath.Ext(romPath))

	specs := []layerSpec{
		{"system", filepath.Join(sysDir, "system.cfg")},
	}
	if p.Device != "" {
		specs = append(specs, layerSpec{"system-" + p.Device, filepath.Join(devDir, "system-"+p.Device+".cfg")})
	}
	specs = append(specs, layerSpec{"default", filepath.Join(sysDir, "default.cfg")})
	if p.Device != "" {
		specs = append(specs, layerSpec{"default-" + p.Device, filepath.Join(devDir, "default-"+p.Device+".cfg")})
	}
	specs = append(specs, layerSpec{"user", filepath.Join(romDir, romBase+".cfg")})
	if p.Device != "" {
		specs = append(specs, layerSpec{"user-" + p.Device, filepath.Join(romDir, romBase+"-"+p.Device+".cfg")})
	}
	return specs
}

// Cascade is the fully loaded, ordered layer stack (lowest to highest
// priority).
type Cascade struct {
	layers []*Layer
	// userFrom marks the index in layers where user-writable layers
	// begin; layers before it are never touched by SaveUser.
	userFrom int
}

// Load reads every layer file named by paths for romPath. Missing files
// are treated as empty layers, not errors (spec doesn't require every
// tier to exist). Malformed lines are collected per layer and returned
// but never abort loading.
func Load(paths Paths, romPath string) (*Cascade, []*ParseError, error) {
	specs := paths.layerSpecs(romPath)
	c := &Cascade{}
	var allErrs []*ParseError

	for _, spec := range specs {
		if spec.name == "user" || strings.HasPrefix(spec.name, "user-") {
			if c.userFrom == 0 && len(c.layers) > 0 {
				c.userFrom = len(c.layers)
			}
		}
		f, err := os.Open(spec.path)
		if err != nil {
			if os.IsNotExist(err) {
				c.layers = append(c.layers, newLayer(spec.name))
				continue
			}
			return nil, nil, fmt.Errorf("config: open %s: %w", spec.path, err)
		}
		layer, errs := ParseLayer(spec.name, f)
		f.Close()
		allErrs = append(allErrs, errs...)
		c.layers = append(c.layers, layer)
	}
	if c.userFrom == 0 {
		c.userFrom = len(c.layers)
	}
	return c, allErrs, nil
}

// Effective resolves key by scanning layers lowest to highest priority
// (spec §9 invariant 3: "effective(key) equals the value in the
// highest-priority layer that defines it; lock bit equals OR of lock
// bits across defining layers").
func (c *Cascade) Effective(key string) (Entry, bool) {
	var result Entry
	found := false
	for _, l := range c.layers {
		if e, ok := l.Values[key]; ok {
			result.Value = e.Value
			result.Locked = result.Locked || e.Locked
			found = true
		}
	}
	return result, found
}

// Keys returns the union of keys defined across every layer.
func (c *Cascade) Keys() []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range c.layers {
		for _, k := range l.Keys {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	return out
}

// baselineBelowUser resolves key using only the layers below the user
// tier (system..default-device), the comparison point SaveUser uses to
// decide whether a key needs to be written out at all.
func (c *Cascade) baselineBelowUser(key string) (Entry, bool) {
	var result Entry
	found := false
	for _, l := range c.layers[:c.userFrom] {
		if e, ok := l.Values[key]; ok {
			result.Value = e.Value
			result.Locked = result.Locked || e.Locked
			found = true
		}
	}
	return result, found
}

// SaveUser persists resolved into the user layer(s), writing only keys
// whose value differs from what the layers below user would already
// resolve to, and skipping keys the baseline already locked (a locked
// option can't be user-overridden at all -- spec §4.B "preventing menu
// edits"). Each user-tier file is written atomically (write-temp, then
// rename).
func (c *Cascade) SaveUser(paths Paths, romPath string, resolved map[string]Entry) error {
	specs := paths.layerSpecs(romPath)
	userSpecs := specs[c.userFrom:]
	userLayers := c.layers[c.userFrom:]

	// The "user" (rom-wide) layer absorbs every differing key; the
	// "user-<device>" layer is reserved for keys a future per-device
	// editing flow targets explicitly. This implementation writes all
	// overrides into the first user layer, keeping whatever was already
	// present in any device-specific layer untouched.
	primary := userLayers[0]
	for key, want := range resolved {
		base, hadBase := c.baselineBelowUser(key)
		if hadBase && base.Locked {
			continue
		}
		if hadBase && base.Value == want.Value && base.Locked == want.Locked {
			delete(primary.Values, key)
			continue
		}
		primary.Set(key, want.Value, want.Locked)
	}

	for i, layer := range userLayers {
		if err := atomicWriteLayer(userSpecs[i].path, layer); err != nil {
			return err
		}
	}
	return nil
}

func atomicWriteLayer(path string, layer *Layer) error {
	if len(layer.Keys) == 0 {
		// Nothing to persist; leave any existing file as-is rather than
		// truncating a layer a previous session wrote.
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: mkdir %s: %w", filepath.Dir(path), err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("config: create %s: %w", tmp, err)
	}
	if err := layer.Render(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("config: write %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("config: close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("config: rename %s: %w", tmp, err)
	}
	return nil
}
