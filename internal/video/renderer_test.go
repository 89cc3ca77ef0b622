package video

import "testing"

func TestDisplaySizeAspectFillsMatchingSurface(t *testing.T) {
	r := NewRenderer()
	w, h := r.displaySize(320, 240, 256, 224, 4.0/3.0)
	if w != 320 || h != 240 {
		t.Fatalf("displaySize = (%v, %v), want (320, 240) for a matching aspect ratio", w, h)
	}
}

func TestDisplaySizeFullscreenIgnoresAspectRatio(t *testing.T) {
	r := NewRenderer()
	r.SetScalePolicy(ScaleFullscreen)
	w, h := r.displaySize(320, 240, 256, 224, 4.0/3.0)
	if w != 320 || h != 240 {
		t.Fatalf("displaySize = (%v, %v), want the full surface (320, 240)", w, h)
	}
}

func TestDisplaySizeNativeHoldsToWholeNumberMultiple(t *testing.T) {
	r := NewRenderer()
	r.SetScalePolicy(ScaleNative)
	w, h := r.displaySize(300, 300, 100, 100, 1.0)
	if w != 300 || h != 300 {
		t.Fatalf("displaySize = (%v, %v), want (300, 300) at 3x", w, h)
	}
}

func TestDisplaySizeNativeNeverScalesBelowOne(t *testing.T) {
	r := NewRenderer()
	r.SetScalePolicy(ScaleNative)
	w, h := r.displaySize(50, 50, 100, 100, 1.0)
	if w != 100 || h != 100 {
		t.Fatalf("displaySize = (%v, %v), want the native 1x size (100, 100) on an undersized surface", w, h)
	}
}

func TestOverloadedAfterThresholdConsecutiveDrops(t *testing.T) {
	r := NewRenderer()
	if r.Overloaded() {
		t.Fatal("expected not overloaded initially")
	}
	r.NoteFrameDropped(3)
	r.NoteFrameDropped(3)
	if r.Overloaded() {
		t.Fatal("expected not overloaded before reaching the threshold")
	}
	r.NoteFrameDropped(3)
	if !r.Overloaded() {
		t.Fatal("expected overloaded after 3 consecutive drops")
	}
	r.NoteFrameOnTime()
	if r.Overloaded() {
		t.Fatal("expected NoteFrameOnTime to clear the overload flag")
	}
}
