package config

import (
	"strings"
	"testing"
)

func TestParseLayerBasic(t *testing.T) {
	text := "cpu = Normal\n# a comment\n\nvolume=80\n"
	layer, errs := ParseLayer("test", strings.NewReader(text))
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if e := layer.Values["cpu"]; e.Value != "Normal" || e.Locked {
		t.Fatalf("cpu = %+v", e)
	}
	if e := layer.Values["volume"]; e.Value != "80" {
		t.Fatalf("volume = %+v", e)
	}
}

func TestParseLayerLockedKey(t *testing.T) {
	layer, errs := ParseLayer("test", strings.NewReader("-cpu = Powersave\n"))
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	e, ok := layer.Values["cpu"]
	if !ok {
		t.Fatal("expected key 'cpu' (without the leading -)")
	}
	if !e.Locked || e.Value != "Powersave" {
		t.Fatalf("cpu = %+v, want locked=true value=Powersave", e)
	}
}

func TestParseLayerTolerance(t *testing.T) {
	text := "cpu = Normal\r\nnotakeyvalue\nvolume = 80  \n"
	layer, errs := ParseLayer("test", strings.NewReader(text))
	if len(errs) != 1 {
		t.Fatalf("expected exactly 1 parse error, got %d: %v", len(errs), errs)
	}
	if layer.Values["cpu"].Value != "Normal" {
		t.Fatalf("malformed line should not block parsing of valid lines: %+v", layer.Values)
	}
	if layer.Values["volume"].Value != "80" {
		t.Fatalf("trailing whitespace should be stripped, got %q", layer.Values["volume"].Value)
	}
}

func TestLayerRenderRoundTrips(t *testing.T) {
	layer := newLayer("test")
	layer.Set("cpu", "Powersave", true)
	layer.Set("volume", "80", false)

	var sb strings.Builder
	if err := layer.Render(&sb); err != nil {
		t.Fatalf("Render: %v", err)
	}

	reparsed, errs := ParseLayer("test2", strings.NewReader(sb.String()))
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors on reparse: %v", errs)
	}
	if e := reparsed.Values["cpu"]; !e.Locked || e.Value != "Powersave" {
		t.Fatalf("round-tripped cpu = %+v", e)
	}
	if e := reparsed.Values["volume"]; e.Locked || e.Value != "80" {
		t.Fatalf("round-tripped volume = %+v", e)
	}
}
