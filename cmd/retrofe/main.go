// Command retrofe is the process entrypoint the launcher execs per
// spec's "frontend <core_path> <rom_path>" command line. It resolves
// the environment handoff contract, builds a session.Session, and runs
// it as the Ebiten game loop until the session requests a quit,
// returning the exit code the launcher's own lifecycle depends on.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/retrofe/retrofe/internal/frontend"
	"github.com/retrofe/retrofe/internal/platform"
	"github.com/retrofe/retrofe/internal/session"
)

// defaultSurface is the fixed logical resolution this frontend presents
// at (spec §4.A "per-device constants (resolution, ...)" - a real
// per-device lookup table is future work; every device this frontend
// currently targets shares one 4:3 handheld panel size).
var defaultSurface = platform.Surface{Width: 320, Height: 240}

func main() {
	os.Exit(run())
}

func run() int {
	corePath, romPath, err := parseArgs(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	env, err := readEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	sess, err := session.New(session.Options{
		CorePath: corePath,
		ROMPath:  romPath,
		System:   systemNameFromCorePath(corePath),
		Env:      env,
		Surface:  defaultSurface,
	})
	if err != nil {
		return frontend.ExitCode(err)
	}

	quitCh := make(chan os.Signal, 1)
	signal.Notify(quitCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quitCh)
	go func() {
		<-quitCh
		sess.RequestQuit()
	}()

	reloadCh := make(chan os.Signal, 1)
	signal.Notify(reloadCh, syscall.SIGHUP)
	defer signal.Stop(reloadCh)
	go func() {
		for range reloadCh {
			sess.RequestConfigReload()
		}
	}()

	runErr := ebiten.RunGame(sess)
	sess.Close()

	if runErr != nil {
		return frontend.ExitCode(runErr)
	}
	return sess.ExitCode()
}

// parseArgs implements spec §6's "frontend <core_path> <rom_path>"
// command line.
func parseArgs(argv []string) (corePath, romPath string, err error) {
	if len(argv) != 3 {
		return "", "", fmt.Errorf("usage: %s <core_path> <rom_path>", filepath.Base(argv[0]))
	}
	return argv[1], argv[2], nil
}

// readEnv reads the required environment handoff (spec §6
// "Environment variables (required)"). A missing variable is a fatal
// init error: the launcher's contract has no defaults for these.
func readEnv() (session.Env, error) {
	get := func(key string) (string, error) {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			return "", fmt.Errorf("missing required environment variable %s", key)
		}
		return v, nil
	}

	var env session.Env
	var err error
	for _, f := range []struct {
		key string
		dst *string
	}{
		{"PLATFORM", &env.Platform},
		{"DEVICE", &env.Device},
		{"SDCARD_PATH", &env.SDCardPath},
		{"SYSTEM_PATH", &env.SystemPath},
		{"USERDATA_PATH", &env.UserdataPath},
		{"BIOS_PATH", &env.BiosPath},
		{"SAVES_PATH", &env.SavesPath},
		{"CORES_PATH", &env.CoresPath},
		{"LOGS_PATH", &env.LogsPath},
	} {
		*f.dst, err = get(f.key)
		if err != nil {
			return session.Env{}, err
		}
	}
	return env, nil
}

// systemNameFromCorePath derives the console short name config layers
// key off of from the core's filename, following the real libretro
// core naming convention "<name>_libretro.<ext>" (e.g.
// "gambatte_libretro.so" -> "GAMBATTE").
func systemNameFromCorePath(corePath string) string {
	base := filepath.Base(corePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.TrimSuffix(base, "_libretro")
	return strings.ToUpper(base)
}
