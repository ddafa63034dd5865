// Command nesemu is the playable front end for the emulator core.
// Everything here is a collaborator per spec.md §1: window
// presentation, palette-file loading, and the CLI itself all live
// outside system.System, whose core surface is New/LoadROM/Tick/
// FrameBuffer (§6); this command also uses its LoadPalette and
// SetButtons hooks, and the debugger its trace and inspection hooks.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/jrcoleman/nesemu/cartridge"
	"github.com/jrcoleman/nesemu/internal/debugger"
	"github.com/jrcoleman/nesemu/system"
)

var (
	romFlag = flag.String("rom", "", "path to the .nes ROM image (falls back to the first positional argument)")
	palette = flag.String("palette", "", "path to a 64-entry .pal file (192 bytes, RGB triples) overriding the default NTSC palette")
	scale   = flag.Int("scale", 2, "window scale factor")
	verbose = flag.Bool("verbose", false, "log each loaded ROM's header fields")
	debug   = flag.Bool("debug", false, "drop into the bubbletea trace/step viewer instead of the ebiten window")
)

func main() {
	flag.Parse()

	path := *romFlag
	if path == "" {
		path = flag.Arg(0)
	}
	if path == "" {
		log.Fatal("usage: nesemu [flags] <rom-path>")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("reading ROM: %v", err)
	}

	image, err := cartridge.ParseROM(data)
	if err != nil {
		log.Fatalf("parsing ROM: %v", err)
	}
	if *verbose {
		log.Printf("loaded %s: %s", path, image)
	}

	cart, err := cartridge.New(image)
	if err != nil {
		log.Fatalf("unsupported cartridge: %v", err)
	}

	sys := system.New(cart)

	if *palette != "" {
		pal, err := os.ReadFile(*palette)
		if err != nil {
			log.Fatalf("reading palette file: %v", err)
		}
		sys.LoadPalette(pal)
	}

	if *debug {
		if err := debugger.Run(sys); err != nil {
			log.Fatal(err)
		}
		return
	}

	game := &gameWindow{sys: sys}
	ebiten.SetWindowSize(256*(*scale), 240*(*scale))
	ebiten.SetWindowTitle("nesemu")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
