package system

import "github.com/jrcoleman/nesemu/cpu"

// SetTraceHook installs the per-instruction snapshot callback oracle
// 1 (§6) is built from: invoked at the start of every instruction
// with (PC, opcode, A, X, Y, P, SP, CYC) already latched.
func (s *System) SetTraceHook(fn func(cpu.Snapshot)) { s.cpu.TraceHook = fn }

// SetFaultHook installs the callback invoked exactly once if decode
// lands on a deliberately-unimplemented opcode (§7 error kind 1).
func (s *System) SetFaultHook(fn func(*cpu.Fault)) { s.cpu.FaultHook = fn }

// PPUPosition returns the (dot, scanline) pair the PPU:dd,ll trace
// field (§6) is built from.
func (s *System) PPUPosition() (dot, scanline int) { return s.ppu.Dot(), s.ppu.Scanline() }

// LoadPalette forwards a raw .pal file's bytes to the PPU, the one
// core-facing hook the out-of-scope palette-file collaborator (§1)
// calls through.
func (s *System) LoadPalette(rgbTriples []byte) { s.ppu.LoadPalette(rgbTriples) }
