package vm

import "testing"

func TestNewRegistersSeeding(t *testing.T) {
	r := NewRegisters(0x1234)
	if got := r.Get(RegVirtualMachineStartup); got != 0x0081 {
		t.Fatalf("startup = %#x, want 0x81", got)
	}
	if got := r.Get(RegCopyProtection1); got != 0x0010 {
		t.Fatalf("copy protection 1 = %#x, want 0x10", got)
	}
	if got := r.Get(RegRandomSeed); got != 0x1234 {
		t.Fatalf("seed = %#x, want 0x1234", got)
	}
}

func TestRegisterWrappingArithmetic(t *testing.T) {
	r := &Registers{}
	r.Set(0, 0xFFFF)
	r.Add(0, 2)
	if got := r.Get(0); got != 1 {
		t.Fatalf("wrapping add = %#x, want 1", got)
	}

	r.Set(1, 0)
	r.Sub(1, 1)
	if got := r.Get(1); got != 0xFFFF {
		t.Fatalf("wrapping sub = %#x, want 0xFFFF", got)
	}
}

func TestRegisterSignedRoundTrip(t *testing.T) {
	r := &Registers{}
	r.SetSigned(5, -1)
	if got := r.Get(5); got != 0xFFFF {
		t.Fatalf("raw bits = %#x, want 0xFFFF", got)
	}
	if got := r.GetSigned(5); got != -1 {
		t.Fatalf("signed view = %d, want -1", got)
	}
}
