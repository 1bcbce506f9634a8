package cpu

import "testing"

func TestAddCarryOverflow(t *testing.T) {
	r, p := AddCarry(0x50, 0x50, 0)
	if r != 0xA0 {
		t.Errorf("result = %02X, want A0", uint8(r))
	}
	if !p.V() || !p.N() || p.C() || p.Z() {
		t.Errorf("P = %s, want V=1 N=1 C=0 Z=0", p)
	}
}

func TestCompareBorrow(t *testing.T) {
	p := Compare(0x10, 0x20, 0)
	if p.C() || !p.N() || p.Z() {
		t.Errorf("P = %s, want C=0 N=1 Z=0", p)
	}

	p = Compare(0x20, 0x20, 0)
	if !p.C() || p.N() || !p.Z() {
		t.Errorf("P = %s, want C=1 N=0 Z=1", p)
	}
}

func TestAddCarryDeterminism(t *testing.T) {
	for x := range 256 {
		for y := range 256 {
			for _, c := range []P{0, Carry} {
				r1, p1 := AddCarry(Byte(x), Byte(y), c)
				r2, p2 := AddCarry(Byte(x), Byte(y), c)
				if r1 != r2 || p1 != p2 {
					t.Fatalf("AddCarry(%02X, %02X, %s) not deterministic", x, y, c)
				}

				sum := x + y + int(b2i(c.C()))
				if int(r1) != sum&0xFF || p1.C() != (sum > 0xFF) {
					t.Fatalf("AddCarry(%02X, %02X, %s) = %02X %s", x, y, c, uint8(r1), p1)
				}
				signed := int(int8(x)) + int(int8(y)) + int(b2i(c.C()))
				if p1.V() != (signed < -128 || signed > 127) {
					t.Fatalf("AddCarry(%02X, %02X, %s): V = %t", x, y, c, p1.V())
				}
			}
		}
	}
}

func TestSubCarry(t *testing.T) {
	tests := []struct {
		a, b  Byte
		p     P
		want  Byte
		wantP P
	}{
		{a: 0x05, b: 0x03, p: Carry, want: 0x02, wantP: Carry},
		{a: 0x05, b: 0x03, p: 0, want: 0x01, wantP: Carry},
		{a: 0x03, b: 0x05, p: Carry, want: 0xFE, wantP: Negative},
		{a: 0x80, b: 0x01, p: Carry, want: 0x7F, wantP: Carry | Overflow},
		{a: 0x00, b: 0x00, p: Carry, want: 0x00, wantP: Carry | Zero},
		{a: 0x7F, b: 0xFF, p: Carry, want: 0x80, wantP: Overflow | Negative},
	}
	for _, tt := range tests {
		r, p := SubCarry(tt.a, tt.b, tt.p)
		if r != tt.want || p != tt.wantP {
			t.Errorf("SubCarry(%02X, %02X, %s) = %02X %s, want %02X %s",
				uint8(tt.a), uint8(tt.b), tt.p, uint8(r), p, uint8(tt.want), tt.wantP)
		}
	}
}

func TestUnaryOps(t *testing.T) {
	type unaryFunc func(Byte, P) (Byte, P)
	tests := []struct {
		name  string
		f     unaryFunc
		v     Byte
		p     P
		want  Byte
		wantP P
	}{
		{"asl", ShiftLeft, 0x81, 0, 0x02, Carry},
		{"asl", ShiftLeft, 0x40, Carry, 0x80, Negative},
		{"asl", ShiftLeft, 0x80, 0, 0x00, Carry | Zero},
		{"lsr", ShiftRight, 0x01, 0, 0x00, Carry | Zero},
		{"lsr", ShiftRight, 0x80, Carry | Negative, 0x40, 0},
		{"rol", RotateLeft, 0x80, Carry, 0x01, Carry},
		{"rol", RotateLeft, 0x40, 0, 0x80, Negative},
		{"ror", RotateRight, 0x01, Carry, 0x80, Carry | Negative},
		{"ror", RotateRight, 0x02, 0, 0x01, 0},
		{"inc", Increment, 0xFF, Carry, 0x00, Carry | Zero},
		{"inc", Increment, 0x7F, 0, 0x80, Negative},
		{"dec", Decrement, 0x00, 0, 0xFF, Negative},
		{"dec", Decrement, 0x01, Overflow, 0x00, Overflow | Zero},
	}
	for _, tt := range tests {
		r, p := tt.f(tt.v, tt.p)
		if r != tt.want || p != tt.wantP {
			t.Errorf("%s(%02X, %s) = %02X %s, want %02X %s",
				tt.name, uint8(tt.v), tt.p, uint8(r), p, uint8(tt.want), tt.wantP)
		}
	}
}

func TestLogicOps(t *testing.T) {
	type binaryFunc func(Byte, Byte, P) (Byte, P)
	tests := []struct {
		name  string
		f     binaryFunc
		a, b  Byte
		p     P
		want  Byte
		wantP P
	}{
		{"or", Or, 0x00, 0x00, Carry, 0x00, Carry | Zero},
		{"or", Or, 0x0F, 0xF0, Zero, 0xFF, Negative},
		{"and", And, 0xF0, 0x0F, Overflow, 0x00, Overflow | Zero},
		{"and", And, 0xFF, 0x81, 0, 0x81, Negative},
		{"xor", Xor, 0xFF, 0xFF, Negative, 0x00, Zero},
		{"xor", Xor, 0x0F, 0x01, 0, 0x0E, 0},
	}
	for _, tt := range tests {
		r, p := tt.f(tt.a, tt.b, tt.p)
		if r != tt.want || p != tt.wantP {
			t.Errorf("%s(%02X, %02X, %s) = %02X %s, want %02X %s",
				tt.name, uint8(tt.a), uint8(tt.b), tt.p, uint8(r), p, uint8(tt.want), tt.wantP)
		}
	}
}

func TestBitTest(t *testing.T) {
	p := BitTest(0x01, 0xC0, Carry)
	if p != Carry|Negative|Overflow|Zero {
		t.Errorf("BitTest(01, C0) = %s", p)
	}
	p = BitTest(0xFF, 0x01, Negative|Overflow|Zero)
	if p != 0 {
		t.Errorf("BitTest(FF, 01) = %s", p)
	}
}
