package cpu

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStateJSON(t *testing.T) {
	cpu, _ := newCPU()
	cpu.Registers = Registers{A: 0x12, X: 0x34, Y: 0x56, S: 0xFD, PC: 0xC000, P: Carry | Negative}
	cpu.Steps = 1234

	buf, err := json.Marshal(cpu.State())
	if err != nil {
		t.Fatal(err)
	}

	const want = `{"a":18,"x":52,"y":86,"s":253,"p":129,"pc":49152,"steps":1234}`
	if string(buf) != want {
		t.Errorf("got %s, want %s", buf, want)
	}

	var st State
	if err := json.Unmarshal(buf, &st); err != nil {
		t.Fatal(err)
	}

	other, _ := newCPU()
	other.SetState(st)
	if diff := cmp.Diff(cpu.State(), other.State()); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestStateDecodeErrors(t *testing.T) {
	var st State
	if err := st.UnmarshalJSON([]byte(`{"a":256}`)); err == nil {
		t.Errorf("out of range register should fail")
	}
	if err := st.UnmarshalJSON([]byte(`{"pc":"x"}`)); err == nil {
		t.Errorf("string pc should fail")
	}
	if err := st.UnmarshalJSON([]byte(`{"unknown":[1,2],"x":7}`)); err != nil || st.X != 7 {
		t.Errorf("unknown fields should be skipped: %v", err)
	}
}
