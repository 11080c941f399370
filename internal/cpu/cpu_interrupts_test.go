package cpu

import "testing"

func TestResetSequence(t *testing.T) {
	helper := NewCPUTestHelper()
	helper.SetupResetVector(0x8000)
	helper.CPU.Reset()

	if helper.CPU.PC != 0x8000 {
		t.Errorf("Reset: PC = $%04X, want $8000", helper.CPU.PC)
	}
	if helper.CPU.SP != 0xFD {
		t.Errorf("Reset: SP = $%02X, want $FD", helper.CPU.SP)
	}
	if !helper.CPU.I {
		t.Error("Reset: I flag should be set")
	}
	if helper.CPU.A != 0 || helper.CPU.X != 0 || helper.CPU.Y != 0 {
		t.Error("Reset: A/X/Y should be zero")
	}
}

func TestBRKVectorsThroughIRQVector(t *testing.T) {
	helper := NewCPUTestHelper()
	helper.SetupResetVector(0x8000)
	helper.CPU.Reset()
	helper.LoadProgram(0x8000, 0x00) // BRK
	helper.Memory.Write(0xFFFE, 0x00)
	helper.Memory.Write(0xFFFF, 0x90)

	helper.CPU.Step()

	if helper.CPU.PC != 0x9000 {
		t.Errorf("BRK: PC = $%04X, want $9000", helper.CPU.PC)
	}
	if !helper.CPU.I {
		t.Error("BRK: I flag should be set after entry")
	}
	pushedStatus := helper.Memory.Read(0x0100 + uint16(helper.CPU.SP) + 1)
	if pushedStatus&bFlagMask == 0 {
		t.Error("BRK: pushed status should have B flag set")
	}
}

func TestRTIInstruction(t *testing.T) {
	helper := NewCPUTestHelper()
	helper.SetupResetVector(0x8000)
	helper.CPU.Reset()

	// Push a return PC and status as if an interrupt had fired, then RTI.
	helper.CPU.pushWord(0x1234)
	helper.CPU.push(0xA5 | bFlagMask)
	helper.LoadProgram(0x8000, 0x40) // RTI

	helper.CPU.Step()

	if helper.CPU.PC != 0x1234 {
		t.Errorf("RTI: PC = $%04X, want $1234", helper.CPU.PC)
	}
	if helper.CPU.B {
		t.Error("RTI: B flag should be cleared on return")
	}
}

func TestServiceNMIEntry(t *testing.T) {
	helper := NewCPUTestHelper()
	helper.SetupResetVector(0x8000)
	helper.CPU.Reset()
	helper.CPU.PC = 0x1234
	helper.Memory.Write(0xFFFA, 0x00)
	helper.Memory.Write(0xFFFB, 0xA0)

	cycles := helper.CPU.ServiceNMI()

	if cycles != 2 {
		t.Errorf("ServiceNMI: cycles = %d, want 2", cycles)
	}
	if helper.CPU.PC != 0xA000 {
		t.Errorf("ServiceNMI: PC = $%04X, want $A000", helper.CPU.PC)
	}
	if !helper.CPU.I {
		t.Error("ServiceNMI: I flag should be set")
	}

	pushedStatus := helper.Memory.Read(0x0100 + uint16(helper.CPU.SP) + 1)
	if pushedStatus&bFlagMask != 0 {
		t.Error("ServiceNMI: pushed status should have B flag clear")
	}
	if pushedStatus&unusedMask == 0 {
		t.Error("ServiceNMI: pushed status should have unused flag set")
	}

	low := helper.Memory.Read(0x0100 + uint16(helper.CPU.SP) + 2)
	high := helper.Memory.Read(0x0100 + uint16(helper.CPU.SP) + 3)
	if (uint16(high)<<8)|uint16(low) != 0x1234 {
		t.Errorf("ServiceNMI: pushed PC = $%04X, want $1234", (uint16(high)<<8)|uint16(low))
	}
}
