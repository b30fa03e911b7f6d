package cpu

// Test evaluates a branch condition against the flags.
// Conditions 8-15 are the negations of conditions 0-7.
func (fl Flags) Test(cond CodeCond) (taken bool) {
	switch cond & 7 {
	case COND_MI:
		taken = fl.N
	case COND_EQ:
		taken = fl.Z
	case COND_CS:
		taken = fl.C
	case COND_VS:
		taken = fl.V
	case COND_LS:
		taken = !fl.C || fl.Z
	case COND_LT:
		taken = fl.N != fl.V
	case COND_LE:
		taken = (fl.N != fl.V) || fl.Z
	case COND_AL:
		taken = true
	}

	if cond&8 != 0 {
		taken = !taken
	}

	return
}

// branchTarget computes the pc after a branch.
// next is the already advanced pc, which relative offsets are added to.
func (cpu *Cpu) branchTarget(ins Instruction, next uint32) (target uint32, taken bool) {
	target = next

	taken = cpu.Flags.Test(ins.Cond)
	if !taken {
		return
	}

	if ins.Relative() {
		target = next + ins.Imm
	} else {
		target = cpu.Register[ins.C]
	}

	return
}
