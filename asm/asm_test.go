package asm_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasim/asm"
	"github.com/sarchlab/tomasim/insts"
)

func TestAsm(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Asm Suite")
}

var _ = Describe("Assemble", func() {
	It("parses a straight-line ADD chain", func() {
		prog, err := asm.Assemble(`
			ADDI R1,R0,5
			ADDI R2,R0,7
			ADD R3,R1,R2
		`)
		Expect(err).NotTo(HaveOccurred())
		Expect(prog.Instructions).To(HaveLen(3))
		Expect(prog.Instructions[2].Op).To(Equal(insts.OpADD))
		Expect(prog.Instructions[2].Rd).To(Equal(uint8(3)))
		Expect(prog.Instructions[2].Rs).To(Equal(uint8(1)))
		Expect(prog.Instructions[2].Rt).To(Equal(uint8(2)))
	})

	It("parses LOAD/STORE with offset(rB) syntax", func() {
		prog, err := asm.Assemble(`
			ADDI R1,R0,42
			STORE R1,0(R0)
			LOAD R2,0(R0)
		`)
		Expect(err).NotTo(HaveOccurred())
		store := prog.Instructions[1]
		Expect(store.Op).To(Equal(insts.OpSTORE))
		Expect(store.Rs).To(Equal(uint8(1)))
		Expect(store.Rt).To(Equal(uint8(0)))
		Expect(store.Imm).To(Equal(int16(0)))

		load := prog.Instructions[2]
		Expect(load.Rd).To(Equal(uint8(2)))
		Expect(load.Rt).To(Equal(uint8(0)))
	})

	It("parses a literal BEQ offset", func() {
		prog, err := asm.Assemble("BEQ R0,R1,+2")
		Expect(err).NotTo(HaveOccurred())
		Expect(prog.Instructions[0].Imm).To(Equal(int16(2)))
	})

	It("resolves a backward branch label relative to PC+1", func() {
		prog, err := asm.Assemble(`
			loop: ADDI R1,R1,-1
			BEQ R1,R0,done
			BEQ R0,R0,loop
			done: RET
		`)
		Expect(err).NotTo(HaveOccurred())
		// BEQ R0,R0,loop is instruction index 2 (PC=2); loop is PC=0.
		// offset = target - (pc+1) = 0 - 3 = -3
		Expect(prog.Instructions[2].Imm).To(Equal(int16(-3)))
	})

	It("resolves CALL to a label's absolute word address", func() {
		prog, err := asm.Assemble(`
			CALL sub
			RET
			sub: ADDI R1,R0,1
		`)
		Expect(err).NotTo(HaveOccurred())
		Expect(prog.Instructions[0].Op).To(Equal(insts.OpCALL))
		Expect(prog.Instructions[0].Target).To(Equal(uint32(2)))
	})

	It("is case-insensitive on mnemonics and registers", func() {
		prog, err := asm.Assemble("addi r1,r0,5")
		Expect(err).NotTo(HaveOccurred())
		Expect(prog.Instructions[0].Op).To(Equal(insts.OpADDI))
	})

	It("strips ';' comments", func() {
		prog, err := asm.Assemble("ADDI R1,R0,5 ; load five\n; a whole comment line\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(prog.Instructions).To(HaveLen(1))
	})

	DescribeTable("fails fast with a line number on malformed input",
		func(source string) {
			_, err := asm.Assemble(source)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("line"))
		},
		Entry("unknown mnemonic", "FROB R1,R2,R3"),
		Entry("undefined label", "BEQ R0,R1,nowhere"),
		Entry("bad operand count", "ADD R1,R2"),
		Entry("immediate out of range", "ADDI R1,R0,99999"),
		Entry("bad register", "ADD R9,R0,R1"),
	)
})
