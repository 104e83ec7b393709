package insts_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasim/insts"
)

func TestInsts(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Insts Suite")
}

var _ = Describe("Op", func() {
	It("maps each opcode to its mnemonic", func() {
		Expect(insts.OpLOAD.String()).To(Equal("LOAD"))
		Expect(insts.OpADDI.String()).To(Equal("ADDI"))
		Expect(insts.OpMUL.String()).To(Equal("MUL"))
		Expect(insts.OpUnknown.String()).To(Equal("UNKNOWN"))
	})

	It("maps each opcode to its functional unit", func() {
		Expect(insts.OpLOAD.Unit()).To(Equal(insts.UnitLoad))
		Expect(insts.OpSTORE.Unit()).To(Equal(insts.UnitStore))
		Expect(insts.OpBEQ.Unit()).To(Equal(insts.UnitBranch))
		Expect(insts.OpCALL.Unit()).To(Equal(insts.UnitCallRet))
		Expect(insts.OpRET.Unit()).To(Equal(insts.UnitCallRet))
		Expect(insts.OpADD.Unit()).To(Equal(insts.UnitAdd))
		Expect(insts.OpADDI.Unit()).To(Equal(insts.UnitAdd))
		Expect(insts.OpNAND.Unit()).To(Equal(insts.UnitNand))
		Expect(insts.OpMUL.Unit()).To(Equal(insts.UnitMul))
	})
})

var _ = Describe("Instruction", func() {
	Describe("DestReg", func() {
		It("reports Rd for arithmetic and load ops", func() {
			i := &insts.Instruction{Op: insts.OpADDI, Rd: 3}
			reg, ok := i.DestReg()
			Expect(ok).To(BeTrue())
			Expect(reg).To(Equal(uint8(3)))
		})

		It("reports the link register for CALL", func() {
			i := &insts.Instruction{Op: insts.OpCALL}
			reg, ok := i.DestReg()
			Expect(ok).To(BeTrue())
			Expect(reg).To(Equal(uint8(insts.LinkRegister)))
		})

		It("reports no destination for STORE, BEQ and RET", func() {
			for _, op := range []insts.Op{insts.OpSTORE, insts.OpBEQ, insts.OpRET} {
				_, ok := (&insts.Instruction{Op: op}).DestReg()
				Expect(ok).To(BeFalse())
			}
		})
	})

	Describe("IsBranch", func() {
		It("is true for BEQ, CALL and RET", func() {
			Expect((&insts.Instruction{Op: insts.OpBEQ}).IsBranch()).To(BeTrue())
			Expect((&insts.Instruction{Op: insts.OpCALL}).IsBranch()).To(BeTrue())
			Expect((&insts.Instruction{Op: insts.OpRET}).IsBranch()).To(BeTrue())
		})

		It("is false for data-processing and memory ops", func() {
			Expect((&insts.Instruction{Op: insts.OpADD}).IsBranch()).To(BeFalse())
			Expect((&insts.Instruction{Op: insts.OpLOAD}).IsBranch()).To(BeFalse())
		})
	})

	Describe("String", func() {
		It("renders the ADDI syntax accepted by the assembler", func() {
			i := &insts.Instruction{Op: insts.OpADDI, Rd: 1, Rs: 0, Imm: 5}
			Expect(i.String()).To(Equal("ADDI R1,R0,5"))
		})

		It("renders the LOAD offset(rB) syntax", func() {
			i := &insts.Instruction{Op: insts.OpLOAD, Rd: 2, Rt: 0, Imm: 4}
			Expect(i.String()).To(Equal("LOAD R2,4(R0)"))
		})
	})
})
