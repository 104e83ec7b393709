package emu_test

import (
	"errors"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasim/emu"
)

func TestEmu(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Emu Suite")
}

var _ = Describe("RegFile", func() {
	It("hardwires R0 to zero", func() {
		f := &emu.RegFile{}
		f.WriteReg(0, 42)
		Expect(f.ReadReg(0)).To(Equal(uint16(0)))
	})

	It("reads back written values for R1-R7", func() {
		f := &emu.RegFile{}
		f.WriteReg(3, 100)
		Expect(f.ReadReg(3)).To(Equal(uint16(100)))
	})
})

var _ = Describe("Memory", func() {
	It("reads back written words", func() {
		m := emu.NewMemory()
		Expect(m.WriteWord(10, 42, 0)).To(Succeed())
		v, err := m.ReadWord(10, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(uint16(42)))
	})

	It("returns a MemoryFaultError on out-of-range access", func() {
		m := emu.NewMemory()
		_, err := m.ReadWord(emu.MemoryWords, 7)
		Expect(err).To(HaveOccurred())
		var faultErr *emu.MemoryFaultError
		Expect(errors.As(err, &faultErr)).To(BeTrue())
		Expect(faultErr.PC).To(Equal(uint32(7)))
	})

	It("zero-initializes memory", func() {
		m := emu.NewMemory()
		v, err := m.ReadWord(0, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(uint16(0)))
	})
})
