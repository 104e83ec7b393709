package loader_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasim/emu"
	"github.com/sarchlab/tomasim/loader"
)

func TestLoader(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Loader Suite")
}

func writeTemp(dir, contents string) string {
	path := filepath.Join(dir, "mem.txt")
	Expect(os.WriteFile(path, []byte(contents), 0o644)).To(Succeed())
	return path
}

var _ = Describe("Load", func() {
	It("parses decimal and hex address/value pairs", func() {
		dir := GinkgoT().TempDir()
		path := writeTemp(dir, "0 42\n0x10 0xFF ; comment\n")

		img, err := loader.Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(img.Words[0]).To(Equal(uint16(42)))
		Expect(img.Words[0x10]).To(Equal(uint16(0xFF)))
	})

	It("ignores comment-only and blank lines", func() {
		dir := GinkgoT().TempDir()
		path := writeTemp(dir, "; nothing here\n\n5 7\n")

		img, err := loader.Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(img.Words).To(HaveLen(1))
	})

	It("fails fast with a line number on malformed input", func() {
		dir := GinkgoT().TempDir()
		path := writeTemp(dir, "0 1\nbogus\n")

		_, err := loader.Load(path)
		Expect(err).To(HaveOccurred())
		var parseErr *loader.ParseError
		Expect(errors.As(err, &parseErr)).To(BeTrue())
	})

	It("rejects an out-of-range address", func() {
		dir := GinkgoT().TempDir()
		path := writeTemp(dir, "999999999 1\n")

		_, err := loader.Load(path)
		Expect(err).To(HaveOccurred())
	})

	Describe("Apply", func() {
		It("writes every preloaded word into memory", func() {
			dir := GinkgoT().TempDir()
			path := writeTemp(dir, "0 1\n1 2\n")
			img, err := loader.Load(path)
			Expect(err).NotTo(HaveOccurred())

			mem := emu.NewMemory()
			Expect(img.Apply(mem)).To(Succeed())

			v, err := mem.ReadWord(1, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(uint16(2)))
		})
	})
})
