package mix_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ibexprof/insts"
	"github.com/sarchlab/ibexprof/timing/cache"
	"github.com/sarchlab/ibexprof/timing/mix"
)

const header = "Time\tCycle\tPC\tInsn\tDecoded instruction\tRegister and memory contents"

// buildTrace renders decoded instructions as Ibex tracer lines.
func buildTrace(decoded ...string) string {
	var sb strings.Builder
	sb.WriteString(header + "\n")
	for i, d := range decoded {
		pc := 0x100080 + 4*i
		fmt.Fprintf(&sb, "%15d\t%d\t%08x\t%08x\t%s\n", 10*(i+1), i+1, pc, 0x13, d)
	}
	return sb.String()
}

var _ = Describe("Ingestor", func() {
	var ingestor *mix.Ingestor

	BeforeEach(func() {
		ingestor = mix.NewIngestor()
	})

	ingest := func(text string) mix.Result {
		result, err := ingestor.Ingest(strings.NewReader(text))
		Expect(err).NotTo(HaveOccurred())
		return result
	}

	It("should count the instruction mix", func() {
		result := ingest(buildTrace(
			"lw x5,0(x6) x6:0x00100400 x5=0x00000007 PA:0x00100400 load:0x00000007",
			"add x7,x5,x8 x5:0x00000007 x8:0x00000001 x7=0x00000008",
			"sw x7,4(x6) x7:0x00000008 x6:0x00100400 PA:0x00100404 store:0x00000008",
			"beq x7,x0,0x10 x7:0x00000008 x0:0x00000000",
			"addi x1,x1,1 x1:0x00000000 x1=0x00000001",
		))

		c := result.Counters
		Expect(c.Total).To(Equal(uint64(5)))
		Expect(c.Loads()).To(Equal(uint64(1)))
		Expect(c.Stores()).To(Equal(uint64(1)))
		Expect(c.Branches()).To(Equal(uint64(1)))
		Expect(c.ALU()).To(Equal(uint64(2)))
		Expect(c.Count(insts.CategoryALU)).To(Equal(uint64(2)))
		Expect(c.Sum()).To(Equal(c.Total))
		Expect(c.MemOps()).To(Equal(uint64(2)))
	})

	It("should count the load-use hazard", func() {
		result := ingest(buildTrace(
			"lw x5,0(x6)",
			"add x7,x5,x8",
		))

		Expect(result.Hazards).To(Equal(mix.HazardStats{TotalLoads: 1, LoadUseHazards: 1}))
	})

	It("should only check the most recent load", func() {
		result := ingest(buildTrace(
			"lw x5,0(x6)",
			"lw x6,0(x9)",
			"add x7,x6,x8",
		))

		Expect(result.Hazards.TotalLoads).To(Equal(uint64(2)))
		Expect(result.Hazards.LoadUseHazards).To(Equal(uint64(1)))
	})

	It("should always discard the first line", func() {
		text := "0 1 00100080 00000013 addi x1,x1,1\n0 2 00100084 00000013 addi x1,x1,1\n"
		result := ingest(text)

		Expect(result.Counters.Total).To(Equal(uint64(1)))
		Expect(result.Skipped.Header).To(Equal(uint64(1)))
	})

	It("should skip blank and short lines", func() {
		text := buildTrace("addi x1,x1,1") +
			"\n" +
			"   \t\n" +
			"10 2 00100084 00000073 ecall\n" +
			buildTrace("addi x2,x2,1")[len(header)+1:]

		result := ingest(text)
		Expect(result.Counters.Total).To(Equal(uint64(2)))
		Expect(result.Skipped.Shape).To(Equal(uint64(3)))
	})

	It("should report zero for an empty trace", func() {
		result := ingest("")
		Expect(result.Counters).To(BeZero())
		Expect(result.Hazards).To(BeZero())
		Expect(result.Cache).To(BeNil())
	})

	It("should produce identical results on repeated runs", func() {
		text := buildTrace("lw x5,0(x6)", "add x7,x5,x8", "sw x7,0(x6)", "lw x1,0(x2)")

		first := ingest(text)
		second := ingest(text)
		Expect(second).To(Equal(first))
	})

	Context("with a custom operand extractor", func() {
		It("should use it for hazard detection", func() {
			ingestor = mix.NewIngestor(mix.WithOperandExtractor(fixedExtractor{
				ops: insts.Operands{Rd: "x1", Rs1: "x1"},
			}))

			result := ingest(buildTrace("lw x5,0(x6)", "add x7,x9,x8"))
			Expect(result.Hazards.LoadUseHazards).To(Equal(uint64(1)))
		})
	})

	Context("with cache replay", func() {
		BeforeEach(func() {
			config := cache.DefaultConfig()
			ingestor = mix.NewIngestor(mix.WithCacheReplay(config))
		})

		It("should replay traced memory accesses", func() {
			result := ingest(buildTrace(
				"lw x5,0(x6) PA:0x00100400 load:0x00000007",
				"sw x5,4(x6) PA:0x00100404 store:0x00000007",
				"lw x7,8(x6) PA:0x00100408 load:0x00000000",
				"lw x8,0(x9)",
				"addi x1,x1,1",
			))

			Expect(result.Cache).NotTo(BeNil())
			Expect(result.Cache.Reads).To(Equal(uint64(2)))
			Expect(result.Cache.Writes).To(Equal(uint64(1)))
			Expect(result.Cache.Misses).To(Equal(uint64(1)))
			Expect(result.Cache.Hits).To(Equal(uint64(2)))
		})

		It("should start each run from a cold cache", func() {
			text := buildTrace("lw x5,0(x6) PA:0x00100400 load:0x00000007")

			first := ingest(text)
			second := ingest(text)
			Expect(second.Cache.Misses).To(Equal(first.Cache.Misses))
		})
	})

	Describe("IngestFile", func() {
		var tempDir string

		BeforeEach(func() {
			var err error
			tempDir, err = os.MkdirTemp("", "mix-test")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			_ = os.RemoveAll(tempDir)
		})

		It("should read a trace file", func() {
			path := filepath.Join(tempDir, "trace_core_00000000.log")
			Expect(os.WriteFile(path, []byte(buildTrace("lw x5,0(x6)", "add x7,x5,x8")), 0644)).To(Succeed())

			result, err := ingestor.IngestFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Counters.Total).To(Equal(uint64(2)))
			Expect(result.Hazards.LoadUseHazards).To(Equal(uint64(1)))
		})

		It("should return error for non-existent file", func() {
			_, err := ingestor.IngestFile(filepath.Join(tempDir, "missing.log"))
			Expect(err).To(HaveOccurred())
		})
	})
})

type fixedExtractor struct {
	ops insts.Operands
}

func (f fixedExtractor) Extract(string) insts.Operands {
	return f.ops
}
