package stall_test

import (
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ibexprof/timing/stall"
	"github.com/sarchlab/ibexprof/trace"
)

var _ = Describe("Attributor", func() {
	var a *stall.Attributor

	BeforeEach(func() {
		a = stall.NewAttributor()
	})

	It("should attribute nothing for the first record", func() {
		_, cycles := a.Observe(trace.CycleRecord{Cycle: 10, PC: 0x100})
		Expect(cycles).To(BeZero())
		Expect(a.Counters().Total()).To(BeZero())
	})

	It("should attribute a same-PC gap to MEM", func() {
		a.Observe(trace.CycleRecord{Cycle: 10, PC: 0x100})
		stage, cycles := a.Observe(trace.CycleRecord{Cycle: 13, PC: 0x100})

		Expect(stage).To(Equal(stall.StageMEM))
		Expect(cycles).To(Equal(uint64(2)))
		Expect(a.Counters().Cycles(stall.StageMEM)).To(Equal(uint64(2)))
		Expect(a.Counters().Cycles(stall.StageEX)).To(BeZero())
	})

	It("should attribute a different-PC gap to EX", func() {
		a.Observe(trace.CycleRecord{Cycle: 10, PC: 0x100})
		stage, cycles := a.Observe(trace.CycleRecord{Cycle: 13, PC: 0x104})

		Expect(stage).To(Equal(stall.StageEX))
		Expect(cycles).To(Equal(uint64(2)))
		Expect(a.Counters().Cycles(stall.StageEX)).To(Equal(uint64(2)))
		Expect(a.Counters().Cycles(stall.StageMEM)).To(BeZero())
	})

	It("should attribute nothing for consecutive cycles", func() {
		for i := int64(0); i < 5; i++ {
			a.Observe(trace.CycleRecord{Cycle: 10 + i, PC: uint64(0x100 + 4*i)})
		}
		Expect(a.Counters().Total()).To(BeZero())
	})

	It("should attribute nothing when the cycle goes backward", func() {
		a.Observe(trace.CycleRecord{Cycle: 20, PC: 0x100})
		_, cycles := a.Observe(trace.CycleRecord{Cycle: 5, PC: 0x100})
		Expect(cycles).To(BeZero())
	})

	It("should compare against the most recent record", func() {
		a.Observe(trace.CycleRecord{Cycle: 10, PC: 0x100})
		a.Observe(trace.CycleRecord{Cycle: 11, PC: 0x104})
		stage, cycles := a.Observe(trace.CycleRecord{Cycle: 15, PC: 0x104})

		Expect(stage).To(Equal(stall.StageMEM))
		Expect(cycles).To(Equal(uint64(3)))
	})

	It("should never charge IF or ID", func() {
		a.Observe(trace.CycleRecord{Cycle: 1, PC: 0x100})
		a.Observe(trace.CycleRecord{Cycle: 9, PC: 0x100})
		a.Observe(trace.CycleRecord{Cycle: 20, PC: 0x200})

		c := a.Counters()
		Expect(c.Cycles(stall.StageIF)).To(BeZero())
		Expect(c.Cycles(stall.StageID)).To(BeZero())
		Expect(c.Total()).To(Equal(uint64(17)))
	})
})

var _ = Describe("Counters", func() {
	It("should compute percentages", func() {
		var c stall.Counters
		c.ByStage[stall.StageEX] = 3
		c.ByStage[stall.StageMEM] = 1

		Expect(c.Percent(stall.StageEX)).To(BeNumerically("~", 75.0, 1e-9))
		Expect(c.Percent(stall.StageMEM)).To(BeNumerically("~", 25.0, 1e-9))
		Expect(c.Percent(stall.StageIF)).To(Equal(0.0))
	})

	It("should report zero percent with no stalls", func() {
		var c stall.Counters
		for _, s := range stall.Stages() {
			Expect(c.Percent(s)).To(Equal(0.0))
		}
	})

	It("should name the stages in report order", func() {
		var names []string
		for _, s := range stall.Stages() {
			names = append(names, s.String())
		}
		Expect(names).To(Equal([]string{"IF", "ID", "EX", "MEM"}))
	})
})

var _ = Describe("Analyze", func() {
	const clean = "Time\tCycle\tPC\tInsn\tDecoded instruction\tRegister and memory contents\n" +
		"76\t10\t00000100\t0002a283\tlw\tx5,0(x6)\n" +
		"106\t13\t00000100\t0002a283\tlw\tx5,0(x6)\n" +
		"116\t14\t00000104\t00000013\taddi\tx0,x0,0\n" +
		"156\t18\t00000108\t00000013\taddi\tx0,x0,0\n"

	It("should accumulate stall cycles per stage", func() {
		result, err := stall.Analyze(strings.NewReader(clean))
		Expect(err).NotTo(HaveOccurred())

		Expect(result.Records).To(Equal(uint64(4)))
		Expect(result.Counters.Cycles(stall.StageMEM)).To(Equal(uint64(2)))
		Expect(result.Counters.Cycles(stall.StageEX)).To(Equal(uint64(3)))
		Expect(result.Skipped.Shape).To(Equal(uint64(1)))
	})

	It("should ignore blank and unparsable lines", func() {
		noisy := "Time\tCycle\tPC\tInsn\tDecoded instruction\tRegister and memory contents\n" +
			"\n" +
			"76\t10\t00000100\t0002a283\tlw\tx5,0(x6)\n" +
			"   \n" +
			"90\t12\tnothex!\t0002a283\tlw\tx5,0(x6)\n" +
			"106\t13\t00000100\t0002a283\tlw\tx5,0(x6)\n" +
			"110\tcycle\t00000104\t00000013\taddi\tx0,x0,0\n" +
			"116\t14\t00000104\t00000013\taddi\tx0,x0,0\n" +
			"156\t18\t00000108\t00000013\taddi\tx0,x0,0\n"

		want, err := stall.Analyze(strings.NewReader(clean))
		Expect(err).NotTo(HaveOccurred())

		got, err := stall.Analyze(strings.NewReader(noisy))
		Expect(err).NotTo(HaveOccurred())

		Expect(got.Counters).To(Equal(want.Counters))
		Expect(got.Records).To(Equal(want.Records))
		Expect(got.Skipped.Parse).To(Equal(uint64(2)))
		Expect(got.Skipped.Shape).To(Equal(uint64(3)))
	})

	It("should report nothing for an empty trace", func() {
		result, err := stall.Analyze(strings.NewReader(""))
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(BeZero())
	})

	Describe("AnalyzeFile", func() {
		var tempDir string

		BeforeEach(func() {
			var err error
			tempDir, err = os.MkdirTemp("", "stall-test")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			_ = os.RemoveAll(tempDir)
		})

		It("should read a trace file", func() {
			path := filepath.Join(tempDir, "trace.log")
			Expect(os.WriteFile(path, []byte(clean), 0644)).To(Succeed())

			result, err := stall.AnalyzeFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Counters.Total()).To(Equal(uint64(5)))
		})

		It("should return error for non-existent file", func() {
			_, err := stall.AnalyzeFile(filepath.Join(tempDir, "missing.log"))
			Expect(err).To(HaveOccurred())
		})
	})
})
