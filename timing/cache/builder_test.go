package cache_test

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/timing/cache"
)

func tinyLevel(name string, capacity, ways, latency uint64) cache.Config {
	return cache.Config{
		Name:          name,
		WriteAllocate: true,
		Capacity:      capacity,
		Associativity: ways,
		LineSize:      16,
		Latency:       latency,
	}
}

var _ = Describe("Builder", func() {
	It("should return the backing store when no level is given", func() {
		top, err := cache.MakeBuilder().WithMemoryLatency(42).Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(top.Access(0x10, cache.OpRead)).To(Equal(uint64(42)))
		Expect(cache.Levels(top)).To(BeEmpty())
	})

	It("should chain levels from the closest to the farthest", func() {
		top, err := cache.MakeBuilder().
			WithMemoryLatency(50).
			WithLevels(
				tinyLevel("L1", 256, 2, 1),
				tinyLevel("L2", 1024, 4, 5),
			).
			WithLevel(tinyLevel("L3", 4096, 4, 10)).
			Build()
		Expect(err).NotTo(HaveOccurred())

		levels := cache.Levels(top)
		Expect(levels).To(HaveLen(3))
		Expect(levels[0].Name()).To(Equal("L1"))
		Expect(levels[1].Name()).To(Equal("L2"))
		Expect(levels[2].Name()).To(Equal("L3"))
		Expect(levels[2].Lower()).To(BeAssignableToTypeOf(&cache.Memory{}))
	})

	It("should name unnamed levels by position", func() {
		top, err := cache.MakeBuilder().
			WithLevels(tinyLevel("", 256, 2, 1), tinyLevel("", 1024, 4, 5)).
			Build()
		Expect(err).NotTo(HaveOccurred())

		levels := cache.Levels(top)
		Expect(levels[0].Name()).To(Equal("L1"))
		Expect(levels[1].Name()).To(Equal("L2"))
	})

	It("should keep given names and name the rest by position", func() {
		top, err := cache.MakeBuilder().
			WithLevels(
				tinyLevel("", 256, 2, 1),
				tinyLevel("mid", 1024, 4, 5),
				tinyLevel("", 4096, 4, 10),
			).
			Build()
		Expect(err).NotTo(HaveOccurred())

		names := []string{}
		for _, level := range cache.Levels(top) {
			names = append(names, level.Name())
			Expect(level.Config().Name).To(Equal(level.Name()))
		}
		Expect(names).To(Equal([]string{"L1", "mid", "L3"}))
	})

	It("should name an unnamed invalid level in the error", func() {
		_, err := cache.MakeBuilder().
			WithLevels(tinyLevel("", 256, 2, 1), tinyLevel("", 1000, 4, 5)).
			Build()

		Expect(err).To(MatchError(cache.ErrInvalidConfig))
		Expect(err.Error()).To(ContainSubstring("level 2"))
		Expect(err.Error()).To(ContainSubstring("L2"))
	})

	It("should fail the whole build on one invalid level", func() {
		bad := tinyLevel("L2", 1000, 4, 5)

		top, err := cache.MakeBuilder().
			WithLevels(tinyLevel("L1", 256, 2, 1), bad).
			Build()

		Expect(err).To(MatchError(cache.ErrInvalidConfig))
		Expect(err.Error()).To(ContainSubstring("level 2"))
		Expect(top).To(BeNil())
	})

	It("should not share levels between builders", func() {
		base := cache.MakeBuilder().WithLevel(tinyLevel("L1", 256, 2, 1))
		a := base.WithLevel(tinyLevel("L2", 1024, 4, 5))
		b := base.WithLevel(tinyLevel("LLC", 4096, 4, 10))

		topA, err := a.Build()
		Expect(err).NotTo(HaveOccurred())
		topB, err := b.Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(cache.Levels(topA)[1].Name()).To(Equal("L2"))
		Expect(cache.Levels(topB)[1].Name()).To(Equal("LLC"))
	})

	Describe("Three-level aggregation", func() {
		var top cache.Storage

		BeforeEach(func() {
			var err error
			top, err = cache.MakeBuilder().
				WithMemoryLatency(50).
				WithLevels(
					tinyLevel("L1", 256, 2, 1),
					tinyLevel("L2", 1024, 4, 5),
					tinyLevel("L3", 4096, 4, 10),
				).
				Build()
			Expect(err).NotTo(HaveOccurred())
		})

		It("should charge every level on a cold miss", func() {
			Expect(top.Access(0x100, cache.OpRead)).To(Equal(uint64(1 + 5 + 10 + 50)))

			levels := cache.Levels(top)
			for _, l := range levels {
				Expect(l.LocalStats().NumMiss).To(Equal(uint64(1)))
				Expect(l.LocalStats().NumAccess).To(Equal(uint64(1)))
			}

			Expect(top.Stats()).To(Equal(cache.Statistics{
				NumAccess: 3,
				NumMiss:   3,
				Time:      66 + 65 + 60,
			}))
		})

		It("should charge only the top level on a hit", func() {
			top.Access(0x100, cache.OpRead)
			Expect(top.Access(0x104, cache.OpWrite)).To(Equal(uint64(1)))

			levels := cache.Levels(top)
			Expect(levels[1].LocalStats().NumAccess).To(Equal(uint64(1)))
		})

		It("should sum the stats of every level", func() {
			var total uint64
			ops := 0
			for i := uint64(0); i < 200; i++ {
				addr := (i * 0x130) % 0x3000
				op := cache.OpRead
				if i%3 == 0 {
					op = cache.OpWrite
				}
				total += top.Access(addr, op)
				ops++
			}

			levels := cache.Levels(top)
			Expect(levels[0].LocalStats().NumAccess).To(Equal(uint64(ops)))
			Expect(levels[0].LocalStats().Time).To(Equal(total))

			var sum cache.Statistics
			for _, l := range levels {
				sum = sum.Add(l.LocalStats())
			}
			Expect(top.Stats()).To(Equal(sum))

			Expect(levels[0].LocalStats().AMAT()).To(BeNumerically(">=", 1.0))
		})

		It("should report every level from the top down", func() {
			top.Access(0x100, cache.OpRead)

			buf := &bytes.Buffer{}
			top.Report(buf)

			output := buf.String()
			l1 := strings.Index(output, "L1:")
			l2 := strings.Index(output, "L2:")
			l3 := strings.Index(output, "L3:")
			Expect(l1).To(BeNumerically(">=", 0))
			Expect(l2).To(BeNumerically(">", l1))
			Expect(l3).To(BeNumerically(">", l2))
		})
	})
})
