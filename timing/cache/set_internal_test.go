package cache

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("set", func() {
	var s set

	BeforeEach(func() {
		s = newSet(4)
	})

	It("should pick invalid ways in order before any valid one", func() {
		for i := uint64(0); i < 4; i++ {
			v := s.victim()
			Expect(v).To(BeIdenticalTo(&s.lines[i]))
			s.install(v, i<<10, i<<10)
		}
	})

	It("should pick the smallest recency stamp when full", func() {
		for i := uint64(0); i < 4; i++ {
			s.install(s.victim(), i<<10, i<<10)
		}
		s.find(0 << 10)
		s.find(2 << 10)
		s.find(3 << 10)

		Expect(s.victim()).To(BeIdenticalTo(&s.lines[1]))
	})

	It("should advance the recency counter on lookups that miss", func() {
		s.find(0x400)
		s.find(0x800)

		Expect(s.lastVisit).To(Equal(uint64(2)))
	})

	It("should install clean lines", func() {
		v := s.victim()
		v.isDirty = true
		s.install(v, 0x400, 0x404)

		Expect(v.isValid).To(BeTrue())
		Expect(v.isDirty).To(BeFalse())
		Expect(v.address).To(Equal(uint64(0x404)))
	})

	It("should panic when a resident tag is installed again", func() {
		s.install(s.victim(), 0x400, 0x400)

		Expect(func() { s.install(s.victim(), 0x400, 0x400) }).To(Panic())
	})

	It("should panic when a set has no ways", func() {
		empty := newSet(0)

		Expect(func() { empty.victim() }).To(Panic())
	})
})
