package order_test

import (
	"bytes"
	"errors"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/plan-checkout/internal/order"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy exhausted")
}

var _ = Describe("IDGenerator", func() {
	var (
		generator *order.IDGenerator
		now       time.Time
	)

	BeforeEach(func() {
		generator = order.NewIDGenerator()
		now = time.Date(2024, time.March, 7, 9, 41, 0, 0, time.UTC)
	})

	It("joins name, date-hour stamp, floored amount and suffix", func() {
		id, err := generator.Generate("My Great Plan!!", decimal.RequireFromString("85.00"), now)

		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(MatchRegexp(`^MyGreatPla-07-03-2024-09-85-[0-9a-z]{6}$`))
	})

	It("keeps the first segment case and contains the floored amount", func() {
		id, err := generator.Generate("My Great Plan!!", decimal.RequireFromString("85.00"), now)

		Expect(err).NotTo(HaveOccurred())
		Expect(strings.Split(id, "-")[0]).To(Equal("MyGreatPla"))
		Expect(id).To(ContainSubstring("85"))
	})

	It("floors fractional amounts", func() {
		id, err := generator.Generate("Pro", decimal.RequireFromString("42.99"), now)

		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(HavePrefix("Pro-07-03-2024-09-42-"))
	})

	It("produces different suffixes across calls", func() {
		seen := map[string]struct{}{}
		for i := 0; i < 50; i++ {
			id, err := generator.Generate("Pro", decimal.NewFromInt(10), now)
			Expect(err).NotTo(HaveOccurred())
			seen[id] = struct{}{}
		}
		Expect(len(seen)).To(BeNumerically(">", 45))
	})

	It("is deterministic for a fixed random source", func() {
		source := bytes.Repeat([]byte{0}, 64)
		id, err := order.NewIDGeneratorWithSource(bytes.NewReader(source)).
			Generate("Basic", decimal.NewFromInt(10), now)

		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(Equal("Basic-07-03-2024-09-10-000000"))
	})

	It("surfaces entropy failures", func() {
		_, err := order.NewIDGeneratorWithSource(failingReader{}).
			Generate("Basic", decimal.NewFromInt(10), now)

		Expect(err).To(MatchError(ContainSubstring("entropy exhausted")))
	})
})

var _ = Describe("NormalizePlanName", func() {
	DescribeTable("normalizes",
		func(in, out string) {
			Expect(order.NormalizePlanName(in)).To(Equal(out))
		},
		Entry("spaces removed", "Pro Plan", "ProPlan"),
		Entry("dots removed", "v2.Pro.Plan", "v2ProPlan"),
		Entry("tabs and newlines removed", "Pro\tPlan\n", "ProPlan"),
		Entry("truncated to ten", "Enterprise Unlimited", "Enterprise"),
		Entry("multibyte kept whole", "Año Básico Premium", "AñoBásicoP"),
		Entry("empty falls back", " . ", "order"),
	)
})
