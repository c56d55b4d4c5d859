// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package packetcode

import (
	"testing"

	"github.com/pkg/errors"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("Parse", func() {
	DescribeTable("valid codes",
		func(token string, expected uint32) {
			v, err := Parse(token)
			Expect(err).ToNot(HaveOccurred())
			Expect(v).To(Equal(expected))
		},
		Entry("hex", "0x65", uint32(101)),
		Entry("upper-case prefix", "0X65", uint32(101)),
		Entry("upper-case digits", "0xFF", uint32(255)),
		Entry("decimal", "101", uint32(101)),
		Entry("zero", "0", uint32(0)),
		Entry("hex maximum", "0xFFFFFFFF", uint32(0xFFFFFFFF)),
		Entry("decimal maximum", "4294967295", uint32(0xFFFFFFFF)),
	)

	DescribeTable("invalid codes",
		func(token string) {
			_, err := Parse(token)
			Expect(errors.Cause(err)).To(Equal(ErrInvalidCode))
		},
		Entry("letters", "abc"),
		Entry("empty", ""),
		Entry("bare prefix", "0x"),
		Entry("bad hex digit", "0xZZ"),
		Entry("hex overflow", "0x100000000"),
		Entry("decimal overflow", "4294967296"),
		Entry("negative", "-1"),
		Entry("plus sign", "+1"),
		Entry("underscore", "1_000"),
		Entry("untrimmed", " 5"),
	)
})

var _ = Describe("ParseList", func() {
	It("parses mixed tokens in order", func() {
		codes, err := ParseList("0xFF,3")
		Expect(err).ToNot(HaveOccurred())
		Expect(codes).To(Equal([]uint32{255, 3}))
	})

	It("trims whitespace around tokens", func() {
		codes, err := ParseList(" 0x65 ,\t101 , 0X03")
		Expect(err).ToNot(HaveOccurred())
		Expect(codes).To(Equal([]uint32{101, 101, 3}))
	})

	It("fails on the first invalid token with no partial result", func() {
		codes, err := ParseList("1,abc,2")
		Expect(errors.Cause(err)).To(Equal(ErrInvalidCode))
		Expect(err.Error()).To(ContainSubstring(`"abc"`))
		Expect(codes).To(BeNil())
	})

	It("fails on an empty token", func() {
		_, err := ParseList("1,,2")
		Expect(errors.Cause(err)).To(Equal(ErrInvalidCode))
	})
})

var _ = Describe("ListFlag", func() {
	It("accumulates repeated values", func() {
		var lf ListFlag
		Expect(lf.Set("0x65,3")).To(Succeed())
		Expect(lf.Set("7")).To(Succeed())
		Expect(lf.Codes()).To(Equal([]uint32{0x65, 3, 7}))
		Expect(lf.String()).To(Equal("0x65,0x03,0x07"))
	})

	It("rejects invalid lists", func() {
		var lf ListFlag
		Expect(lf.Set("0xG")).ToNot(Succeed())
		Expect(lf.Codes()).To(BeEmpty())
	})
})

func TestPacketCode(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Testing packetcode")
}
