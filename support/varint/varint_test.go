// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package varint

import (
	"io"
	"math"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("Decode", func() {
	DescribeTable("valid encodings",
		func(data []byte, value uint32, size int) {
			v, n, err := Decode(data)
			Expect(err).ToNot(HaveOccurred())
			Expect(v).To(Equal(value))
			Expect(n).To(Equal(size))
		},
		Entry("zero", []byte{0x00}, uint32(0), 1),
		Entry("single byte maximum", []byte{0x7F}, uint32(0x7F), 1),
		Entry("two bytes", []byte{0xFF, 0x01}, uint32(255), 2),
		Entry("stops at the terminating byte", []byte{0x05, 0xAA, 0xBB}, uint32(5), 1),
		Entry("five bytes", []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x0F}, uint32(math.MaxUint32), 5),
		Entry("discards bits beyond 32", []byte{0x80, 0x80, 0x80, 0x80, 0x7F}, uint32(0xF0000000), 5),
	)

	DescribeTable("invalid encodings",
		func(data []byte, expected error) {
			_, _, err := Decode(data)
			Expect(err).To(Equal(expected))
		},
		Entry("empty", []byte(nil), io.ErrUnexpectedEOF),
		Entry("unterminated", []byte{0x80}, io.ErrUnexpectedEOF),
		Entry("unterminated after four bytes", []byte{0x80, 0x81, 0x82, 0x83}, io.ErrUnexpectedEOF),
		Entry("five continuation bytes then end of input", []byte{0x80, 0x80, 0x80, 0x80, 0x80}, io.ErrUnexpectedEOF),
		Entry("six continuation bytes", []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80}, ErrTooLong),
		Entry("terminating sixth byte", []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01}, ErrTooLong),
	)
})

var _ = Describe("Append", func() {
	It("encodes values that Decode reads back", func() {
		for _, v := range []uint32{0, 1, 0x7F, 0x80, 0x3FFF, 0x4000, 0xFFFF, math.MaxUint32} {
			buf := Append([]byte{0xAA}, v)
			Expect(buf[0]).To(Equal(byte(0xAA)))
			Expect(len(buf) - 1).To(Equal(Size(v)))

			dv, n, err := Decode(buf[1:])
			Expect(err).ToNot(HaveOccurred())
			Expect(dv).To(Equal(v))
			Expect(n).To(Equal(Size(v)))
		}
	})
})

func TestVarint(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Testing varint")
}
