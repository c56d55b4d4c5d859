// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package fmtutil

import (
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("HexSlice", func() {
	It("renders bytes as hex", func() {
		Expect(HexSlice{0x10, 0xAB}.String()).To(Equal("[2]byte{0x10, 0xAB}"))
		Expect(HexSlice(nil).String()).To(Equal("[0]byte{}"))
	})
})

var _ = Describe("Size", func() {
	DescribeTable("renders binary units",
		func(s Size, expected string) {
			Expect(s.String()).To(Equal(expected))
		},
		Entry("bytes", Size(1023), "1023 B"),
		Entry("kibibytes", Size(1536), "1.5 KiB"),
		Entry("mebibytes", Size(10*1024*1024), "10.0 MiB"),
		Entry("gibibytes", Size(3*1024*1024*1024), "3.0 GiB"),
	)
})

func TestFmtUtil(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Testing fmtutil")
}
