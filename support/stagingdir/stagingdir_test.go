// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package stagingdir

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("D", func() {
	var tdir string
	BeforeEach(func() {
		var err error
		tdir, err = os.MkdirTemp("", "stagingdir_test")
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		if tdir != "" {
			_ = os.RemoveAll(tdir)
			tdir = ""
		}
	})

	writeStaged := func(sd *D, name, content string) {
		fd, err := sd.Create(name)
		Expect(err).ToNot(HaveOccurred())
		_, err = fd.WriteString(content)
		Expect(err).ToNot(HaveOccurred())
		Expect(fd.Close()).To(Succeed())
	}

	It("commits a staged file over an existing destination", func() {
		dest := filepath.Join(tdir, "out.mcpr")
		Expect(os.WriteFile(dest, []byte("old"), 0644)).To(Succeed())

		sd, err := ForDestination(dest)
		Expect(err).ToNot(HaveOccurred())
		writeStaged(sd, "out.mcpr", "new")
		Expect(sd.Commit("out.mcpr", dest)).To(Succeed())

		data, err := os.ReadFile(dest)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(data)).To(Equal("new"))

		By("leaving nothing else behind")
		entries, err := os.ReadDir(tdir)
		Expect(err).ToNot(HaveOccurred())
		Expect(entries).To(HaveLen(1))
	})

	It("leaves the destination untouched when destroyed", func() {
		dest := filepath.Join(tdir, "out.mcpr")

		sd, err := ForDestination(dest)
		Expect(err).ToNot(HaveOccurred())
		writeStaged(sd, "out.mcpr", "partial")
		Expect(sd.Destroy()).To(Succeed())
		Expect(sd.Destroy()).To(Succeed())

		_, err = os.Stat(dest)
		Expect(os.IsNotExist(err)).To(BeTrue())
		Expect(sd.Commit("out.mcpr", dest)).ToNot(Succeed())
	})

	It("refuses to replace a directory", func() {
		sd, err := New(tdir, "staging")
		Expect(err).ToNot(HaveOccurred())
		defer func() { _ = sd.Destroy() }()

		writeStaged(sd, "file", "data")
		Expect(sd.Commit("file", tdir)).ToNot(Succeed())
	})

	It("builds nested paths", func() {
		sd, err := New(tdir, "staging")
		Expect(err).ToNot(HaveOccurred())
		defer func() { _ = sd.Destroy() }()

		Expect(sd.Path("a", "b", "c")).To(Equal(filepath.Join(sd.Path("a"), "b", "c")))
	})
})

func TestStagingDir(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Testing stagingdir")
}
