// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package replayfilter

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/danjacques/replayfilter/replay"
	"github.com/danjacques/replayfilter/replay/recordstream"

	"github.com/klauspost/compress/zip"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func writeTestStream(records ...[]byte) []byte {
	var buf bytes.Buffer
	sw := recordstream.NewWriter(&buf)
	for i, payload := range records {
		Expect(sw.WriteRecord(int32(i*10), payload)).To(Succeed())
	}
	return buf.Bytes()
}

func writeTestArchive(path string, stream []byte) {
	fd, err := os.Create(path)
	Expect(err).ToNot(HaveOccurred())
	defer fd.Close()

	zw := zip.NewWriter(fd)
	for _, e := range []struct {
		name string
		data []byte
	}{
		{replay.MetadataEntry, []byte(`{"serverName":"test server","duration":1500,"protocol":754,"players":["a","b"]}`)},
		{replay.DefaultStreamEntry, stream},
	} {
		w, err := zw.Create(e.name)
		Expect(err).ToNot(HaveOccurred())
		_, err = w.Write(e.data)
		Expect(err).ToNot(HaveOccurred())
	}
	Expect(zw.Close()).To(Succeed())
}

func readTestStream(path string) []byte {
	fd, zr, err := openArchiveFile(path)
	Expect(err).ToNot(HaveOccurred())
	defer fd.Close()

	data, err := replay.ReadStream(zr, replay.DefaultStreamEntry)
	Expect(err).ToNot(HaveOccurred())
	return data
}

var _ = Describe("replayfilter", func() {
	var (
		tdir   string
		input  string
		output string
		stream []byte
		stdout bytes.Buffer
		stderr bytes.Buffer
	)

	BeforeEach(func() {
		var err error
		tdir, err = os.MkdirTemp("", "replayfilter_test")
		Expect(err).ToNot(HaveOccurred())

		input = filepath.Join(tdir, "in.mcpr")
		output = filepath.Join(tdir, "out.mcpr")
		stream = writeTestStream(
			[]byte{0x65, 0x01},
			[]byte{0x03},
			[]byte{0x65, 0x02},
			[]byte{0x10, 0xFF},
		)
		writeTestArchive(input, stream)

		stdout.Reset()
		stderr.Reset()
	})

	AfterEach(func() {
		Expect(os.RemoveAll(tdir)).To(Succeed())
	})

	run := func(args ...string) error {
		root := NewCommand()
		root.SetArgs(args)
		root.SetOut(&stdout)
		root.SetErr(&stderr)
		return root.Execute()
	}

	Context("filter", func() {
		It("removes the listed packets and reports their counts", func() {
			Expect(run("filter", "-i", input, "-o", output, "-c", "0x65, 3")).To(Succeed())

			Expect(stdout.String()).To(ContainSubstring("Filtered packet counts:\n" +
				"Packet ID 0x03: 1 packets removed\n" +
				"Packet ID 0x65: 2 packets removed\n"))
			Expect(stdout.String()).To(ContainSubstring("Modified replay created: " + output))

			var expected bytes.Buffer
			Expect(recordstream.NewWriter(&expected).WriteRecord(30, []byte{0x10, 0xFF})).To(Succeed())
			Expect(readTestStream(output)).To(Equal(expected.Bytes()))
		})

		It("reports when nothing was filtered", func() {
			Expect(run("filter", "-i", input, "-o", output, "-c", "0x7F")).To(Succeed())
			Expect(stdout.String()).To(ContainSubstring("No packets were filtered."))
			Expect(readTestStream(output)).To(Equal(stream))
		})

		It("rejects an invalid code before touching any file", func() {
			missing := filepath.Join(tdir, "missing.mcpr")
			err := run("filter", "-i", missing, "-o", output, "-c", "0x65,zz")
			Expect(err).To(MatchError(ContainSubstring(`"zz"`)))
			Expect(output).ToNot(BeAnExistingFile())
		})

		It("requires at least one code", func() {
			Expect(run("filter", "-i", input, "-o", output)).To(MatchError(ContainSubstring("--codes")))
			Expect(output).ToNot(BeAnExistingFile())
		})

		It("leaves no output when the input is not an archive", func() {
			Expect(os.WriteFile(input, []byte("not a zip"), 0644)).To(Succeed())
			Expect(run("filter", "-i", input, "-o", output, "-c", "0x65")).ToNot(Succeed())
			Expect(output).ToNot(BeAnExistingFile())
		})

		It("reads codes from a configuration file", func() {
			config := filepath.Join(tdir, "config.yaml")
			Expect(os.WriteFile(config, []byte("codes:\n  - \"0x65\"\n  - \"0x03\"\n"), 0644)).To(Succeed())

			Expect(run("--config", config, "filter", "-i", input, "-o", output)).To(Succeed())
			Expect(stdout.String()).To(ContainSubstring("Packet ID 0x65: 2 packets removed"))
			Expect(stdout.String()).To(ContainSubstring("Packet ID 0x03: 1 packets removed"))
		})

		It("writes metrics when asked", func() {
			metrics := filepath.Join(tdir, "metrics.prom")
			Expect(run("filter", "-i", input, "-o", output, "-c", "0x65", "--metrics-file", metrics)).To(Succeed())

			data, err := os.ReadFile(metrics)
			Expect(err).ToNot(HaveOccurred())
			Expect(string(data)).To(ContainSubstring("replayfilter_records_kept"))
			Expect(string(data)).To(ContainSubstring(`replayfilter_records_removed{code="0x65"}`))
		})

		It("filters raw stream files", func() {
			rawIn := filepath.Join(tdir, "in.tmcpr")
			rawOut := filepath.Join(tdir, "out.tmcpr")
			Expect(os.WriteFile(rawIn, stream, 0644)).To(Succeed())

			Expect(run("filter", "--raw", "-i", rawIn, "-o", rawOut, "-c", "0x10")).To(Succeed())
			data, err := os.ReadFile(rawOut)
			Expect(err).ToNot(HaveOccurred())
			Expect(data).To(Equal(writeTestStream(
				[]byte{0x65, 0x01},
				[]byte{0x03},
				[]byte{0x65, 0x02},
			)))
		})
	})

	Context("inspect", func() {
		It("describes entries, metadata, and the stream", func() {
			Expect(run("inspect", "-i", input)).To(Succeed())

			out := stdout.String()
			Expect(out).To(ContainSubstring(replay.MetadataEntry))
			Expect(out).To(ContainSubstring("test server"))
			Expect(out).To(ContainSubstring("Players:"))
			Expect(out).To(ContainSubstring("Stream: 4 records"))
			Expect(out).To(MatchRegexp(`0x65\s+2\s`))
		})
	})

	Context("extract", func() {
		It("writes the record stream, optionally compressed", func() {
			rawOut := filepath.Join(tdir, "stream.gz")
			Expect(run("extract", "-i", input, "-o", rawOut, "--compression", "gzip")).To(Succeed())

			fd, err := os.Open(rawOut)
			Expect(err).ToNot(HaveOccurred())
			defer fd.Close()
			gz, err := gzip.NewReader(fd)
			Expect(err).ToNot(HaveOccurred())
			data, err := io.ReadAll(gz)
			Expect(err).ToNot(HaveOccurred())
			Expect(data).To(Equal(stream))
		})
	})
})

func TestReplayFilter(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Testing replayfilter")
}
