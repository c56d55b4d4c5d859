// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package replayfilter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/danjacques/replayfilter/packetcode"
	"github.com/danjacques/replayfilter/replay"
	"github.com/danjacques/replayfilter/replay/recordstream"
	"github.com/danjacques/replayfilter/support/stagingdir"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

type filterCommand struct {
	*app

	input       string
	output      string
	codes       packetcode.ListFlag
	method      replay.MethodFlag
	streamEntry string
	metricsFile string

	raw         bool
	compression replay.CompressionFlag
}

func (a *app) newFilterCommand() *cobra.Command {
	fc := filterCommand{app: a}

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Remove packets from a replay",
		Long: `Remove every record whose packet ID is in --codes from the replay's
record stream. All other archive entries are copied unchanged.

Codes are comma-separated, either hexadecimal ("0x65") or decimal ("101").`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error { return fc.run(cmd.OutOrStdout()) },
	}

	flags := cmd.Flags()
	flags.StringVarP(&fc.input, "input", "i", "", "Input file (.mcpr).")
	flags.StringVarP(&fc.output, "output", "o", "", "Output file (.mcpr). May be the same as the input.")
	flags.VarP(&fc.codes, "codes", "c", `List of packet codes to filter (comma-separated, e.g., "0x65,0x03").`)
	flags.Var(&fc.method, "method",
		fmt.Sprintf("Compression method for the filtered stream entry. Options are: %s.", replay.MethodFlagValues()))
	flags.StringVar(&fc.streamEntry, "stream-entry", replay.DefaultStreamEntry, "Name of the archive entry holding the record stream.")
	flags.StringVar(&fc.metricsFile, "metrics-file", "", "If set, write Prometheus metrics to this file after filtering.")
	flags.BoolVar(&fc.raw, "raw", false, "Input and output are raw record streams, not archives.")
	flags.Var(&fc.compression, "compression",
		fmt.Sprintf("Compression of raw stream files (with --raw). Options are: %s.", replay.CompressionFlagValues()))
	return cmd
}

func (fc *filterCommand) run(out io.Writer) error {
	switch {
	case fc.input == "":
		return errors.New("an input file is required (--input)")
	case fc.output == "":
		return errors.New("an output file is required (--output)")
	case len(fc.codes) == 0:
		return errors.New("at least one packet code is required (--codes)")
	}

	fc.log.Infof("Input: %s", fc.input)
	fc.log.Infof("Output: %s", fc.output)
	fc.log.Infof("Filtering the following packet IDs: %s", fc.codes.String())
	set := recordstream.NewSet(fc.codes.Codes()...)

	var reg *prometheus.Registry
	if fc.metricsFile != "" {
		reg = prometheus.NewRegistry()
		replay.RegisterMonitoring(reg)
	}

	var removed map[uint32]int
	if fc.raw {
		res, err := fc.filterRaw(set)
		if err != nil {
			return err
		}
		removed = res.Removed
	} else {
		rw := replay.Rewriter{
			StreamEntry: fc.streamEntry,
			Method:      fc.method.Value(),
			Logger:      fc.log,
		}
		rep, err := rw.RewriteFile(fc.input, fc.output, set)
		if err != nil {
			return err
		}
		if !rep.StreamFound() {
			fc.log.Warnf("Archive has no %q entry; nothing to filter.", fc.streamEntry)
		}
		removed = rep.Removed
	}

	printRemoved(out, removed)
	fmt.Fprintf(out, "Modified replay created: %s\n", fc.output)

	if reg != nil {
		if err := prometheus.WriteToTextfile(fc.metricsFile, reg); err != nil {
			return errors.Wrap(err, "writing metrics")
		}
	}
	return nil
}

// filterRaw filters a raw record stream file.
func (fc *filterCommand) filterRaw(set recordstream.Set) (*recordstream.Result, error) {
	sfc := replay.StreamFileConfig{
		Compression:      fc.compression.Value(),
		CompressionLevel: -1,
	}

	in, err := os.Open(fc.input)
	if err != nil {
		return nil, errors.Wrap(err, "opening input")
	}
	data, err := sfc.ReadStreamFile(in)
	_ = in.Close()
	if err != nil {
		return nil, err
	}

	rw := replay.Rewriter{Logger: fc.log}
	res, err := rw.FilterStream(filepath.Base(fc.input), data, set)
	if err != nil {
		return nil, err
	}

	if err := writeStaged(fc.output, func(w io.Writer) error {
		_, err := sfc.WriteStreamFile(w, res.Output)
		return err
	}); err != nil {
		return nil, err
	}
	return res, nil
}

// printRemoved prints per-code removal counts, or a notice that nothing was
// filtered.
func printRemoved(out io.Writer, removed map[uint32]int) {
	if len(removed) == 0 {
		fmt.Fprintln(out, "No packets were filtered.")
		return
	}

	fmt.Fprintln(out, "Filtered packet counts:")
	for _, code := range recordstream.NewSet(codesOf(removed)...).Codes() {
		fmt.Fprintf(out, "Packet ID %s: %d packets removed\n", packetcode.Format(code), removed[code])
	}
}

func codesOf(m map[uint32]int) []uint32 {
	codes := make([]uint32, 0, len(m))
	for c := range m {
		codes = append(codes, c)
	}
	return codes
}

// writeStaged writes a file through fn, moving it to dest only if fn
// succeeds.
func writeStaged(dest string, fn func(io.Writer) error) error {
	sd, err := stagingdir.ForDestination(dest)
	if err != nil {
		return errors.Wrap(err, "creating staging directory")
	}
	defer func() {
		_ = sd.Destroy()
	}()

	name := filepath.Base(dest)
	fd, err := sd.Create(name)
	if err != nil {
		return errors.Wrap(err, "creating output")
	}
	err = fn(fd)
	if closeErr := fd.Close(); err == nil && closeErr != nil {
		err = errors.Wrap(closeErr, "closing output")
	}
	if err != nil {
		return err
	}
	return sd.Commit(name, dest)
}
