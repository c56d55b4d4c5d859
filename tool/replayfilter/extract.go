// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package replayfilter

import (
	"fmt"
	"io"

	"github.com/danjacques/replayfilter/replay"
	"github.com/danjacques/replayfilter/support/fmtutil"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type extractCommand struct {
	*app

	input       string
	output      string
	streamEntry string
	compression replay.CompressionFlag
	level       int
}

func (a *app) newExtractCommand() *cobra.Command {
	ec := extractCommand{app: a}

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Write a replay's raw record stream to a file",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return ec.run(cmd.OutOrStdout()) },
	}

	flags := cmd.Flags()
	flags.StringVarP(&ec.input, "input", "i", "", "Input file (.mcpr).")
	flags.StringVarP(&ec.output, "output", "o", "", "Output stream file.")
	flags.StringVar(&ec.streamEntry, "stream-entry", replay.DefaultStreamEntry, "Name of the archive entry holding the record stream.")
	flags.Var(&ec.compression, "compression",
		fmt.Sprintf("Compression of the output stream file. Options are: %s.", replay.CompressionFlagValues()))
	flags.IntVar(&ec.level, "level", -1, "Compression level for GZIP. Negative values use the default.")
	return cmd
}

func (ec *extractCommand) run(out io.Writer) error {
	switch {
	case ec.input == "":
		return errors.New("an input file is required (--input)")
	case ec.output == "":
		return errors.New("an output file is required (--output)")
	}

	fd, zr, err := openArchiveFile(ec.input)
	if err != nil {
		return err
	}
	data, err := replay.ReadStream(zr, ec.streamEntry)
	_ = fd.Close()
	if err != nil {
		return err
	}

	sfc := replay.StreamFileConfig{
		Compression:      ec.compression.Value(),
		CompressionLevel: ec.level,
	}
	var written int64
	if err := writeStaged(ec.output, func(w io.Writer) (err error) {
		written, err = sfc.WriteStreamFile(w, data)
		return
	}); err != nil {
		return err
	}

	ec.log.Infof("Extracted %s from %q; wrote %s with %s compression.",
		fmtutil.Size(len(data)), ec.streamEntry, fmtutil.Size(written), sfc.Compression)
	fmt.Fprintf(out, "Stream written: %s\n", ec.output)
	return nil
}
