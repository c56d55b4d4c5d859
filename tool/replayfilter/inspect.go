// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package replayfilter

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/danjacques/replayfilter/replay"
	"github.com/danjacques/replayfilter/support/fmtutil"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type inspectCommand struct {
	*app

	input       string
	streamEntry string
}

func (a *app) newInspectCommand() *cobra.Command {
	ic := inspectCommand{app: a}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Describe the contents of a replay",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return ic.run(cmd.OutOrStdout()) },
	}

	flags := cmd.Flags()
	flags.StringVarP(&ic.input, "input", "i", "", "Input file (.mcpr).")
	flags.StringVar(&ic.streamEntry, "stream-entry", replay.DefaultStreamEntry, "Name of the archive entry holding the record stream.")
	return cmd
}

func (ic *inspectCommand) run(out io.Writer) error {
	if ic.input == "" {
		return errors.New("an input file is required (--input)")
	}

	fd, zr, err := openArchiveFile(ic.input)
	if err != nil {
		return err
	}
	defer func() {
		_ = fd.Close()
	}()

	insp, err := replay.Inspect(zr, ic.streamEntry)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Entry\tMethod\tCompressed\tSize\tModified\n")
	for _, e := range insp.Entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.Name, methodName(e.Method),
			fmtutil.Size(e.CompressedSize), fmtutil.Size(e.UncompressedSize), e.Modified.Format(time.RFC3339))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if insp.MetadataError != nil {
		ic.log.Warnf("Could not parse metadata: %s", insp.MetadataError)
	}
	if md := insp.Metadata; md != nil {
		fmt.Fprintln(out)
		tw = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "Server:\t%s\n", md.ServerName)
		fmt.Fprintf(tw, "Singleplayer:\t%v\n", md.Singleplayer)
		fmt.Fprintf(tw, "Date:\t%s\n", md.Date.Format(time.RFC3339))
		fmt.Fprintf(tw, "Duration:\t%s\n", md.Duration)
		fmt.Fprintf(tw, "Version:\t%s (protocol %d)\n", md.MCVersion, md.Protocol)
		fmt.Fprintf(tw, "Format:\t%s v%d\n", md.FileFormat, md.FileFormatVersion)
		fmt.Fprintf(tw, "Generator:\t%s\n", md.Generator)
		fmt.Fprintf(tw, "Players:\t%d\n", md.Players)
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintln(out)
	h := insp.Histogram
	if h == nil {
		fmt.Fprintf(out, "No %q entry.\n", ic.streamEntry)
		return nil
	}

	fmt.Fprintf(out, "Stream: %d records, %s, last timestamp %s\n",
		h.Records, fmtutil.Size(insp.StreamBytes), time.Duration(h.MaxTimestamp)*time.Millisecond)
	if insp.Halt != nil {
		fmt.Fprintf(out, "Stream halted: %s\n", insp.Halt)
	}
	if insp.TrailingBytes > 0 {
		fmt.Fprintf(out, "Trailing fragment: %d byte(s)\n", insp.TrailingBytes)
	}

	tw = tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Packet ID\tRecords\tBytes\t\n")
	for _, e := range h.Entries() {
		fmt.Fprintf(tw, "%s\t%d\t%s\t\n", e.Tag, e.Records, fmtutil.Size(e.Bytes))
	}
	return tw.Flush()
}

func methodName(m uint16) string {
	switch m {
	case zip.Store:
		return "store"
	case zip.Deflate:
		return "deflate"
	case zstd.ZipMethodWinZip:
		return "zstd"
	default:
		return fmt.Sprintf("method(%d)", m)
	}
}

// openArchiveFile opens the replay archive at path. The caller must close the
// returned file when finished with the archive.
func openArchiveFile(path string) (*os.File, *zip.Reader, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening input")
	}

	st, err := fd.Stat()
	if err == nil {
		var zr *zip.Reader
		if zr, err = replay.OpenArchive(fd, st.Size()); err == nil {
			return fd, zr, nil
		}
	}
	_ = fd.Close()
	return nil, nil, errors.Wrapf(err, "reading %q", path)
}
