package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cocosip/go-jpegls/dicom"
)

// NewTranscodeCmd rewrites a DICOM file between native and JPEG-LS
// pixel data.
func NewTranscodeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcode",
		Short: "transcode DICOM pixel data to or from JPEG-LS",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")
			output, _ := cmd.Flags().GetString("output")
			near, _ := cmd.Flags().GetInt("near")
			decompress, _ := cmd.Flags().GetBool("decompress")

			ds, err := dicom.ReadFile(input)
			if err != nil {
				return err
			}
			before := ds.TransferSyntaxUID()

			if decompress {
				err = dicom.Decompress(ds)
			} else {
				err = dicom.Compress(ds, dicom.CompressOptions{NearLossless: near})
			}
			if err != nil {
				return fmt.Errorf("transcode failed: %w", err)
			}

			if err := ds.Save(output); err != nil {
				return err
			}
			slog.InfoContext(ctx, "transcoded",
				"input", input, "output", output,
				"from", before, "to", ds.TransferSyntaxUID())
			return nil
		},
	}
	pf := cmd.Flags()
	pf.StringP("input", "i", "", "DICOM input file")
	pf.StringP("output", "o", "", "DICOM output file")
	pf.IntP("near", "n", 0, "near-lossless error bound (0 = lossless)")
	pf.Bool("decompress", false, "decompress JPEG-LS back to native pixel data")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
	return cmd
}
