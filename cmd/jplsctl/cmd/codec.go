package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cocosip/go-jpegls/jpegls"
)

func interleaveFromFlag(name string) (jpegls.InterleaveMode, error) {
	switch name {
	case "none":
		return jpegls.InterleaveNone, nil
	case "line":
		return jpegls.InterleaveLine, nil
	case "sample":
		return jpegls.InterleaveSample, nil
	}
	return 0, fmt.Errorf("unknown interleave mode %q (none|line|sample)", name)
}

// NewEncodeCmd compresses a raw pixel dump into a JPEG-LS stream.
func NewEncodeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "compress raw pixels to JPEG-LS",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")
			output, _ := cmd.Flags().GetString("output")
			width, _ := cmd.Flags().GetInt("width")
			height, _ := cmd.Flags().GetInt("height")
			components, _ := cmd.Flags().GetInt("components")
			bits, _ := cmd.Flags().GetInt("bits")
			near, _ := cmd.Flags().GetInt("near")
			ilvName, _ := cmd.Flags().GetString("interleave")

			ilv, err := interleaveFromFlag(ilvName)
			if err != nil {
				return err
			}
			pixels, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}

			var fi jpegls.FrameInfo
			if strings.HasSuffix(input, ".pgm") {
				pixels, fi, err = readPGM(pixels)
				if err != nil {
					return fmt.Errorf("failed to parse PGM: %w", err)
				}
			} else {
				if width == 0 || height == 0 {
					return fmt.Errorf("raw input needs --width and --height")
				}
				fi = jpegls.FrameInfo{
					Width:          width,
					Height:         height,
					BitsPerSample:  bits,
					ComponentCount: components,
				}
			}
			encoded, err := jpegls.Encode(pixels, fi, &jpegls.EncodeOptions{
				NearLossless: near,
				Interleave:   ilv,
			})
			if err != nil {
				return fmt.Errorf("encode failed: %w", err)
			}
			if err := os.WriteFile(output, encoded, 0644); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			slog.InfoContext(ctx, "encoded",
				"input", input, "output", output,
				"raw_bytes", len(pixels), "encoded_bytes", len(encoded),
				"ratio", fmt.Sprintf("%.2f", float64(len(pixels))/float64(len(encoded))))
			return nil
		},
	}
	pf := cmd.Flags()
	pf.StringP("input", "i", "", "raw pixel or .pgm file")
	pf.StringP("output", "o", "", "JPEG-LS output file")
	pf.IntP("width", "W", 0, "image width in samples (raw input)")
	pf.IntP("height", "H", 0, "image height in samples (raw input)")
	pf.IntP("components", "c", 1, "components per pixel (raw input)")
	pf.IntP("bits", "b", 8, "bits per sample, 2-16 (raw input)")
	pf.IntP("near", "n", 0, "near-lossless error bound (0 = lossless)")
	pf.String("interleave", "none", "interleave mode (none|line|sample)")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
	return cmd
}

// NewDecodeCmd decompresses a JPEG-LS stream to raw pixels.
func NewDecodeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "decompress JPEG-LS to raw pixels",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")
			output, _ := cmd.Flags().GetString("output")

			data, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			pixels, fi, err := jpegls.Decode(data)
			if err != nil {
				return fmt.Errorf("decode failed: %w", err)
			}
			if strings.HasSuffix(output, ".pgm") {
				err = writePGM(output, pixels, fi)
			} else {
				err = os.WriteFile(output, pixels, 0644)
			}
			if err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			slog.InfoContext(ctx, "decoded",
				"input", input, "output", output,
				"width", fi.Width, "height", fi.Height,
				"components", fi.ComponentCount, "bits", fi.BitsPerSample)
			return nil
		},
	}
	pf := cmd.Flags()
	pf.StringP("input", "i", "", "JPEG-LS input file")
	pf.StringP("output", "o", "", "raw pixel or .pgm output file")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
	return cmd
}

// NewInfoCmd prints the header of a JPEG-LS stream without decoding it.
func NewInfoCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "print JPEG-LS stream header info",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")

			data, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			fi, ilv, err := jpegls.ReadFrameInfo(data)
			if err != nil {
				return fmt.Errorf("failed to parse header: %w", err)
			}

			out := map[string]any{
				"width":      fi.Width,
				"height":     fi.Height,
				"bits":       fi.BitsPerSample,
				"components": fi.ComponentCount,
				"interleave": ilv.String(),
			}
			j, _ := json.MarshalIndent(out, "", "  ")
			fmt.Println(string(j))
			return nil
		},
	}
	cmd.Flags().StringP("input", "i", "", "JPEG-LS input file")
	cmd.MarkFlagRequired("input")
	return cmd
}
