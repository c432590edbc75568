package rawio

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/jpfielding/isp.go/pkg/isp"
	"github.com/lmittmann/ppm"
	"golang.org/x/image/tiff"
)

// Format is an output image container.
type Format string

const (
	FormatPPM  Format = "ppm"
	FormatPNG  Format = "png"
	FormatTIFF Format = "tiff"
)

// FormatFromPath picks the output format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ppm":
		return FormatPPM, nil
	case ".png":
		return FormatPNG, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	}
	return "", fmt.Errorf("unsupported output extension %q (ppm|png|tif)", filepath.Ext(path))
}

// Extension is the file suffix written for the format.
func (f Format) Extension() string {
	if f == FormatTIFF {
		return ".tif"
	}
	return "." + string(f)
}

// Encode writes img in the given format.
func Encode(w io.Writer, img *isp.RgbBuffer, f Format) error {
	switch f {
	case FormatPPM:
		return EncodePPM(w, img)
	case FormatPNG:
		return EncodePNG(w, img)
	case FormatTIFF:
		return EncodeTIFF(w, img)
	}
	return fmt.Errorf("unsupported format %q", f)
}

// SaveImage writes img to path, choosing the encoder from the extension.
func SaveImage(path string, img *isp.RgbBuffer) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if err := saveFile(path, func(w io.Writer) error { return Encode(w, img, f) }); err != nil {
		return err
	}
	slog.Debug("Saved image", slog.String("path", path), slog.String("format", string(f)))
	return nil
}

// EncodePPM writes a binary P6 pixmap whose maxval is the buffer's MaxValue.
// Samples above 255 use two big-endian bytes, as the netpbm format requires.
func EncodePPM(w io.Writer, img *isp.RgbBuffer) error {
	max := img.MaxValue()
	if max <= 255 {
		return ppm.Encode(w, ToRGBA(img))
	}
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n%d\n", img.Width, img.Height, max); err != nil {
		return err
	}
	var px [6]byte
	for _, p := range img.Pixels {
		px[0], px[1] = byte(p.R>>8), byte(p.R)
		px[2], px[3] = byte(p.G>>8), byte(p.G)
		px[4], px[5] = byte(p.B>>8), byte(p.B)
		if _, err := bw.Write(px[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// EncodePGM writes the mosaic as a binary P5 graymap, for inspecting a frame
// before demosaicing.
func EncodePGM(w io.Writer, m *isp.MosaicBuffer) error {
	max := m.MaxValue()
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P5\n%d %d\n%d\n", m.Width, m.Height, max); err != nil {
		return err
	}
	for _, s := range m.Samples {
		if max > 255 {
			if err := bw.WriteByte(byte(s >> 8)); err != nil {
				return err
			}
		}
		if err := bw.WriteByte(byte(s)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// EncodePNG down-converts every channel to 8 bits (c*255/max) and writes a
// PNG.
func EncodePNG(w io.Writer, img *isp.RgbBuffer) error {
	return png.Encode(w, ToRGBA(img))
}

// EncodeTIFF keeps the native precision by rescaling to 16 bits per channel
// and writing a deflate-compressed TIFF.
func EncodeTIFF(w io.Writer, img *isp.RgbBuffer) error {
	return tiff.Encode(w, ToRGBA64(img), &tiff.Options{Compression: tiff.Deflate})
}

// ToRGBA converts to an opaque 8-bit image using c*255/max.
func ToRGBA(img *isp.RgbBuffer) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	max := uint32(img.MaxValue())
	down := func(v uint16) uint8 { return uint8(uint32(v) * 255 / max) }
	for i, p := range img.Pixels {
		o := i * 4
		out.Pix[o+0] = down(p.R)
		out.Pix[o+1] = down(p.G)
		out.Pix[o+2] = down(p.B)
		out.Pix[o+3] = 0xff
	}
	return out
}

// ToRGBA64 converts to an opaque 16-bit image using c*65535/max.
func ToRGBA64(img *isp.RgbBuffer) *image.RGBA64 {
	out := image.NewRGBA64(image.Rect(0, 0, img.Width, img.Height))
	max := uint32(img.MaxValue())
	up := func(v uint16) uint16 { return uint16(uint32(v) * 0xffff / max) }
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			p := img.Pixels[y*img.Width+x]
			out.SetRGBA64(x, y, color.RGBA64{R: up(p.R), G: up(p.G), B: up(p.B), A: 0xffff})
		}
	}
	return out
}
