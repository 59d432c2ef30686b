// Package video is the decoding boundary of the skimmer: it opens a video
// file, resolves its frame count, and produces individual frames as
// image.Image values in RGBA order, ready for display.
package video

import (
	"fmt"
	"image"
	"io"

	"gocv.io/x/gocv"
)

// Decoder produces frames from an opened video. Implementations decode
// synchronously on the calling goroutine and are not safe for concurrent
// use; a Clip owns its decoder exclusively.
type Decoder interface {
	// ReportedFrameCount returns the container's frame count, or 0 when
	// the codec does not report one.
	ReportedFrameCount() int

	// Seek positions the decoder so the next Read returns frame n.
	Seek(n int) error

	// Read decodes the next frame. It returns io.EOF past the last frame.
	Read() (image.Image, error)

	Close() error
}

// captureDecoder decodes through OpenCV's VideoCapture.
type captureDecoder struct {
	cap *gocv.VideoCapture
	buf gocv.Mat
	rgb gocv.Mat
}

func openCaptureDecoder(path string) (Decoder, error) {
	cap, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("open capture for %q: %w", path, err)
	}
	return &captureDecoder{
		cap: cap,
		buf: gocv.NewMat(),
		rgb: gocv.NewMat(),
	}, nil
}

func (d *captureDecoder) ReportedFrameCount() int {
	return int(d.cap.Get(gocv.VideoCaptureFrameCount))
}

func (d *captureDecoder) Seek(n int) error {
	d.cap.Set(gocv.VideoCapturePosFrames, float64(n))
	if got := int(d.cap.Get(gocv.VideoCapturePosFrames)); got != n {
		return fmt.Errorf("seek to frame %d failed, decoder at %d", n, got)
	}
	return nil
}

func (d *captureDecoder) Read() (image.Image, error) {
	if !d.cap.Read(&d.buf) || d.buf.Empty() {
		return nil, io.EOF
	}

	// OpenCV hands frames out in BGR channel order; the display side
	// expects RGBA.
	gocv.CvtColor(d.buf, &d.rgb, gocv.ColorBGRToRGBA)

	w, h := d.rgb.Cols(), d.rgb.Rows()
	pix := make([]byte, len(d.rgb.ToBytes()))
	copy(pix, d.rgb.ToBytes())
	return &image.RGBA{
		Pix:    pix,
		Stride: 4 * w,
		Rect:   image.Rect(0, 0, w, h),
	}, nil
}

func (d *captureDecoder) Close() error {
	d.buf.Close()
	d.rgb.Close()
	return d.cap.Close()
}

// CountFrames determines the frame count of d by decoding the whole video
// sequentially. It is the fallback for containers whose codec reports a
// zero frame count, and it is slow in proportion to the video length.
// The decoder is left positioned at the start afterwards.
func CountFrames(d Decoder) (int, error) {
	logger.Warn().Msg("codec reports no frame count, counting frames by full decode")

	if err := d.Seek(0); err != nil {
		return 0, err
	}
	n := 0
	for {
		_, err := d.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("counting frames: decode frame %d: %w", n, err)
		}
		n++
	}
	if err := d.Seek(0); err != nil {
		return 0, err
	}
	logger.Debug().Int("frames", n).Msg("frame count resolved by decode")
	return n, nil
}
