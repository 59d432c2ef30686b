package video

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
)

// SupportedExtensions lists the video container extensions the skimmer
// accepts, lowercase with the leading dot.
var SupportedExtensions = []string{".mp4", ".avi"}

// ErrUnsupportedFormat is returned by Open for files outside
// SupportedExtensions.
var ErrUnsupportedFormat = errors.New("video: unsupported format")

// ErrFrameOutOfRange is returned when a frame index falls outside
// [0, FrameCount-1].
var ErrFrameOutOfRange = errors.New("video: frame index out of range")

// openDecoder is swapped out by tests to decode canned frames.
var openDecoder = openCaptureDecoder

// IsSupported reports whether path carries a supported video extension.
// The check is case-insensitive.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// Clip is an opened video and its resolved frame count. A Clip owns its
// decoder exclusively; it is single-goroutine state, matching the
// event-driven UI it serves.
type Clip struct {
	path    string
	dec     Decoder
	frames  int
	current int
}

// Open opens the video at path. It fails with os.ErrNotExist when the file
// is missing and with ErrUnsupportedFormat for unknown extensions. When the
// codec does not report a frame count the count is resolved by a full
// sequential decode.
func Open(path string) (*Clip, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("video: %w", err)
	}
	if !IsSupported(path) {
		return nil, fmt.Errorf("%w: %q (supported: %s)",
			ErrUnsupportedFormat, filepath.Ext(path), strings.Join(SupportedExtensions, ", "))
	}

	dec, err := openDecoder(path)
	if err != nil {
		return nil, err
	}
	return NewClip(path, dec)
}

// NewClip builds a Clip over an already-opened decoder, resolving the frame
// count with the counting fallback when the decoder reports zero.
func NewClip(path string, dec Decoder) (*Clip, error) {
	frames := dec.ReportedFrameCount()
	if frames == 0 {
		var err error
		frames, err = CountFrames(dec)
		if err != nil {
			dec.Close()
			return nil, err
		}
	}

	logger.Info().Str("path", path).Int("frames", frames).Msg("video opened")
	return &Clip{path: path, dec: dec, frames: frames}, nil
}

// Path returns the path the clip was opened from.
func (c *Clip) Path() string { return c.path }

// FrameCount returns the total number of frames.
func (c *Clip) FrameCount() int { return c.frames }

// LargestFrame returns the index of the last frame, FrameCount-1.
func (c *Clip) LargestFrame() int { return c.frames - 1 }

// CurrentFrame returns the index of the last frame handed out by Frame,
// or 0 before any decode.
func (c *Clip) CurrentFrame() int { return c.current }

// Frame seeks to frame n and decodes it.
func (c *Clip) Frame(n int) (image.Image, error) {
	if n < 0 || n >= c.frames {
		return nil, fmt.Errorf("%w: %d not in [0, %d]", ErrFrameOutOfRange, n, c.frames-1)
	}
	if err := c.dec.Seek(n); err != nil {
		return nil, err
	}
	img, err := c.dec.Read()
	if err != nil {
		return nil, fmt.Errorf("decode frame %d: %w", n, err)
	}
	c.current = n
	return img, nil
}

// Close releases the underlying decoder.
func (c *Clip) Close() error {
	return c.dec.Close()
}
