package video

import (
	"errors"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// fakeDecoder serves canned frames without touching OpenCV.
type fakeDecoder struct {
	reported int
	frames   []image.Image
	pos      int
	closed   bool
}

func solidFrame(c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func newFakeDecoder(reported, actual int) *fakeDecoder {
	frames := make([]image.Image, actual)
	for i := range frames {
		frames[i] = solidFrame(color.RGBA{R: uint8(i), A: 255})
	}
	return &fakeDecoder{reported: reported, frames: frames}
}

func (d *fakeDecoder) ReportedFrameCount() int { return d.reported }

func (d *fakeDecoder) Seek(n int) error {
	if n < 0 {
		return errors.New("bad seek")
	}
	d.pos = n
	return nil
}

func (d *fakeDecoder) Read() (image.Image, error) {
	if d.pos >= len(d.frames) {
		return nil, io.EOF
	}
	img := d.frames[d.pos]
	d.pos++
	return img, nil
}

func (d *fakeDecoder) Close() error {
	d.closed = true
	return nil
}

// withFakeDecoder routes Open through a fake for the duration of the test.
func withFakeDecoder(t *testing.T, d Decoder) {
	t.Helper()
	prev := openDecoder
	openDecoder = func(string) (Decoder, error) { return d, nil }
	t.Cleanup(func() { openDecoder = prev })
}

func touchVideo(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestIsSupported(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"clip.mp4", true},
		{"clip.avi", true},
		{"CLIP.MP4", true},
		{"clip.AVI", true},
		{"clip.mov", false},
		{"clip.mp4.txt", false},
		{"clip", false},
	}
	for _, tc := range cases {
		if got := IsSupported(tc.path); got != tc.want {
			t.Errorf("IsSupported(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.mp4"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Open on missing file: got %v, want os.ErrNotExist", err)
	}
}

func TestOpenUnsupportedExtension(t *testing.T) {
	path := touchVideo(t, "clip.mov")
	_, err := Open(path)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Open(%q): got %v, want ErrUnsupportedFormat", path, err)
	}
}

func TestOpenReportedCount(t *testing.T) {
	withFakeDecoder(t, newFakeDecoder(10, 10))
	clip, err := Open(touchVideo(t, "clip.mp4"))
	if err != nil {
		t.Fatal(err)
	}
	defer clip.Close()
	if clip.FrameCount() != 10 || clip.LargestFrame() != 9 {
		t.Errorf("FrameCount = %d, LargestFrame = %d", clip.FrameCount(), clip.LargestFrame())
	}
}

func TestOpenCountingFallback(t *testing.T) {
	// Reported count 0 with 3 actual frames triggers the sequential count.
	withFakeDecoder(t, newFakeDecoder(0, 3))
	clip, err := Open(touchVideo(t, "clip.avi"))
	if err != nil {
		t.Fatal(err)
	}
	defer clip.Close()
	if clip.FrameCount() != 3 {
		t.Errorf("FrameCount = %d, want 3", clip.FrameCount())
	}
	if clip.LargestFrame() != 2 {
		t.Errorf("LargestFrame = %d, want 2", clip.LargestFrame())
	}
}

func TestFrame(t *testing.T) {
	withFakeDecoder(t, newFakeDecoder(5, 5))
	clip, err := Open(touchVideo(t, "clip.mp4"))
	if err != nil {
		t.Fatal(err)
	}
	defer clip.Close()

	img, err := clip.Frame(3)
	if err != nil {
		t.Fatal(err)
	}
	got := img.At(0, 0).(color.RGBA)
	if got.R != 3 {
		t.Errorf("Frame(3) pixel = %v, want frame index 3 encoded in red channel", got)
	}
	if clip.CurrentFrame() != 3 {
		t.Errorf("CurrentFrame = %d, want 3", clip.CurrentFrame())
	}

	for _, n := range []int{-1, 5, 100} {
		if _, err := clip.Frame(n); !errors.Is(err, ErrFrameOutOfRange) {
			t.Errorf("Frame(%d): got %v, want ErrFrameOutOfRange", n, err)
		}
	}
}

func TestCountFramesRewinds(t *testing.T) {
	d := newFakeDecoder(0, 4)
	n, err := CountFrames(d)
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Errorf("CountFrames = %d, want 4", n)
	}
	if d.pos != 0 {
		t.Errorf("decoder not rewound after counting, pos = %d", d.pos)
	}
}
