package imgproc

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/vova616/screenshot"
	"gocv.io/x/gocv"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/DaniruKun/grid-motion/utils"
)

// Source yields sequential BGR frames. Read returns io.EOF at the end of the
// stream.
type Source interface {
	Read(dst *gocv.Mat) error
	// FPS is the nominal frame rate, or 0 when unknown.
	FPS() float64
	// FrameCount is the total number of frames, or -1 when unknown.
	FrameCount() int
	Close() error
}

// OpenSource opens the source named by arg; see utils.ResolveSource.
// screenFrames bounds a screen capture, which has no natural end.
func OpenSource(arg string, screenFrames int) (Source, error) {
	kind, err := utils.ResolveSource(arg)
	if err != nil {
		return nil, err
	}
	switch kind {
	case utils.SourceVideo:
		vc, err := gocv.VideoCaptureFile(arg)
		if err != nil {
			return nil, fmt.Errorf("open video %s: %w", arg, err)
		}
		return &videoSource{vc: vc}, nil
	case utils.SourceCamera:
		id, _ := strconv.Atoi(arg)
		vc, err := gocv.VideoCaptureDevice(id)
		if err != nil {
			return nil, fmt.Errorf("open camera %d: %w", id, err)
		}
		return &videoSource{vc: vc, live: true}, nil
	case utils.SourceImageDir:
		return NewSequenceSource(arg)
	case utils.SourceScreen:
		return NewScreenSource(image.Rectangle{}, screenFrames)
	}
	return nil, fmt.Errorf("unsupported source kind %v", kind)
}

type videoSource struct {
	vc   *gocv.VideoCapture
	live bool
}

func (s *videoSource) Read(dst *gocv.Mat) error {
	if ok := s.vc.Read(dst); !ok || dst.Empty() {
		return io.EOF
	}
	return nil
}

func (s *videoSource) FPS() float64 { return s.vc.Get(gocv.VideoCaptureFPS) }

func (s *videoSource) FrameCount() int {
	if s.live {
		return -1
	}
	n := int(s.vc.Get(gocv.VideoCaptureFrameCount))
	if n <= 0 {
		return -1
	}
	return n
}

func (s *videoSource) Close() error { return s.vc.Close() }

// sequenceSource reads the still images of a directory in name order.
type sequenceSource struct {
	paths []string
	next  int
}

// NewSequenceSource lists the image files of dir as a frame sequence.
func NewSequenceSource(dir string) (Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read frame directory: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !utils.IsImageFile(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no images in %s", dir)
	}
	sort.Strings(paths)
	return &sequenceSource{paths: paths}, nil
}

func (s *sequenceSource) Read(dst *gocv.Mat) error {
	if s.next >= len(s.paths) {
		return io.EOF
	}
	path := s.paths[s.next]
	s.next++

	img, err := decodeImage(path)
	if err != nil {
		return err
	}
	return imageInto(img, dst)
}

func (s *sequenceSource) FPS() float64    { return 0 }
func (s *sequenceSource) FrameCount() int { return len(s.paths) }
func (s *sequenceSource) Close() error    { return nil }

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open file: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode %s: %w", path, err)
	}
	return img, nil
}

// screenSource captures a screen rectangle each Read.
type screenSource struct {
	rect  image.Rectangle
	limit int
	taken int
}

// NewScreenSource captures rect, or the whole screen when rect is empty, for
// up to limit frames. A limit of 0 captures until closed.
func NewScreenSource(rect image.Rectangle, limit int) (Source, error) {
	if rect.Empty() {
		r, err := screenshot.ScreenRect()
		if err != nil {
			return nil, fmt.Errorf("screen bounds: %w", err)
		}
		rect = r
	}
	return &screenSource{rect: rect, limit: limit}, nil
}

func (s *screenSource) Read(dst *gocv.Mat) error {
	if s.limit > 0 && s.taken >= s.limit {
		return io.EOF
	}
	img, err := screenshot.CaptureRect(s.rect)
	if err != nil {
		return fmt.Errorf("capture screen: %w", err)
	}
	s.taken++
	return imageInto(img, dst)
}

func (s *screenSource) FPS() float64 { return 0 }

func (s *screenSource) FrameCount() int {
	if s.limit > 0 {
		return s.limit
	}
	return -1
}

func (s *screenSource) Close() error { return nil }

// imageInto converts img to a BGR Mat stored in dst.
func imageInto(img image.Image, dst *gocv.Mat) error {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return fmt.Errorf("convert image: %w", err)
	}
	defer mat.Close()
	mat.CopyTo(dst)
	return nil
}
