package utils

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// SourceKind is the kind of frame source a command-line argument names.
type SourceKind int

const (
	SourceVideo SourceKind = iota
	SourceCamera
	SourceImageDir
	SourceScreen
)

func (k SourceKind) String() string {
	switch k {
	case SourceVideo:
		return "video"
	case SourceCamera:
		return "camera"
	case SourceImageDir:
		return "images"
	case SourceScreen:
		return "screen"
	}
	return "unknown"
}

// ScreenSource is the argument selecting screen capture.
const ScreenSource = "screen"

// ImageExtensions lists the still-image formats accepted in a frame directory.
var ImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// ResolveSource decides which kind of source arg refers to. Existing
// directories are image sequences, existing files are videos, "screen"
// selects screen capture and a bare integer is a camera index.
func ResolveSource(arg string) (SourceKind, error) {
	if arg == "" {
		return 0, errors.New("no source given")
	}
	if info, err := os.Stat(arg); err == nil {
		if info.IsDir() {
			return SourceImageDir, nil
		}
		return SourceVideo, nil
	}
	if strings.EqualFold(arg, ScreenSource) {
		return SourceScreen, nil
	}
	if id, err := strconv.Atoi(arg); err == nil && id >= 0 {
		return SourceCamera, nil
	}
	return 0, errors.New("unknown source: " + arg)
}

// IsImageFile reports whether name has a supported still-image extension.
func IsImageFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range ImageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// DefaultOutputPath derives "<name>_motion.mp4" next to a video input.
func DefaultOutputPath(input string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + "_motion.mp4"
}
