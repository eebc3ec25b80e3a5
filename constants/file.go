package constants

import "strings"

// Media types accepted by text acquisition. PDF is deliberately absent.
const (
	MediaJPEG = "image/jpeg"
	MediaPNG  = "image/png"
	MediaGIF  = "image/gif"
	MediaBMP  = "image/bmp"
	MediaWEBP = "image/webp"
	MediaTIFF = "image/tiff"
	MediaPDF  = "application/pdf"
)

// AcceptedMediaTypes holds the image types the OCR pipeline will read.
var AcceptedMediaTypes = map[string]struct{}{
	MediaJPEG: {},
	MediaPNG:  {},
	MediaGIF:  {},
	MediaBMP:  {},
	MediaWEBP: {},
	MediaTIFF: {},
}

// AllowedExtensions maps lowercase extensions (without '.') to their media type.
var AllowedExtensions = map[string]string{
	"jpg":  MediaJPEG,
	"jpeg": MediaJPEG,
	"png":  MediaPNG,
	"gif":  MediaGIF,
	"bmp":  MediaBMP,
	"webp": MediaWEBP,
	"tif":  MediaTIFF,
	"tiff": MediaTIFF,
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// NormalizeMediaType lowercases a declared media type and drops parameters.
func NormalizeMediaType(mt string) string {
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	mt = strings.ToLower(strings.TrimSpace(mt))
	if mt == "image/jpg" || mt == "image/pjpeg" {
		return MediaJPEG
	}
	return mt
}

// IsAcceptedMediaType reports whether mt is one of the accepted image types.
func IsAcceptedMediaType(mt string) bool {
	_, ok := AcceptedMediaTypes[NormalizeMediaType(mt)]
	return ok
}

// MediaTypeForExt returns the media type for an extension, or "" when unknown.
// "pdf" resolves so callers can reject it explicitly.
func MediaTypeForExt(ext string) string {
	ext = NormalizeExt(ext)
	if ext == "pdf" {
		return MediaPDF
	}
	return AllowedExtensions[ext]
}
