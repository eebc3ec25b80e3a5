package ocr

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // registers the WEBP decoder
)

type ctxKey string

const (
	ctxKeyContentHash ctxKey = "ocr.content_hash_hex"
)

// WithContentHash stores the hex-encoded SHA256 for downstream reuse.
func WithContentHash(ctx context.Context, hex string) context.Context {
	return context.WithValue(ctx, ctxKeyContentHash, hex)
}

func contentHashFromCtx(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxKeyContentHash).(string)
	return v, ok && v != ""
}

// ContentHash returns the hex SHA256 of data.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// convertToPNG decodes any accepted image type (EXIF orientation applied) and
// writes it as PNG, the one format handed to engines.
// If cacheDir and hashHex are non-empty the PNG is persisted (and reused) at
//
//	{cacheDir}/{hashHex}.png
//
// Returns (outPath, cleanup, err). cleanup is nil when the cache is used.
func convertToPNG(logger *slog.Logger, data []byte, cacheDir, hashHex string) (string, func(), error) {
	if cacheDir != "" && hashHex != "" {
		cached := filepath.Join(cacheDir, hashHex+".png")
		if st, err := os.Stat(cached); err == nil && !st.IsDir() {
			logger.Debug("using cached png", "cache", cached)
			return cached, nil, nil
		}
		if err := os.MkdirAll(cacheDir, 0o755); err != nil {
			return "", nil, err
		}
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", nil, fmt.Errorf("decode image: %w", err)
	}

	tmpDir, err := os.MkdirTemp("", "certscan-png-*")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { _ = os.RemoveAll(tmpDir) }
	out := filepath.Join(tmpDir, "page.png")

	f, err := os.Create(out)
	if err != nil {
		cleanup()
		return "", nil, err
	}
	if err := imaging.Encode(f, img, imaging.PNG); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, err
	}

	if cacheDir == "" || hashHex == "" {
		return out, cleanup, nil
	}

	cached := filepath.Join(cacheDir, hashHex+".png")
	if err := os.Rename(out, cached); err != nil {
		// another worker may have written it already
		if st, statErr := os.Stat(cached); statErr == nil && !st.IsDir() {
			cleanup()
			logger.Debug("cached png already present", "cache", cached)
			return cached, nil, nil
		}
		// cross-device rename: keep the temp copy for this call
		logger.Warn("could not persist png to cache", "cache", cached, "error", err)
		return out, cleanup, nil
	}
	cleanup()
	logger.Debug("cached png", "cache", cached)
	return cached, nil, nil
}
