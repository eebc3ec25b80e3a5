package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/certscan/internal/common"
)

type fakeRunner struct {
	mu    sync.Mutex
	calls [][]string
	tsv   string
	err   error
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.err != nil {
		return nil, []byte("boom"), f.err
	}
	return []byte(f.tsv), nil, nil
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := imaging.New(16, 8, color.White)
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	img := imaging.New(16, 8, color.Black)
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.JPEG))
	return buf.Bytes()
}

const tsvHeader = "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n"

const sampleTSV = tsvHeader +
	"1\t1\t0\t0\t0\t0\t0\t0\t100\t100\t-1\t\n" +
	"5\t1\t1\t1\t1\t1\t0\t0\t10\t10\t91.5\tReceipt\n" +
	"5\t1\t1\t1\t1\t2\t0\t0\t10\t10\t88\tNo\n"

// wordsTSV renders one word row per entry; a "/" entry starts a new line.
func wordsTSV(conf string, words ...string) string {
	var b strings.Builder
	b.WriteString(tsvHeader)
	line, n := 1, 0
	for _, w := range words {
		if w == "/" {
			line, n = line+1, 0
			continue
		}
		n++
		fmt.Fprintf(&b, "5\t1\t1\t1\t%d\t%d\t0\t0\t10\t10\t%s\t%s\n", line, n, conf, w)
	}
	return b.String()
}

func newTestExtractor(r Runner, cacheDir string) *Extractor {
	return NewExtractor(Config{ArtifactCacheDir: cacheDir}, NewTesseractEngine("tesseract", "", r), nil)
}

func TestExtractTextRejectsPDF(t *testing.T) {
	r := &fakeRunner{}
	e := newTestExtractor(r, "")

	_, err := e.ExtractText(context.Background(), BytesUpload("doc.pdf", "application/pdf", []byte("%PDF-1.7")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUnsupportedFileType))
	assert.Empty(t, r.calls, "no OCR call for unsupported types")
}

func TestExtractTextPNG(t *testing.T) {
	r := &fakeRunner{tsv: sampleTSV}
	e := newTestExtractor(r, "")

	got, err := e.ExtractText(context.Background(), BytesUpload("scan.png", "image/png", pngBytes(t)))
	require.NoError(t, err)
	assert.Equal(t, "Receipt No\n", got.RawText)
	assert.Equal(t, 90, got.Confidence) // mean(91.5, 88) = 89.75
	assert.Equal(t, "tesseract", got.Engine)
	assert.NotEmpty(t, got.ContentHash)
	assert.GreaterOrEqual(t, got.ProcessingTimeMs(), int64(0))

	require.Len(t, r.calls, 1, "one tesseract run yields text and confidence")
	args := r.calls[0]
	assert.Equal(t, "tesseract", args[0])
	assert.Subset(t, args, []string{"-l", "eng", "--oem", "1", "--psm", "1",
		"tessedit_char_whitelist=" + Whitelist,
		"tessedit_char_blacklist=" + Blacklist,
		"preserve_interword_spaces=1"})
	assert.Equal(t, "tsv", args[len(args)-1])
}

func TestExtractTextJPEGWithParams(t *testing.T) {
	r := &fakeRunner{tsv: sampleTSV}
	e := newTestExtractor(r, "")

	_, err := e.ExtractText(context.Background(), BytesUpload("scan.jpg", "IMAGE/JPEG; charset=binary", jpegBytes(t)))
	require.NoError(t, err)
}

func TestExtractTextEngineFailure(t *testing.T) {
	r := &fakeRunner{err: errors.New("exit status 1")}
	e := newTestExtractor(r, "")

	_, err := e.ExtractText(context.Background(), BytesUpload("scan.png", "image/png", pngBytes(t)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrExtractionFailure))
	assert.False(t, errors.Is(err, common.ErrUnsupportedFileType))
}

func TestExtractTextUndecodableImage(t *testing.T) {
	r := &fakeRunner{}
	e := newTestExtractor(r, "")

	_, err := e.ExtractText(context.Background(), BytesUpload("scan.png", "image/png", []byte("not an image")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrExtractionFailure))
	assert.Empty(t, r.calls)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestExtractTextReadFailure(t *testing.T) {
	e := newTestExtractor(&fakeRunner{}, "")
	_, err := e.ExtractText(context.Background(), Upload{Name: "x.png", MediaType: "image/png", Body: failingReader{}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrExtractionFailure))

	_, err = e.ExtractText(context.Background(), FileUpload(filepath.Join(t.TempDir(), "missing.png")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrExtractionFailure))
}

func TestExtractTextHeuristicConfidence(t *testing.T) {
	// words without a usable conf column
	r := &fakeRunner{tsv: wordsTSV("-1", "Roll", "No", "12345")}
	e := newTestExtractor(r, "")

	got, err := e.ExtractText(context.Background(), BytesUpload("scan.png", "image/png", pngBytes(t)))
	require.NoError(t, err)
	assert.Equal(t, "Roll No 12345\n", got.RawText)
	assert.Equal(t, 7, got.Confidence) // 13/100 * 6/11 = 7.09%
	assert.NotEmpty(t, got.Warnings)
}

func TestHeuristicConfidence(t *testing.T) {
	assert.Equal(t, 0.0, heuristicConfidence("  \n"))
	assert.Equal(t, 2.0, heuristicConfidence("ab12"))
	assert.Equal(t, 100.0, heuristicConfidence(strings.Repeat("abcde ", 40)))
	assert.InDelta(t, 7.09, heuristicConfidence("Roll No 12345"), 1e-9)
}

func TestExtractTextArtifactCache(t *testing.T) {
	dir := t.TempDir()
	r := &fakeRunner{tsv: sampleTSV}
	e := newTestExtractor(r, dir)
	data := pngBytes(t)

	_, err := e.ExtractText(context.Background(), BytesUpload("a.png", "image/png", data))
	require.NoError(t, err)
	cached := filepath.Join(dir, ContentHash(data)+".png")
	_, err = os.Stat(cached)
	require.NoError(t, err)

	ctx := WithContentHash(context.Background(), ContentHash(data))
	_, err = e.ExtractText(ctx, BytesUpload("a.png", "image/png", data))
	require.NoError(t, err)
	assert.Equal(t, cached, r.calls[1][1])
}

func TestFileUpload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.PNG")
	require.NoError(t, os.WriteFile(path, pngBytes(t), 0o644))

	up := FileUpload(path)
	assert.Equal(t, "scan.PNG", up.Name)
	assert.Equal(t, "image/png", up.MediaType)

	r := &fakeRunner{tsv: sampleTSV}
	_, err := newTestExtractor(r, "").ExtractText(context.Background(), up)
	require.NoError(t, err)

	_, err = newTestExtractor(r, "").ExtractText(context.Background(), FileUpload("/tmp/x.pdf"))
	assert.True(t, errors.Is(err, common.ErrUnsupportedFileType))
}

func TestParseTSV(t *testing.T) {
	text, c, ok := parseTSV(sampleTSV)
	assert.True(t, ok)
	assert.InDelta(t, 89.75, c, 1e-9)
	assert.Equal(t, "Receipt No\n", text)

	text, _, ok = parseTSV(wordsTSV("90", "Name:", "Amit", "Joshi", "/", "Roll", "No:", "CE2021045"))
	assert.True(t, ok)
	assert.Equal(t, "Name: Amit Joshi\nRoll No: CE2021045\n", text)

	blocks := tsvHeader +
		"5\t1\t1\t1\t1\t1\t0\t0\t1\t1\t80\tHeader\n" +
		"5\t1\t2\t1\t1\t1\t0\t0\t1\t1\t70\tBody\n"
	text, c, ok = parseTSV(blocks)
	assert.True(t, ok)
	assert.InDelta(t, 75, c, 1e-9)
	assert.Equal(t, "Header\n\nBody\n", text)

	text, _, ok = parseTSV(tsvHeader)
	assert.False(t, ok)
	assert.Empty(t, text)
}

func TestNewEngine(t *testing.T) {
	eng, err := NewEngine("tesseract", "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "tesseract", eng.Name())

	_, err = NewEngine("nope", "", "", nil)
	assert.Error(t, err)

	_, err = NewEngine("gosseract", "", "", nil)
	assert.Equal(t, !GosseractAvailable, err != nil)
}
