package export

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-pen-mcp/internal/imaging"
	"github.com/ironsheep/image-pen-mcp/internal/vector"
)

func sampleBatches() []vector.ColorBatch {
	red := imaging.RGBColor{R: 200}
	return []vector.ColorBatch{
		{Paths: []vector.Path{{vector.Pt(1, 0), vector.Pt(4, 0)}}},
		{Color: &red, Paths: []vector.Path{
			{vector.Pt(2, 2), vector.Pt(2, 2)},
			{vector.Pt(0, 4), vector.Pt(3, 7)},
		}},
	}
}

func TestRender(t *testing.T) {
	img, err := Render(sampleBatches(), 8, 8)
	require.NoError(t, err)

	white := imaging.RGBColor{R: 255, G: 255, B: 255}
	black := imaging.RGBColor{}
	red := imaging.RGBColor{R: 200}

	assert.Equal(t, white, imaging.At(img, 0, 0))
	for x := 1; x <= 4; x++ {
		assert.Equal(t, black, imaging.At(img, x, 0), "x=%d", x)
	}
	assert.Equal(t, white, imaging.At(img, 5, 0))
	assert.Equal(t, red, imaging.At(img, 2, 2), "single-pixel run")
	for i := 0; i <= 3; i++ {
		assert.Equal(t, red, imaging.At(img, i, 4+i), "diagonal step %d", i)
	}
}

func TestRender_RoundTripsVectorizer(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for i := range src.Pix {
		src.Pix[i] = 0xff
	}
	for x := 2; x < 7; x++ {
		src.Set(x, 4, imaging.RGBColor{})
	}

	batches, err := vector.Vectorize(src, vector.Binary)
	require.NoError(t, err)
	img, err := Render(batches, 10, 10)
	require.NoError(t, err)
	assert.Equal(t, src.Pix, img.Pix)
}

func TestRender_Invalid(t *testing.T) {
	_, err := Render(nil, 0, 5)
	assert.ErrorIs(t, err, imaging.ErrInvalidRegion)
}

func TestPreview(t *testing.T) {
	res, err := Preview(sampleBatches(), 8, 8, 3)
	require.NoError(t, err)
	assert.Equal(t, 24, res.Width)
	assert.Equal(t, 24, res.Height)
	assert.Equal(t, 3, res.Scale)
	assert.Equal(t, "image/png", res.MimeType)

	data, err := base64.StdEncoding.DecodeString(res.ImageBase64)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, imaging.RGBColor{}, imaging.At(img, 3, 0))
	assert.Equal(t, imaging.RGBColor{}, imaging.At(img, 5, 2))
	assert.Equal(t, imaging.RGBColor{R: 255, G: 255, B: 255}, imaging.At(img, 2, 0))
}

func TestPreview_ScaleClamped(t *testing.T) {
	res, err := Preview(nil, 4, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Scale)
	assert.Equal(t, 4, res.Width)

	res, err = Preview(nil, 4, 2, 100)
	require.NoError(t, err)
	assert.Equal(t, MaxScale, res.Scale)
	assert.Equal(t, 4*MaxScale, res.Width)
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, sampleBatches(), 8, 8))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 8), img.Bounds())
}

func TestPDF(t *testing.T) {
	pdf, err := NewPDF(sampleBatches(), 640, 480, PDFOptions{Title: "strokes"})
	require.NoError(t, err)
	w, h := pdf.GetPageSize()
	assert.Equal(t, 640.0, w)
	assert.Equal(t, 480.0, h)

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, sampleBatches(), 640, 480, PDFOptions{}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")), "pdf header")
	assert.Contains(t, buf.String(), "%%EOF")
}

func TestPDF_Invalid(t *testing.T) {
	var buf bytes.Buffer
	err := WritePDF(&buf, nil, 10, -1, PDFOptions{})
	assert.ErrorIs(t, err, imaging.ErrInvalidRegion)
	assert.Zero(t, buf.Len())
}
