package locate

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	pimaging "github.com/ironsheep/image-pen-mcp/internal/imaging"
)

// ErrNotFound is returned when no word sequence matches the query.
var ErrNotFound = errors.New("text not found")

// Word is one recognized word.
type Word struct {
	Text       string          `json:"text"`
	Confidence float64         `json:"confidence"` // 0.0 to 1.0
	Box        image.Rectangle `json:"box"`
}

// Recognizer extracts words from an image. Boxes are in the image's
// coordinate space.
type Recognizer interface {
	Words(img image.Image) ([]Word, error)
}

// Tesseract recognizes words with the Tesseract engine.
type Tesseract struct {
	// Language is a Tesseract language code; empty selects "eng".
	Language string

	// TessdataPrefix overrides the language data directory.
	TessdataPrefix string
}

// Words implements Recognizer.
func (t Tesseract) Words(img image.Image) ([]Word, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if t.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(t.TessdataPrefix); err != nil {
			return nil, fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}
	lang := t.Language
	if lang == "" {
		lang = "eng"
	}
	if err := client.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	offset := img.Bounds().Min
	words := make([]Word, 0, len(boxes))
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		words = append(words, Word{
			Text:       text,
			Confidence: box.Confidence / 100.0,
			Box:        box.Box.Add(offset),
		})
	}
	return words, nil
}

// Options tune Find.
type Options struct {
	// Within restricts the search to a screen rectangle. Empty searches the
	// whole image.
	Within image.Rectangle

	// Upscale enlarges the searched area before recognition; small UI fonts
	// are read far more reliably at 2x or 3x. Values below 2 disable it.
	Upscale int

	// MinConfidence drops words recognized below this score.
	MinConfidence float64
}

// Match is a located label.
type Match struct {
	Text       string          `json:"text"`
	Confidence float64         `json:"confidence"`
	Region     image.Rectangle `json:"region"`
	Center     image.Point     `json:"center"`
}

// Find locates every occurrence of query in img. Matching is
// case-insensitive and spans consecutive words on one line, so "Edit
// colors" matches two adjacent words. Results are ordered by confidence,
// best first; their regions are in img's coordinate space.
func Find(img image.Image, rec Recognizer, query string, opts Options) ([]Match, error) {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil, errors.New("empty query")
	}

	area := img.Bounds()
	src := img
	if !opts.Within.Empty() {
		patch, err := pimaging.CropPatch(img, opts.Within)
		if err != nil {
			return nil, err
		}
		area, src = opts.Within, patch
	}

	scale := 1
	if opts.Upscale >= 2 {
		scale = opts.Upscale
		b := src.Bounds()
		src = imaging.Resize(src, b.Dx()*scale, b.Dy()*scale, imaging.CatmullRom)
	}

	words, err := rec.Words(src)
	if err != nil {
		return nil, err
	}

	origin := src.Bounds().Min
	kept := words[:0:0]
	for _, w := range words {
		if w.Confidence < opts.MinConfidence {
			continue
		}
		w.Box = unscale(w.Box.Sub(origin), scale).Add(area.Min)
		kept = append(kept, w)
	}

	matches := matchSequences(kept, terms)
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, query)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})
	return matches, nil
}

// matchSequences finds runs of consecutive words equal to terms. Words are
// considered consecutive when they sit on the same text line.
func matchSequences(words []Word, terms []string) []Match {
	var out []Match
	for i := 0; i+len(terms) <= len(words); i++ {
		region := image.Rectangle{}
		conf := 1.0
		ok := true
		for k, term := range terms {
			w := words[i+k]
			text := strings.ToLower(strings.Trim(w.Text, ".,:;!?()[]\"'"))
			if text != term {
				ok = false
				break
			}
			if k > 0 && !sameLine(words[i+k-1].Box, w.Box) {
				ok = false
				break
			}
			region = region.Union(w.Box)
			conf = min(conf, w.Confidence)
		}
		if !ok {
			continue
		}

		texts := make([]string, len(terms))
		for k := range terms {
			texts[k] = words[i+k].Text
		}
		out = append(out, Match{
			Text:       strings.Join(texts, " "),
			Confidence: conf,
			Region:     region,
			Center:     pimaging.Center(region),
		})
	}
	return out
}

// sameLine reports whether two boxes overlap vertically by at least half of
// the shorter box.
func sameLine(a, b image.Rectangle) bool {
	overlap := min(a.Max.Y, b.Max.Y) - max(a.Min.Y, b.Min.Y)
	return overlap*2 >= min(a.Dy(), b.Dy())
}

func unscale(r image.Rectangle, scale int) image.Rectangle {
	if scale <= 1 {
		return r
	}
	return image.Rect(r.Min.X/scale, r.Min.Y/scale, (r.Max.X+scale-1)/scale, (r.Max.Y+scale-1)/scale)
}
