package extract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/ingredient-scanner/internal/common"
	"github.com/joseph-ayodele/ingredient-scanner/internal/ingredients"
	"github.com/joseph-ayodele/ingredient-scanner/internal/ocr"
)

type stubExtractor struct {
	res ocr.ExtractionResult
	err error
}

func (s stubExtractor) Extract(context.Context, string) (ocr.ExtractionResult, error) {
	return s.res, s.err
}

type countingObserver struct{ ok, failed int }

func (c *countingObserver) ObserveOCR(_ time.Duration, err error) {
	if err != nil {
		c.failed++
		return
	}
	c.ok++
}

func TestRecognizeReturnsText(t *testing.T) {
	obs := &countingObserver{}
	a := NewOCRAdapter(stubExtractor{res: ocr.ExtractionResult{Text: "Sugar", Warnings: []string{"w"}}}, obs, nil)

	txt, err := a.Recognize(context.Background(), "a.png")
	require.NoError(t, err)
	assert.Equal(t, "Sugar", txt)
	assert.Equal(t, 1, obs.ok)
}

func TestRecognizeWrapsErrors(t *testing.T) {
	cause := errors.New("tesseract: exit status 1")
	obs := &countingObserver{}
	a := NewOCRAdapter(stubExtractor{err: cause}, obs, nil)

	_, err := a.Recognize(context.Background(), "a.png")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 1, obs.failed)
}

func TestRecognizeWithoutObserver(t *testing.T) {
	a := NewOCRAdapter(stubExtractor{res: ocr.ExtractionResult{Text: ""}}, nil, nil)
	txt, err := a.Recognize(context.Background(), "a.png")
	require.NoError(t, err)
	assert.Empty(t, txt)
}

type scriptedRunner struct{ stdout string }

func (r scriptedRunner) Run(context.Context, string, ...string) ([]byte, []byte, error) {
	return []byte(r.stdout), nil, nil
}

func TestNewRecognizerFromConfig(t *testing.T) {
	cfg := common.OCRConfig{TesseractLang: "eng", ArtifactCacheDir: t.TempDir()}
	rec := NewRecognizer(cfg, nil, nil, ocr.WithRunner(scriptedRunner{stdout: "Ingredients: oats,  sugar\n"}))

	txt, err := rec.Recognize(context.Background(), "label.jpg")
	require.NoError(t, err)
	assert.Equal(t, "Ingredients: oats,  sugar\n", txt)
}

func TestRecognizePassesRawTextToEvaluator(t *testing.T) {
	cfg := common.OCRConfig{TesseractLang: "eng", ArtifactCacheDir: t.TempDir()}
	rec := NewRecognizer(cfg, nil, nil, ocr.WithRunner(scriptedRunner{stdout: "Ingredients: palm\toil, sugar\n-----\n"}))

	txt, err := rec.Recognize(context.Background(), "label.jpg")
	require.NoError(t, err)
	assert.Equal(t, "Ingredients: palm\toil, sugar\n-----\n", txt)

	// a tab is not the space the rule looks for, so only sugar is flagged.
	res := ingredients.Evaluate(txt)
	require.Equal(t, 1, res.FlagCount())
	assert.Equal(t, "sugar", res.Flags[0].Keyword)
}

func TestRecognizePrefersRawOverNormalised(t *testing.T) {
	a := NewOCRAdapter(stubExtractor{res: ocr.ExtractionResult{Text: "a b", Raw: "a\tb"}}, nil, nil)
	txt, err := a.Recognize(context.Background(), "a.png")
	require.NoError(t, err)
	assert.Equal(t, "a\tb", txt)
}
