package images

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySink struct {
	files map[string][]byte
	fail  map[string]error
}

func newMemorySink() *memorySink {
	return &memorySink{files: make(map[string][]byte), fail: make(map[string]error)}
}

func (s *memorySink) Write(name string, data []byte) (string, error) {
	if err := s.fail[name]; err != nil {
		return "", err
	}
	s.files[name] = data
	return "output/images/" + name, nil
}

type stubRecognizer struct {
	text string
	err  error
}

func (r stubRecognizer) Recognize([]byte) (string, error) {
	return r.text, r.err
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestCollectorNamesAndFilters(t *testing.T) {
	sink := newMemorySink()
	c := NewCollector(NewDeduplicator(), sink)

	outcome := c.Collect(3, []Candidate{
		{Data: []byte("tiny"), Width: 10, Height: 10, Ext: "png", SourceRef: 11},
		{Data: []byte("chart"), Width: 300, Height: 200, Ext: "JPG", SourceRef: 12},
		{Data: []byte("chart"), Width: 300, Height: 200, Ext: "jpg", SourceRef: 13},
		{Data: []byte("plot"), Width: 64, Height: 64, SourceRef: 14},
	})

	require.Len(t, outcome.Images, 2)
	assert.Equal(t, "output/images/page_003_img_2.jpg", outcome.Images[0].Path)
	assert.Equal(t, 12, outcome.Images[0].SourceRef)
	assert.Nil(t, outcome.Images[0].Alt)
	assert.Equal(t, "output/images/page_003_img_4.png", outcome.Images[1].Path)

	assert.Equal(t, 1, outcome.Rejected[VerdictTooSmall])
	assert.Equal(t, 1, outcome.Rejected[VerdictDuplicate])
	assert.Empty(t, outcome.Failures)
	assert.Len(t, sink.files, 2)
}

func TestCollectorAltFromImageName(t *testing.T) {
	c := NewCollector(NewDeduplicator(), newMemorySink())

	outcome := c.Collect(1, []Candidate{
		{Data: []byte("unnamed"), Width: 100, Height: 100, Ext: "png"},
		{Data: []byte("named"), Width: 100, Height: 100, Ext: "png", Name: "Im0"},
		{Data: []byte("blank"), Width: 100, Height: 100, Ext: "png", Name: "  "},
	})

	require.Len(t, outcome.Images, 3)
	assert.Nil(t, outcome.Images[0].Alt)
	require.NotNil(t, outcome.Images[1].Alt)
	assert.Equal(t, "Im0", *outcome.Images[1].Alt)
	assert.Nil(t, outcome.Images[2].Alt)
}

func TestCollectorDeduplicatesAcrossPages(t *testing.T) {
	c := NewCollector(NewDeduplicator(), newMemorySink())
	logo := Candidate{Data: []byte("logo"), Width: 120, Height: 60, Ext: "png"}

	first := c.Collect(1, []Candidate{logo})
	second := c.Collect(2, []Candidate{logo})

	assert.Len(t, first.Images, 1)
	assert.Empty(t, second.Images)
	assert.Equal(t, 1, second.Rejected[VerdictDuplicate])
}

func TestCollectorSkipsFailingCandidates(t *testing.T) {
	sink := newMemorySink()
	sink.fail["page_001_img_3.png"] = errors.New("disk full")
	c := NewCollector(NewDeduplicator(), sink)

	boom := errors.New("broken stream")
	outcome := c.Collect(1, []Candidate{
		{Err: boom, SourceRef: 7},
		{Data: nil, Width: 100, Height: 100, SourceRef: 8},
		{Data: []byte("unwritable"), Width: 100, Height: 100, SourceRef: 9},
		{Data: []byte("fine"), Width: 100, Height: 100, SourceRef: 10},
	})

	require.Len(t, outcome.Images, 1)
	assert.Equal(t, "output/images/page_001_img_4.png", outcome.Images[0].Path)

	require.Len(t, outcome.Failures, 3)
	assert.ErrorIs(t, outcome.Failures[0], boom)
	assert.Equal(t, 1, outcome.Failures[0].Index)
	assert.Equal(t, 7, outcome.Failures[0].SourceRef)
	assert.ErrorIs(t, outcome.Failures[1], ErrEmptyImage)
	assert.EqualError(t, outcome.Failures[2].Err, "disk full")
}

func TestCollectorReadsMissingDimensions(t *testing.T) {
	c := NewCollector(NewDeduplicator(), newMemorySink())

	outcome := c.Collect(1, []Candidate{
		{Data: encodePNG(t, 80, 60), Ext: "png"},
		{Data: encodePNG(t, 40, 60), Ext: "png"},
		{Data: []byte("not an image"), Ext: "png"},
	})

	assert.Len(t, outcome.Images, 1)
	assert.Equal(t, 1, outcome.Rejected[VerdictTooSmall])
	assert.Len(t, outcome.Failures, 1)
}

func TestCollectorRecognizer(t *testing.T) {
	t.Run("recognized text replaces alt", func(t *testing.T) {
		c := NewCollector(NewDeduplicator(), newMemorySink())
		c.SetRecognizer(stubRecognizer{text: "  Revenue\n by   year \n"})

		outcome := c.Collect(1, []Candidate{{Data: []byte("x"), Width: 100, Height: 100}})
		require.Len(t, outcome.Images, 1)
		assert.Equal(t, "Revenue by year", *outcome.Images[0].Alt)
	})

	t.Run("blank recognition keeps image name", func(t *testing.T) {
		c := NewCollector(NewDeduplicator(), newMemorySink())
		c.SetRecognizer(stubRecognizer{text: " \n "})

		outcome := c.Collect(1, []Candidate{
			{Data: []byte("x"), Width: 100, Height: 100, Name: "Im0"},
			{Data: []byte("y"), Width: 100, Height: 100},
		})
		require.Len(t, outcome.Images, 2)
		require.NotNil(t, outcome.Images[0].Alt)
		assert.Equal(t, "Im0", *outcome.Images[0].Alt)
		assert.Nil(t, outcome.Images[1].Alt)
	})

	t.Run("recognition failure keeps image", func(t *testing.T) {
		c := NewCollector(NewDeduplicator(), newMemorySink())
		c.SetRecognizer(stubRecognizer{err: errors.New("tesseract missing")})

		outcome := c.Collect(1, []Candidate{{Data: []byte("x"), Width: 100, Height: 100, Name: "Im0"}})
		require.Len(t, outcome.Images, 1)
		require.NotNil(t, outcome.Images[0].Alt)
		assert.Equal(t, "Im0", *outcome.Images[0].Alt)
		assert.Len(t, outcome.RecognitionErrors, 1)
		assert.Empty(t, outcome.Failures)
	})
}
