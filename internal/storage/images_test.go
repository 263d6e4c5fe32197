package storage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/add-car", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["image"][0]
}

func TestSave_NamesWithTimestampAndBase(t *testing.T) {
	dir := t.TempDir()
	s := NewImageStore(dir)
	s.now = func() time.Time { return time.UnixMilli(1700000000123) }

	name, err := s.Save(fileHeader(t, "../../etc/car.png", pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "1700000000123-car.png", name)

	got, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, got)
}

func TestSave_RejectsNonImage(t *testing.T) {
	s := NewImageStore(t.TempDir())
	_, err := s.Save(fileHeader(t, "notes.png", []byte("just some text")))
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestRemove_DeletesSavedImage(t *testing.T) {
	dir := t.TempDir()
	s := NewImageStore(dir)

	name, err := s.Save(fileHeader(t, "car.png", pngHeader))
	require.NoError(t, err)

	require.NoError(t, s.Remove(name))
	_, err = os.Stat(filepath.Join(dir, name))
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, s.Remove(name))
	require.NoError(t, s.Remove(""))
}
