package service

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/treedist/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileOutputWriter_Writer(t *testing.T) {
	var status, out bytes.Buffer
	w := NewFileOutputWriter(&status)

	err := w.Write(&out, "", domain.OutputFormatText, func(dst io.Writer) error {
		_, err := io.WriteString(dst, "report")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "report", out.String())
	assert.Empty(t, status.String())
}

func TestFileOutputWriter_File(t *testing.T) {
	var status bytes.Buffer
	w := NewFileOutputWriter(&status)
	path := filepath.Join(t.TempDir(), "reports", "nested", "distance.json")

	err := w.Write(nil, path, domain.OutputFormatJSON, func(dst io.Writer) error {
		_, err := io.WriteString(dst, `{"distance": 2}`)
		return err
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"distance": 2}`, string(data))
	assert.Contains(t, status.String(), "JSON report generated: ")
	assert.Contains(t, status.String(), "distance.json")
}

func TestFileOutputWriter_Errors(t *testing.T) {
	w := NewFileOutputWriter(io.Discard)

	err := w.Write(nil, "", domain.OutputFormatText, func(io.Writer) error { return nil })
	assert.Equal(t, domain.ErrCodeOutputError, domain.ErrorCode(err))

	boom := errors.New("boom")
	err = w.Write(&bytes.Buffer{}, "", domain.OutputFormatText, func(io.Writer) error { return boom })
	assert.Equal(t, domain.ErrCodeOutputError, domain.ErrorCode(err))
	assert.ErrorIs(t, err, boom)

	path := filepath.Join(t.TempDir(), "partial.csv")
	err = w.Write(nil, path, domain.OutputFormatCSV, func(io.Writer) error { return boom })
	assert.ErrorIs(t, err, boom)
}
