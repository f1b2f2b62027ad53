// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_FileNotFound(t *testing.T) {
	_, err := New().Extract(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}

func TestExtract_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a PDF"), 0o644))

	_, err := New().Extract(path)
	assert.Error(t, err)
}
