package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPathValidator(t *testing.T) {
	_, err := NewPathValidator("")
	assert.Error(t, err)

	v, err := NewPathValidator("docs")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(v.GetConfiguredDirectory()))

	// Placeholder directories are allowed
	_, err = NewPathValidator("/non/existent/path")
	assert.NoError(t, err)
}

func TestPathValidator_Resolve(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))

	v, err := NewPathValidator(root)
	require.NoError(t, err)
	realRoot, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{name: "relative file", path: "report.pdf"},
		{name: "nested file", path: filepath.Join("sub", "report.pdf")},
		{name: "absolute inside", path: filepath.Join(root, "report.pdf")},
		{name: "root itself", path: root},
		{name: "output directory not created yet", path: filepath.Join("out", "images")},
		{name: "empty", path: "", wantErr: ErrEmptyPath},
		{name: "parent traversal", path: filepath.Join("..", "escape.pdf"), wantErr: ErrOutsideDirectory},
		{name: "absolute outside", path: "/etc/passwd", wantErr: ErrOutsideDirectory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Resolve(tt.path)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, within(got, root) || within(got, realRoot), got)
		})
	}
}

func TestPathValidator_SymlinkEscape(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	link := filepath.Join(root, "link")
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	v, err := NewPathValidator(root)
	require.NoError(t, err)

	assert.ErrorIs(t, v.ValidatePath(filepath.Join(link, "doc.pdf")), ErrOutsideDirectory)
	assert.ErrorIs(t, v.ValidateDirectory(link), ErrOutsideDirectory)
}

func TestPathValidator_ValidateDirectory(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	v, err := NewPathValidator(root)
	require.NoError(t, err)

	assert.NoError(t, v.ValidateDirectory(root))
	assert.NoError(t, v.ValidateDirectory(filepath.Join(root, "images")))
	assert.Error(t, v.ValidateDirectory(file))
}

func TestWithin(t *testing.T) {
	sep := string(filepath.Separator)
	dir := sep + "data"
	assert.True(t, within(dir, dir))
	assert.True(t, within(dir+sep+"a.pdf", dir))
	assert.False(t, within(sep+"database"+sep+"a.pdf", dir))
}
