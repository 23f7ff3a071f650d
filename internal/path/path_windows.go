//go:build windows

// path_windows.go maps normalised paths to the local filesystem on Windows.
//
// Normalisation stores forward slashes; the existence probe converts them
// back to native separators so drive letter paths resolve.

package path

import "path/filepath"

func localPath(p string) string {
	return filepath.FromSlash(p)
}
