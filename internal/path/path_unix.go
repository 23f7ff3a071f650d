//go:build !windows

// path_unix.go maps normalised paths to the local filesystem on Unix.
//
// Normalised paths already use forward slashes, so they are passed to the
// OS unchanged. Drive letter paths ("C:/data") simply fail the existence
// probe here.

package path

func localPath(p string) string {
	return p
}
