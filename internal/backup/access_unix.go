//go:build unix

package backup

import "golang.org/x/sys/unix"

func canRead(path string) error {
	return unix.Access(path, unix.R_OK)
}

func canWrite(path string) error {
	return unix.Access(path, unix.W_OK)
}

// canWriteDir needs search permission as well to create entries.
func canWriteDir(path string) error {
	return unix.Access(path, unix.W_OK|unix.X_OK)
}
