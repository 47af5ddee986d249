package fileutil

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/karrick/godirwalk"
)

// PrefixBytes is the number of leading bytes compared when checking whether
// two files hold the same content.
const PrefixBytes = 1 << 20

// CopyFile streams src to a new file at dst, preserving the source mode and
// syncing before returning. dst must not exist. A partial dst is removed on
// failure.
func CopyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = out.Close()
			_ = os.Remove(dst)
		}
	}()

	written, err := io.Copy(out, in)
	if err != nil {
		return err
	}
	if written != info.Size() {
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", info.Size(), written)
	}
	if err = out.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", dst, err)
	}
	if err = out.Close(); err != nil {
		return err
	}
	_ = os.Chtimes(dst, info.ModTime(), info.ModTime())
	return nil
}

// CopyTree recreates the directory tree at src under dst, copying every
// regular file with CopyFile. dst must not exist.
func CopyTree(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("copy tree: %s: %w", dst, fs.ErrExist)
	}
	return godirwalk.Walk(src, &godirwalk.Options{
		Unsorted: false,
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			rel, err := filepath.Rel(src, osPathname)
			if err != nil {
				return err
			}
			target := filepath.Join(dst, rel)
			switch {
			case de.IsDir():
				return os.MkdirAll(target, 0o755)
			case de.IsRegular():
				return CopyFile(osPathname, target)
			default:
				return nil
			}
		},
	})
}

// PrefixHash returns the hex SHA-1 of the first PrefixBytes of path.
func PrefixHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha1.New()
	if _, err := io.Copy(h, io.LimitReader(f, PrefixBytes)); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// SameContent reports whether a and b have equal sizes and equal prefix
// hashes. It is a bounded comparison, not a full checksum.
func SameContent(a, b string) (bool, error) {
	ai, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false, err
	}
	if ai.Size() != bi.Size() {
		return false, nil
	}
	ah, err := PrefixHash(a)
	if err != nil {
		return false, err
	}
	bh, err := PrefixHash(b)
	if err != nil {
		return false, err
	}
	return ah == bh, nil
}

// SamePath reports whether a and b name the same filesystem object. When
// either side cannot be stat'ed the cleaned absolute paths are compared.
func SamePath(a, b string) bool {
	ai, aerr := os.Stat(a)
	bi, berr := os.Stat(b)
	if aerr == nil && berr == nil {
		return os.SameFile(ai, bi)
	}
	aa, err := filepath.Abs(a)
	if err != nil {
		return false
	}
	ba, err := filepath.Abs(b)
	if err != nil {
		return false
	}
	return aa == ba
}

// Exists reports whether path exists. Errors other than not-exist count as
// existing so callers never overwrite something they could not inspect.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}
