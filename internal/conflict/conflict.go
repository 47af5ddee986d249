package conflict

import (
	"fmt"
	"path/filepath"
	"strings"

	"cleanmedia/internal/fileutil"
	"cleanmedia/internal/services"
)

// maxAlternates bounds the alternate-name search.
const maxAlternates = 10000

// Action is what the caller should do with the source file.
type Action int

const (
	// Place moves the source to Dest, which is free.
	Place Action = iota
	// NoOp leaves the source alone; it already sits at its destination.
	NoOp
	// Duplicate deletes the source; Dest holds the same content.
	Duplicate
	// Alternate moves the source to Dest, a fresh " (alt N)" name.
	Alternate
)

func (a Action) String() string {
	switch a {
	case NoOp:
		return "noop"
	case Duplicate:
		return "duplicate"
	case Alternate:
		return "alternate"
	default:
		return "place"
	}
}

// Resolution is the outcome of resolving a source against its destination.
type Resolution struct {
	Action Action
	Dest   string
}

// Claims reports the source that an earlier decision of the same run placed
// at dest. Dry runs use it to see destinations that do not exist on disk yet.
type Claims func(dest string) (src string, ok bool)

// Resolve decides how src reaches dst without ever overwriting different
// content. claims may be nil.
func Resolve(src, dst string, claims Claims) (Resolution, error) {
	if fileutil.SamePath(src, dst) {
		return Resolution{Action: NoOp, Dest: dst}, nil
	}
	occupant := func(path string) (string, bool) {
		if fileutil.Exists(path) {
			return path, true
		}
		if claims != nil {
			return claims(path)
		}
		return "", false
	}

	holder, occupied := occupant(dst)
	if !occupied {
		return Resolution{Action: Place, Dest: dst}, nil
	}
	same, err := fileutil.SameContent(src, holder)
	if err != nil {
		return Resolution{}, services.Wrap(services.ErrIO, "conflict", "compare", dst, err)
	}
	if same {
		return Resolution{Action: Duplicate, Dest: dst}, nil
	}

	for i := 1; i <= maxAlternates; i++ {
		candidate := AlternatePath(dst, i)
		if fileutil.SamePath(src, candidate) {
			return Resolution{Action: NoOp, Dest: candidate}, nil
		}
		if _, taken := occupant(candidate); !taken {
			return Resolution{Action: Alternate, Dest: candidate}, nil
		}
	}
	return Resolution{}, services.Wrap(services.ErrDestinationConflict, "conflict", "alternate",
		fmt.Sprintf("no free alternate for %s after %d attempts", dst, maxAlternates), nil)
}

// AlternatePath returns the n-th alternate for path: "Name (alt).ext" for
// n == 1 and "Name (alt n).ext" after that.
func AlternatePath(path string, n int) string {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	suffix := "alt"
	if n > 1 {
		suffix = fmt.Sprintf("alt %d", n)
	}
	return filepath.Join(dir, fmt.Sprintf("%s (%s)%s", stem, suffix, ext))
}
