package policy

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
)

// IsDuplicate reports whether two files have identical content. It is used to
// annotate collision reports; it never changes the skip decision.
func IsDuplicate(srcPath, destPath string) (bool, error) {
	srcInfo, err := os.Stat(srcPath)
	if err != nil {
		return false, err
	}
	destInfo, err := os.Stat(destPath)
	if err != nil {
		return false, err
	}
	if srcInfo.Size() != destInfo.Size() {
		return false, nil
	}

	srcHash, err := hashFile(srcPath)
	if err != nil {
		return false, err
	}

	destHash, err := hashFile(destPath)
	if err != nil {
		return false, err
	}

	return srcHash == destHash, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
