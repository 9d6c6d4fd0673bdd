package mover

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ErrTargetExists is returned when the destination name is already taken.
var ErrTargetExists = errors.New("target already exists")

// replaceable for tests that simulate filesystems without hard links
var linkFunc = os.Link

type Mover struct {
	dryRun bool
}

func New(dryRun bool) *Mover {
	return &Mover{dryRun: dryRun}
}

func (m *Mover) DryRun() bool {
	return m.dryRun
}

// Move renames src to dst without ever replacing an existing dst. Where hard
// links are supported the existence check and the rename happen in one step;
// otherwise it falls back to check-then-rename.
func (m *Mover) Move(src, dst string) error {
	if m.dryRun {
		return nil
	}

	err := linkFunc(src, dst)
	if err == nil {
		if err := os.Remove(src); err != nil {
			return fmt.Errorf("remove %s after linking %s: %w", src, dst, err)
		}
		return nil
	}
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%s: %w", dst, ErrTargetExists)
	}

	// exFAT/FAT cards and some network mounts refuse hard links.
	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("%s: %w", dst, ErrTargetExists)
	} else if !os.IsNotExist(err) {
		return err
	}
	return os.Rename(src, dst)
}
