package policy

import (
	"os"
	"path/filepath"

	"github.com/On-Jun9/MediaStamp/pkg/types"
)

// ConflictResolver decides whether a planned rename may proceed. An existing
// target always blocks the rename; nothing is ever overwritten.
type ConflictResolver struct {
	// claimed holds targets reserved earlier in this run that may not exist
	// on disk yet (dry runs).
	claimed map[string]string
}

func NewConflictResolver() *ConflictResolver {
	return &ConflictResolver{claimed: make(map[string]string)}
}

type Resolution struct {
	Action types.RenameAction
	// SelfCollision is true when the file already carries its canonical name.
	SelfCollision bool
	Skip          bool
}

func (c *ConflictResolver) Resolve(task *types.RenameTask) Resolution {
	if samePath(task.Source.Path, task.DestPath) {
		return Resolution{Action: types.RenameActionCollision, SelfCollision: true, Skip: true}
	}

	if _, err := os.Lstat(task.DestPath); !os.IsNotExist(err) {
		return Resolution{Action: types.RenameActionCollision, Skip: true}
	}

	if owner, ok := c.claimed[task.DestPath]; ok && owner != task.Source.Path {
		return Resolution{Action: types.RenameActionCollision, Skip: true}
	}

	c.claimed[task.DestPath] = task.Source.Path
	return Resolution{Action: types.RenameActionRenamed}
}

// Release forgets a claim on dest, so a later file may take the name after
// the claiming rename failed.
func (c *ConflictResolver) Release(dest string) {
	delete(c.claimed, dest)
}

func samePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}
