package rename

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"
)

// renameFile performs one safe single-file rename. Behavior:
//
//   - source equal to target (after cleaning) is a no-op
//   - a case-only rename goes through an intermediate temporary name so it
//     works on filesystems that reject direct case-only renames
//   - an existing target is refused with ErrTargetExists, never replaced
//   - a cross-device failure falls back to copy-then-delete, preserving
//     permissions and timestamps
type renameFunc func(src, dst string) error

// osRename is the primitive both phases use; tests swap it to inject
// faults at chosen call sites.
var osRename = os.Rename

func renameFile(src, dst string) error {
	src = filepath.Clean(src)
	dst = filepath.Clean(dst)
	if src == dst {
		return nil
	}

	// Case-only rename: on a case-insensitive filesystem src and dst are
	// the same directory entry, so both the exists-check and a direct
	// rename misbehave. Route through a unique intermediate name.
	if strings.EqualFold(src, dst) {
		tmp := filepath.Join(filepath.Dir(src), ".rename_case_"+uuid.NewString())
		if err := osRename(src, tmp); err != nil {
			return fmt.Errorf("case rename to intermediate: %w", err)
		}
		if err := osRename(tmp, dst); err != nil {
			// Try to put the original name back before reporting.
			if restoreErr := osRename(tmp, src); restoreErr != nil {
				return fmt.Errorf("case rename to target: %w (restore also failed: %v)", err, restoreErr)
			}
			return fmt.Errorf("case rename to target: %w", err)
		}
		return nil
	}

	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("%w: %s", ErrTargetExists, dst)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat target: %w", err)
	}

	err := osRename(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossDevice(err) {
		return err
	}

	// Source and target live on different devices; rename can never
	// succeed, so copy with metadata and remove the source.
	if err := copyPreserving(src, dst); err != nil {
		return fmt.Errorf("cross-device copy: %w", err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("cross-device remove source: %w", err)
	}
	return nil
}

// isCrossDevice reports whether err is an EXDEV rename failure.
func isCrossDevice(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}

// copyPreserving copies src to dst carrying over mode and modification
// time. A partial destination is removed on any error.
func copyPreserving(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("copy content: %w", err)
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("sync: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("close destination: %w", err)
	}

	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("preserve timestamps: %w", err)
	}
	return nil
}

// isWritableDir reports whether the directory can be written to by
// actually probing it; faking permission bits is unreliable across
// filesystems and platforms.
func isWritableDir(dir string) bool {
	probe := filepath.Join(dir, ".rename_probe_"+uuid.NewString())
	f, err := os.OpenFile(probe, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return false
	}
	_ = f.Close()
	_ = os.Remove(probe)
	return true
}
