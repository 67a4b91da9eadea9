package adapter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// targetDirName is the build tool's output cache at the tree root. Copying
// it is only useful when the caller wants pre-warmed build artifacts.
const targetDirName = "target"

// Workspace manages the isolated scratch copy of a source tree that every
// mutation is applied to.
type Workspace interface {
	// CopyTree copies the tree at src into a fresh temporary directory and
	// returns its path. The root-level target directory is skipped unless
	// copyTarget is set. Cancellation is polled after every file; progress,
	// if non-nil, receives the cumulative bytes copied.
	CopyTree(ctx context.Context, src string, copyTarget bool, progress func(int64)) (string, error)

	// Remove deletes a scratch directory and everything in it.
	Remove(dir string) error
}

// LocalWorkspace implements Workspace on the local filesystem.
type LocalWorkspace struct{}

// NewLocalWorkspace constructs a LocalWorkspace.
func NewLocalWorkspace() *LocalWorkspace {
	return &LocalWorkspace{}
}

// CopyTree copies every file under src, preserving relative structure and
// file modes. On any read or write error the failing source and destination
// paths are reported and the partial copy is removed.
func (w *LocalWorkspace) CopyTree(
	ctx context.Context,
	src string,
	copyTarget bool,
	progress func(int64),
) (string, error) {
	dst, err := os.MkdirTemp("", "mutlab-*")
	if err != nil {
		return "", fmt.Errorf("create scratch directory: %w", err)
	}

	slog.Info("copying source tree to scratch", "src", src, "dst", dst, "copy_target", copyTarget)

	var bytesCopied int64

	err = filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("walk %s: %w", path, err)
		}

		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return fmt.Errorf("relative path of %s under %s: %w", path, src, err)
		}

		if info.IsDir() && !copyTarget && relPath == targetDirName {
			return filepath.SkipDir
		}

		dstPath := filepath.Join(dst, relPath)

		if info.IsDir() {
			if err := os.MkdirAll(dstPath, info.Mode().Perm()); err != nil {
				return fmt.Errorf("create directory %s: %w", dstPath, err)
			}

			return nil
		}

		if !info.Mode().IsRegular() {
			// Sockets, devices and symlinks have no place in a build tree
			// copy; skip rather than fail.
			slog.Debug("skipping irregular file", "path", path, "mode", info.Mode())
			return nil
		}

		n, err := copyFile(path, dstPath, info.Mode().Perm())
		if err != nil {
			return err
		}

		bytesCopied += n
		if progress != nil {
			progress(bytesCopied)
		}

		// Cooperative cancellation between files, so an interrupt does not
		// wait out a large tree.
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("copy interrupted at %s: %w", path, err)
		}

		return nil
	})
	if err != nil {
		_ = os.RemoveAll(dst)
		return "", fmt.Errorf("copy source tree %s to %s: %w", src, dst, err)
	}

	slog.Info("copied source tree", "src", src, "dst", dst, "bytes", bytesCopied)

	return dst, nil
}

// Remove deletes a scratch directory.
func (w *LocalWorkspace) Remove(dir string) error {
	return os.RemoveAll(dir)
}

func copyFile(src, dst string, perm os.FileMode) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", src, err)
	}

	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", dst, err)
	}

	n, err := io.Copy(out, in)
	if err != nil {
		_ = out.Close()
		return n, fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}

	if err := out.Close(); err != nil {
		return n, fmt.Errorf("close %s: %w", dst, err)
	}

	return n, nil
}
