package rpmfile

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/ganboing/rpmfile/pkg/cpio"
	"github.com/ganboing/rpmfile/pkg/logger"
)

// fileMode converts the permission bits of a cpio mode field to an
// fs.FileMode. The setuid, setgid and sticky bits live at 0o4000, 0o2000
// and 0o1000 in cpio but at dedicated positions in fs.FileMode.
func fileMode(mode int64) fs.FileMode {
	fm := fs.FileMode(mode & 0o777)
	if mode&0o4000 != 0 {
		fm |= fs.ModeSetuid
	}
	if mode&0o2000 != 0 {
		fm |= fs.ModeSetgid
	}
	if mode&0o1000 != 0 {
		fm |= fs.ModeSticky
	}
	return fm
}

// ExtractAll writes every member of the archive beneath dir on fsys.
// Regular files and symlinks are materialized; other member kinds (device
// nodes, fifos) are skipped with a debug log. Member names are sanitized so
// an archive cannot write outside dir.
func (f *File) ExtractAll(fsys afero.Fs, dir string) error {
	members, err := f.Members()
	if err != nil {
		return err
	}
	for _, m := range members {
		name, err := cleanMemberName(m.Name)
		if err != nil {
			return err
		}
		if name == "" {
			continue
		}
		target := filepath.Join(dir, filepath.FromSlash(name))
		if err := fsys.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("rpmfile: creating parent of %q: %w", target, err)
		}

		switch {
		case m.IsRegular():
			if err := f.extractRegular(fsys, target, m); err != nil {
				return err
			}
		case m.IsSymlink():
			if err := f.extractSymlink(fsys, target, m); err != nil {
				return err
			}
		default:
			logger.Debug("Skipping special member", "name", m.Name, "mode", fmt.Sprintf("%o", m.Mode()))
		}
	}
	return nil
}

func (f *File) extractRegular(fsys afero.Fs, target string, m *cpio.Record) error {
	src, err := f.Open(m)
	if err != nil {
		return err
	}
	dst, err := fsys.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fileMode(m.Mode()))
	if err != nil {
		return fmt.Errorf("rpmfile: creating %q: %w", target, err)
	}
	_, err = io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("rpmfile: extracting %q: %w", m.Name, err)
	}
	return nil
}

func (f *File) extractSymlink(fsys afero.Fs, target string, m *cpio.Record) error {
	src, err := f.Open(m)
	if err != nil {
		return err
	}
	linkTarget, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("rpmfile: reading symlink target of %q: %w", m.Name, err)
	}
	linker, ok := fsys.(afero.Linker)
	if !ok {
		logger.Debug("Filesystem does not support symlinks, skipping", "name", m.Name)
		return nil
	}
	if err := linker.SymlinkIfPossible(string(linkTarget), target); err != nil {
		return fmt.Errorf("rpmfile: creating symlink %q: %w", target, err)
	}
	return nil
}

// cleanMemberName strips the leading "./" or "/" cpio name prefixes and
// rejects names that escape the extraction root.
func cleanMemberName(name string) (string, error) {
	name = strings.TrimPrefix(name, ".")
	name = strings.TrimLeft(name, "/")
	if name == "" {
		return "", nil
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return "", fmt.Errorf("rpmfile: member name %q escapes extraction root", name)
		}
	}
	return name, nil
}
