// Package archive turns a packaged worker directory into a single
// compressed tarball for distribution.
package archive

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/specialistvlad/workerpack/internal/ctxlog"
)

// Format is a compression applied on top of the tar stream.
type Format interface {
	Name() string
	// Ext is appended to the directory path to name the archive.
	Ext() string
	Compress(w io.Writer) (io.WriteCloser, error)
	Decompress(r io.Reader) (io.Reader, error)
}

// epoch is the modification time stamped on every entry so that archives
// of identical trees are byte-identical.
var epoch = time.Unix(0, 0).UTC()

// Zstd compresses with zstd at the default level.
type Zstd struct{}

func (Zstd) Name() string { return "zstd" }
func (Zstd) Ext() string  { return ".tar.zst" }

func (Zstd) Compress(w io.Writer) (io.WriteCloser, error) {
	return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

func (Zstd) Decompress(r io.Reader) (io.Reader, error) {
	return zstd.NewReader(r)
}

// LZ4 compresses with the lz4 frame format.
type LZ4 struct{}

func (LZ4) Name() string { return "lz4" }
func (LZ4) Ext() string  { return ".tar.lz4" }

func (LZ4) Compress(w io.Writer) (io.WriteCloser, error) {
	return lz4.NewWriter(w), nil
}

func (LZ4) Decompress(r io.Reader) (io.Reader, error) {
	return lz4.NewReader(r), nil
}

// Tar writes an uncompressed tarball.
type Tar struct{}

func (Tar) Name() string { return "tar" }
func (Tar) Ext() string  { return ".tar" }

func (Tar) Compress(w io.Writer) (io.WriteCloser, error) {
	return nopCloser{w}, nil
}

func (Tar) Decompress(r io.Reader) (io.Reader, error) {
	return r, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// Write archives the regular files below dir into dir+f.Ext() and returns
// the archive path. Entries are sorted and carry fixed metadata.
func Write(ctx context.Context, dir string, f Format) (string, error) {
	logger := ctxlog.FromContext(ctx)
	dest := filepath.Clean(dir) + f.Ext()

	files, err := listFiles(dir)
	if err != nil {
		return "", fmt.Errorf("listing %s: %w", dir, err)
	}

	out, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	if err := writeTar(out, dir, files, f); err != nil {
		out.Close()
		os.Remove(dest)
		return "", fmt.Errorf("writing %s: %w", dest, err)
	}
	if err := out.Close(); err != nil {
		return "", err
	}

	logger.Debug("Archive written.", "path", dest, "format", f.Name(), "files", len(files))
	return dest, nil
}

func writeTar(w io.Writer, root string, files []string, f Format) error {
	cw, err := f.Compress(w)
	if err != nil {
		return err
	}
	tw := tar.NewWriter(cw)
	for _, rel := range files {
		if err := addFile(tw, root, rel); err != nil {
			return err
		}
	}
	if err := tw.Close(); err != nil {
		return err
	}
	return cw.Close()
}

func addFile(tw *tar.Writer, root, rel string) error {
	src, err := os.Open(filepath.Join(root, rel))
	if err != nil {
		return err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return err
	}
	hdr := &tar.Header{
		Name:     filepath.ToSlash(rel),
		Mode:     0644,
		Size:     info.Size(),
		ModTime:  epoch,
		Typeflag: tar.TypeReg,
		Format:   tar.FormatPAX,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err = io.Copy(tw, src)
	return err
}

func listFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			files = append(files, rel)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

// Read returns the contents of every file in the archive at path.
func Read(path string, f Format) (map[string][]byte, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	r, err := f.Decompress(in)
	if err != nil {
		return nil, err
	}
	if c, ok := r.(interface{ Close() }); ok {
		defer c.Close()
	}

	out := make(map[string][]byte)
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, err
		}
		out[hdr.Name] = data
	}
}
