package file

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path"
	"strings"

	"github.com/jsphweid/scoreline/tree"
	"github.com/pkg/errors"
)

const containerPath = "META-INF/container.xml"

var ErrNoRootfile = errors.New("compressed score has no rootfile")

var extensions = []string{".musicxml", ".xml", ".mxl"}

func IsScoreFile(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func IsCompressed(name string) bool {
	return strings.ToLower(path.Ext(name)) == ".mxl"
}

// Read returns the MusicXML text of the file at p, unpacking .mxl
// containers.
func Read(p string) (string, error) {
	dat, err := os.ReadFile(p)
	if err != nil {
		return "", errors.Wrapf(err, "reading %v", p)
	}
	if IsCompressed(p) {
		return Unpack(dat)
	}
	return string(dat), nil
}

// Unpack extracts the root score of a compressed MusicXML archive.
func Unpack(dat []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(dat), int64(len(dat)))
	if err != nil {
		return "", errors.Wrap(err, "opening mxl archive")
	}

	files := make(map[string]*zip.File)
	for _, f := range zr.File {
		files[f.Name] = f
	}

	name := ""
	if c, ok := files[containerPath]; ok {
		text, err := readZipFile(c)
		if err != nil {
			return "", err
		}
		name, err = rootfile(text)
		if err != nil {
			return "", err
		}
	} else {
		for _, f := range zr.File {
			if !strings.HasPrefix(f.Name, "META-INF/") && IsScoreFile(f.Name) && !IsCompressed(f.Name) {
				name = f.Name
				break
			}
		}
	}

	f, ok := files[name]
	if !ok {
		return "", errors.Wrapf(ErrNoRootfile, "%q", name)
	}
	return readZipFile(f)
}

func rootfile(container string) (string, error) {
	root, err := tree.Parse(container)
	if err != nil {
		return "", errors.Wrap(err, "parsing container.xml")
	}
	for _, rf := range root.Child("container").Child("rootfiles").Nodes("rootfile") {
		if p := rf.Attr("full-path"); p != "" {
			return p, nil
		}
	}
	return "", ErrNoRootfile
}

func readZipFile(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", errors.Wrapf(err, "opening %v", f.Name)
	}
	defer rc.Close()

	dat, err := io.ReadAll(rc)
	if err != nil {
		return "", errors.Wrapf(err, "reading %v", f.Name)
	}
	return string(dat), nil
}
