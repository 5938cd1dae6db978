package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pdminh/imagebatch/internal/models"
)

// Filename is the fixed name under which the produced archive is
// offered for download.
const Filename = "converted_images.zip"

// EntryName derives the archive entry name for an item: the original
// extension is stripped and the target format's extension appended.
func EntryName(originalName string, format models.Format) string {
	base := strings.TrimSuffix(originalName, filepath.Ext(originalName))
	if base == "" {
		base = "image"
	}
	return base + format.Extension()
}

// Build serializes every done item, in insertion order, into one zip
// container. Items in any other status contribute nothing and raise no
// error; their surfacing is the caller's concern. Entry extensions
// come from the format each item was actually encoded in, so a run
// with an overridden target format cannot mislabel entries. Duplicate
// entry names are written as-is — the zip format permits them. An
// empty batch yields a valid empty archive.
func Build(batch *models.Batch) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, it := range batch.Items() {
		if it.Status() != models.StatusDone {
			continue
		}
		name := EntryName(it.OriginalName, it.EncodedFormat())
		w, err := zw.Create(name)
		if err != nil {
			zw.Close()
			return nil, fmt.Errorf("%w: create entry %q: %v", models.ErrArchive, name, err)
		}
		if _, err := w.Write(it.OutputBytes()); err != nil {
			zw.Close()
			return nil, fmt.Errorf("%w: write entry %q: %v", models.ErrArchive, name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrArchive, err)
	}
	return buf.Bytes(), nil
}
