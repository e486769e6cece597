package backup

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"strings"

	"closet-go/internal/closet"
)

// Archive entry prefixes. A snapshot is a gzipped tar with every preference
// blob under prefs/ and every media asset under media/.
const (
	prefsPrefix = "prefs/"
	mediaPrefix = "media/"
)

// writeArchive streams the full closet state into w as a tar.gz.
func writeArchive(w io.Writer, prefs closet.Prefs, media closet.MediaStore) error {
	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)

	keys, err := prefs.Keys()
	if err != nil {
		return fmt.Errorf("listing preference keys: %w", err)
	}
	for _, key := range keys {
		value, err := prefs.Get(key)
		if err != nil {
			return fmt.Errorf("reading pref %q: %w", key, err)
		}
		if err := writeEntry(tw, prefsPrefix+key, value); err != nil {
			return err
		}
	}

	names, err := media.List()
	if err != nil {
		return fmt.Errorf("listing media assets: %w", err)
	}
	for _, name := range names {
		data, err := media.Load(name)
		if err != nil {
			return fmt.Errorf("reading asset %q: %w", name, err)
		}
		if data == nil {
			continue
		}
		if err := writeEntry(tw, mediaPrefix+name, data); err != nil {
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("finalizing archive: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("finalizing compression: %w", err)
	}
	return nil
}

func writeEntry(tw *tar.Writer, name string, data []byte) error {
	hdr := &tar.Header{
		Name: name,
		Mode: 0644,
		Size: int64(len(data)),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("writing archive header for %s: %w", name, err)
	}
	if _, err := tw.Write(data); err != nil {
		return fmt.Errorf("writing archive entry %s: %w", name, err)
	}
	return nil
}

// readArchive restores a tar.gz snapshot from r into the live stores.
// Entries outside the known prefixes are skipped.
func readArchive(r io.Reader, prefs closet.Prefs, media closet.MediaStore) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("opening compressed snapshot: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		data, err := io.ReadAll(tr)
		if err != nil {
			return fmt.Errorf("reading archive entry %s: %w", hdr.Name, err)
		}

		switch {
		case strings.HasPrefix(hdr.Name, prefsPrefix):
			key := strings.TrimPrefix(hdr.Name, prefsPrefix)
			if err := prefs.Set(key, data); err != nil {
				return fmt.Errorf("restoring pref %q: %w", key, err)
			}
		case strings.HasPrefix(hdr.Name, mediaPrefix):
			name := strings.TrimPrefix(hdr.Name, mediaPrefix)
			if err := media.Save(name, data); err != nil {
				return fmt.Errorf("restoring asset %q: %w", name, err)
			}
		}
	}
}
