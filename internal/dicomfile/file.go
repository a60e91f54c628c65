package dicomfile

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// ErrNotDICOM marks files that could not be parsed as DICOM.
var ErrNotDICOM = errors.New("not a dicom file")

// relatedSeriesSequence is (0008,1250) RelatedSeriesSequence.
var relatedSeriesSequence = tag.Tag{Group: 0x0008, Element: 0x1250}

// File is a parsed DICOM header. Pixel data is not loaded.
type File struct {
	Path    string
	dataset dicom.Dataset
}

// Open parses the header of the file at path. Any parse failure is reported
// as ErrNotDICOM.
func Open(path string) (*File, error) {
	ds, err := dicom.ParseFile(path, nil, dicom.SkipPixelData())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotDICOM, path, err)
	}
	return &File{Path: path, dataset: ds}, nil
}

// Get returns the value of the element with the given keyword, or def when
// the keyword is empty, unknown, absent, or blank.
func (f *File) Get(field, def string) string {
	field = strings.TrimSpace(field)
	if field == "" {
		return def
	}
	info, err := tag.FindByName(field)
	if err != nil {
		return def
	}
	if value := f.lookup(info.Tag); value != "" {
		return value
	}
	return def
}

// StudyUID returns the StudyInstanceUID or "" when absent.
func (f *File) StudyUID() string { return f.lookup(tag.StudyInstanceUID) }

// SeriesUID returns the file's own SeriesInstanceUID or "" when absent.
func (f *File) SeriesUID() string { return f.lookup(tag.SeriesInstanceUID) }

// SOPInstanceUID returns the image identifier or "" when absent.
func (f *File) SOPInstanceUID() string { return f.lookup(tag.SOPInstanceUID) }

// PrimarySeriesUID returns the SeriesInstanceUID from the first item of the
// RelatedSeriesSequence, or "" when the file declares no related series.
func (f *File) PrimarySeriesUID() string {
	elem, err := f.dataset.FindElementByTag(relatedSeriesSequence)
	if err != nil || elem.Value == nil {
		return ""
	}
	items, ok := elem.Value.GetValue().([]*dicom.SequenceItemValue)
	if !ok || len(items) == 0 || items[0] == nil {
		return ""
	}
	nestedElems, ok := items[0].GetValue().([]*dicom.Element)
	if !ok {
		return ""
	}
	for _, nested := range nestedElems {
		if nested != nil && nested.Tag == tag.SeriesInstanceUID {
			return valueString(nested)
		}
	}
	return ""
}

func (f *File) lookup(t tag.Tag) string {
	elem, err := f.dataset.FindElementByTag(t)
	if err != nil {
		return ""
	}
	return valueString(elem)
}

// valueString renders the first value of an element as trimmed text.
// Multi-valued strings are joined with the DICOM backslash delimiter.
func valueString(elem *dicom.Element) string {
	if elem == nil || elem.Value == nil {
		return ""
	}
	var out string
	switch v := elem.Value.GetValue().(type) {
	case []string:
		parts := make([]string, 0, len(v))
		for _, s := range v {
			if s = trimValue(s); s != "" {
				parts = append(parts, s)
			}
		}
		out = strings.Join(parts, `\`)
	case []int:
		if len(v) > 0 {
			out = strconv.Itoa(v[0])
		}
	case []float64:
		if len(v) > 0 {
			out = strconv.FormatFloat(v[0], 'f', -1, 64)
		}
	}
	return trimValue(out)
}

func trimValue(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), "\x00")
}
