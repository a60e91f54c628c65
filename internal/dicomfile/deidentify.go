package dicomfile

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

const dicomDateLayout = "20060102"

// Deidentify strips PatientName and PatientBirthDate from the file at path
// and rewrites it in place. When both a birth date and a study date are
// present, PatientAge is derived from them first. Dates are interpreted in
// loc; a nil loc means time.Local.
func Deidentify(path string, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}
	ds, err := dicom.ParseFile(path, nil)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotDICOM, path, err)
	}

	f := &File{Path: path, dataset: ds}
	if birth := f.lookup(tag.PatientBirthDate); birth != "" {
		study := f.lookup(tag.StudyDate)
		if age, ok := PatientAge(birth, study, loc); ok {
			elem, err := dicom.NewElement(tag.PatientAge, []string{age})
			if err != nil {
				return fmt.Errorf("build patient age: %w", err)
			}
			setElement(&ds, elem)
		}
	}
	removeElements(&ds, tag.PatientName, tag.PatientBirthDate)

	return writeInPlace(path, ds)
}

// PatientAge formats the age at study time as a DICOM AS value: months
// ("%03dM") below 960 months, whole years ("%03dY") otherwise.
func PatientAge(birthDate, studyDate string, loc *time.Location) (string, bool) {
	dob, err := time.ParseInLocation(dicomDateLayout, birthDate, loc)
	if err != nil {
		return "", false
	}
	study, err := time.ParseInLocation(dicomDateLayout, studyDate, loc)
	if err != nil {
		return "", false
	}
	months := 12*(study.Year()-dob.Year()) + int(study.Month()-dob.Month())
	if study.Day() < dob.Day() {
		months--
	}
	if months < 0 {
		return "", false
	}
	if months < 960 {
		return fmt.Sprintf("%03dM", months), true
	}
	return fmt.Sprintf("%03dY", months/12), true
}

func setElement(ds *dicom.Dataset, elem *dicom.Element) {
	for i, existing := range ds.Elements {
		if existing.Tag == elem.Tag {
			ds.Elements[i] = elem
			return
		}
	}
	ds.Elements = append(ds.Elements, elem)
}

func removeElements(ds *dicom.Dataset, tags ...tag.Tag) {
	drop := make(map[tag.Tag]struct{}, len(tags))
	for _, t := range tags {
		drop[t] = struct{}{}
	}
	kept := ds.Elements[:0]
	for _, elem := range ds.Elements {
		if _, ok := drop[elem.Tag]; ok {
			continue
		}
		kept = append(kept, elem)
	}
	ds.Elements = kept
}

// writeInPlace writes ds to a sibling temp file and renames it over path.
func writeInPlace(path string, ds dicom.Dataset) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".deid-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if err := dicom.Write(tmp, ds, dicom.SkipVRVerification(), dicom.SkipValueTypeVerification()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write dicom: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
