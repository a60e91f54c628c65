package testsupport

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

const (
	explicitVRLittleEndian = "1.2.840.10008.1.2.1"
	mrImageStorage         = "1.2.840.10008.5.1.4.1.1.4"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = 0x42
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// DICOM describes a synthetic single-image DICOM file. Fields left empty are
// omitted from the written file.
type DICOM struct {
	StudyUID          string
	SeriesUID         string
	SOPInstanceUID    string
	PrimarySeriesUID  string
	PatientID         string
	PatientName       string
	PatientBirthDate  string
	StudyDate         string
	StudyID           string
	StudyDescription  string
	SeriesDescription string
	SeriesNumber      string
}

// WriteDICOM writes a minimal explicit VR little endian Part 10 file.
func WriteDICOM(t testing.TB, path string, img DICOM) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}

	sopInstance := img.SOPInstanceUID
	if sopInstance == "" {
		sopInstance = "1.2.3.999"
	}

	var elems []*dicom.Element
	add := func(t2 tag.Tag, value string) {
		if value == "" {
			return
		}
		elem, err := dicom.NewElement(t2, []string{value})
		if err != nil {
			t.Fatalf("build element %v: %v", t2, err)
		}
		elems = append(elems, elem)
	}

	add(tag.MediaStorageSOPClassUID, mrImageStorage)
	add(tag.MediaStorageSOPInstanceUID, sopInstance)
	add(tag.TransferSyntaxUID, explicitVRLittleEndian)
	add(tag.SOPClassUID, mrImageStorage)
	add(tag.SOPInstanceUID, img.SOPInstanceUID)
	add(tag.StudyDate, img.StudyDate)
	add(tag.StudyDescription, img.StudyDescription)
	add(tag.SeriesDescription, img.SeriesDescription)
	add(tag.PatientName, img.PatientName)
	add(tag.PatientID, img.PatientID)
	add(tag.PatientBirthDate, img.PatientBirthDate)
	add(tag.StudyInstanceUID, img.StudyUID)
	add(tag.SeriesInstanceUID, img.SeriesUID)
	add(tag.StudyID, img.StudyID)
	add(tag.SeriesNumber, img.SeriesNumber)

	if img.PrimarySeriesUID != "" {
		nested, err := dicom.NewElement(tag.SeriesInstanceUID, []string{img.PrimarySeriesUID})
		if err != nil {
			t.Fatalf("build related series uid: %v", err)
		}
		value, err := dicom.NewValue([][]*dicom.Element{{nested}})
		if err != nil {
			t.Fatalf("build related series sequence: %v", err)
		}
		elems = append(elems, &dicom.Element{
			Tag:                    tag.Tag{Group: 0x0008, Element: 0x1250},
			ValueRepresentation:    tag.VRSequence,
			RawValueRepresentation: "SQ",
			ValueLength:            tag.VLUndefinedLength,
			Value:                  value,
		})
	}

	sort.SliceStable(elems, func(i, j int) bool {
		a, b := elems[i].Tag, elems[j].Tag
		if a.Group != b.Group {
			return a.Group < b.Group
		}
		return a.Element < b.Element
	})

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	ds := dicom.Dataset{Elements: elems}
	if err := dicom.Write(f, ds, dicom.SkipVRVerification(), dicom.SkipValueTypeVerification()); err != nil {
		t.Fatalf("write dicom %s: %v", path, err)
	}
}
