package scanner

import (
	"reaper/internal/config"
	"reaper/internal/dicomfile"
)

const (
	defaultSubjectCode      = "Unknown"
	defaultSessionLabel     = "Untitled"
	defaultAcquisitionLabel = "Untitled"
	defaultDatasetPrefix    = "Unknown"
	defaultExamNumber       = "0"
	deidentifiedPrefix      = "ex"
	datasetLabelSeparator   = " - "
)

// Metadata is the read side of a classified file.
type Metadata interface {
	Get(field, def string) string
	StudyUID() string
	SeriesUID() string
	SOPInstanceUID() string
	PrimarySeriesUID() string
}

// Opener classifies a path, returning its metadata or an error when the file
// is not a record.
type Opener interface {
	Open(path string) (Metadata, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(path string) (Metadata, error)

// Open calls f(path).
func (f OpenerFunc) Open(path string) (Metadata, error) {
	return f(path)
}

// DICOMOpener classifies files with the DICOM parser.
var DICOMOpener Opener = OpenerFunc(func(path string) (Metadata, error) {
	f, err := dicomfile.Open(path)
	if err != nil {
		return nil, err
	}
	return f, nil
})

// SkipReason explains why a file contributed nothing to the hierarchy.
type SkipReason int

const (
	NotSkipped SkipReason = iota
	SkipUnclassified
	SkipMissingIdentifier
)

func (r SkipReason) String() string {
	switch r {
	case SkipUnclassified:
		return "unclassified"
	case SkipMissingIdentifier:
		return "missing identifier"
	default:
		return "none"
	}
}

// Record holds everything the hierarchy needs from one file.
type Record struct {
	Path             string
	StudyUID         string
	SeriesUID        string
	PrimarySeriesUID string
	ImageID          string
	AcquisitionKey   string
	SubjectCode      string
	SessionLabel     string
	AcquisitionLabel string
	DatasetLabel     string
}

// Outcome is the result of classifying one file: Record is set when the file
// was parsed, otherwise Skip names the reason and Err the cause.
type Outcome struct {
	Record *Record
	Skip   SkipReason
	Err    error
}

// labeler turns metadata into a Record using the resolved field names.
type labeler struct {
	fields        config.FieldNames
	relatedSeries bool
	deidentify    bool
}

func (l labeler) record(path string, md Metadata) Outcome {
	study := md.StudyUID()
	series := md.SeriesUID()
	image := md.SOPInstanceUID()
	if study == "" || series == "" || image == "" {
		return Outcome{Skip: SkipMissingIdentifier, Err: missingIdentifierError(study, series, image)}
	}

	primary := md.PrimarySeriesUID()
	key := series
	if l.relatedSeries && primary != "" {
		key = primary
	}

	var subject string
	if l.deidentify {
		subject = deidentifiedPrefix + md.Get(l.fields.ExamNumber, defaultExamNumber)
	} else {
		subject = md.Get(l.fields.SubjectCode, defaultSubjectCode)
	}

	acqLabel := md.Get(l.fields.AcquisitionLabel, defaultAcquisitionLabel)
	return Outcome{Record: &Record{
		Path:             path,
		StudyUID:         study,
		SeriesUID:        series,
		PrimarySeriesUID: primary,
		ImageID:          image,
		AcquisitionKey:   key,
		SubjectCode:      subject,
		SessionLabel:     md.Get(l.fields.SessionLabel, defaultSessionLabel),
		AcquisitionLabel: acqLabel,
		DatasetLabel:     md.Get(l.fields.DatasetLabel, defaultDatasetPrefix) + datasetLabelSeparator + acqLabel,
	}}
}
