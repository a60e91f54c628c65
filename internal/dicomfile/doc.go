// Package dicomfile reads identifiers and descriptive fields from DICOM
// Part 10 files and applies the in-place de-identification transform used
// before upload.
//
// Parsing is delegated to github.com/suyashkumar/dicom. Fields are looked up
// by their standard keyword ("PatientID", "SeriesDescription", ...) so the
// field names used for labels stay configurable.
package dicomfile
