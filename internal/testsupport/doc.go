// Package testsupport builds configs and synthetic DICOM files for tests.
package testsupport
