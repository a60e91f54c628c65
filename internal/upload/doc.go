// Package upload packages and transfers a scanned hierarchy one dataset at a
// time.
//
// Each dataset gets its own work directory under the staging root. When
// de-identification is on, images are copied there and scrubbed; the
// originals are never modified. The images are zipped into a single
// archive, described by an Envelope, and handed to a TransferFunc. The work
// directory is removed on every exit path.
//
// Processing is sequential and stops at the first failure. Datasets already
// transferred stay transferred.
package upload
