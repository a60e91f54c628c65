// Package hierarchy holds the in-memory session/acquisition/dataset/image
// model that the scanner builds and the summarizer and upload pipeline read.
//
// Membership is decided by metadata identifiers only: sessions are keyed by
// study instance UID, acquisitions by acquisition key, datasets by series
// instance UID, and images by SOP instance UID. Every level iterates in
// first-seen insertion order so that summaries and upload order are
// reproducible for a given directory walk.
//
// The Upsert* methods create on first sight and otherwise return the existing
// node untouched; callers mutate labels explicitly. Once scanning finishes the
// model is treated as read-only.
package hierarchy
