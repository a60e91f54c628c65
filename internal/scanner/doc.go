// Package scanner walks a directory tree of per-file DICOM records and
// reconstructs the session, acquisition, dataset, and image hierarchy from
// identifiers embedded in each file. Directory layout is never consulted.
//
// Every file produces an Outcome: either a parsed record that is folded into
// the hierarchy, or a skip reason that is logged and counted. File-level
// problems never abort a scan; only an unreadable root or a cancelled
// context does.
package scanner
