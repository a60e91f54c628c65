// Package staging manages the staging root that holds per-dataset work
// directories.
//
// Upload runs hold a shared lock on the root while they create and remove
// work directories. Stale-directory cleanup takes the exclusive lock, so it
// never deletes a directory that a running upload still owns.
package staging
