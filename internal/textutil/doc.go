// Package textutil sanitizes labels taken from file metadata so they can be
// used as archive names and path segments.
package textutil
