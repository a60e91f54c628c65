// Package httpupload sends dataset archives to a label-based upload endpoint
// as multipart POST requests.
//
// Each request carries two parts: "metadata", the JSON envelope, and "file",
// the archive itself. The body is streamed, so archives are never held in
// memory. Authentication uses the "scitran-user" authorization scheme.
package httpupload
