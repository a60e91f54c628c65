// Package preflight runs the fatal readiness checks that precede a scan or
// upload: the timezone must resolve, the source path must be a readable
// directory, the staging root must be writable, and an HTTP upload target
// must accept the configured credentials.
//
// The CLI runs RunAll before touching any file and aborts on the first
// failed Result, so a doomed run never starts staging data.
package preflight
