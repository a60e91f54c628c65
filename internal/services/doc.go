// Package services defines shared utilities consumed by the scan and upload
// pipeline and by the transfer backends in its subpackages.
//
// Key responsibilities:
//   - Context helpers that stamp the stage, session, acquisition, and dataset
//     being processed so log lines carry them automatically.
//   - Structured error markers plus the Wrap helper that classify failures as
//     pre-flight problems or mid-pipeline staging, archive, and transfer
//     errors.
//
// Transfer backends live in subpackages (httpupload, s3upload, dirdrop) and
// all satisfy upload.TransferFunc.
package services
