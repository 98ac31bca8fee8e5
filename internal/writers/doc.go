// Package writers turns a regulatory model into the export files.
//
// Design:
//   • Renderers (one per export kind) derive via internal/export and format
//     via internal/output; they never touch the filesystem.
//   • Export renders first and only then truncates the destination, so a
//     derivation error leaves no partial file behind.
//   • All files are plain TSV with a header row and no index column.
package writers
