// Package linkbatch applies link replacements across many markdown files
// with bounded concurrency.
//
// A Processor walks a file list in fixed-size windows. Each window is
// dispatched in parallel and awaited fully before the next one starts, so
// at most ConcurrencyLimit files are in flight at any time. For every file
// the processor reads the content, extracts links, asks a Generator for
// replacements, splices them in and writes the file back only when a
// content-changing replacement was applied. A failure on one file is
// recorded in the Summary and never stops the batch.
//
// Two generators ship with the package: Substitution, used after copies
// and moves to redirect links from an old base path to a new one, and
// Normalization, which turns root-style links into relative ones.
package linkbatch
