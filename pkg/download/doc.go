// Package download fetches remote dataset archives into the local
// filesystem.
//
// A download streams into "<destination>.partial" and is renamed into
// place only once complete. An interrupted download leaves the partial
// file behind so the next attempt can resume with a byte range request.
// Transient network failures are retried with a fixed backoff schedule.
//
// Fetchers are registered per URL scheme. http and https go through
// net/http, s3 goes through the AWS SDK.
package download
