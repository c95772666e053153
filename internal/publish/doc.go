// Package publish writes rendered pages to their destination: a local
// directory or an S3 bucket.
package publish
