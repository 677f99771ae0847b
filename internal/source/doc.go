// Package source resolves template and data references.
//
// A reference is one of:
//
//	page.html            local file
//	file:///srv/page.html
//	-                    standard input
//	s3://bucket/key      object in S3
//
// S3 clients are built lazily from the default AWS credential chain, so
// local-only use never touches AWS configuration.
package source
