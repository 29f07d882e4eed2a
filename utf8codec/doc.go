// Package utf8codec converts text to and from UTF-8 byte sequences using the
// URI-component percent-encoding scheme that browsers expose as
// encodeURIComponent and decodeURIComponent.
//
// Encode never fails. Decode fails with a *DecodeError when the bytes do not
// form valid UTF-8, so a browser client and a Go server agree on what is
// rejected.
package utf8codec
