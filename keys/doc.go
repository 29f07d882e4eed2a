// Package keys generates, encodes, parses and stores RSA key pairs.
//
// Private keys can be written as PEM or DER (PKCS#1 or PKCS#8) or in the
// OpenSSH format. A passphrase seals PEM and DER keys with age scrypt
// encryption; OpenSSH keys use their own bcrypt-based encryption.
//
// Public keys are accepted in every shape a browser RSA library takes: PEM
// (PKIX or PKCS#1), a PEM or base64 private key whose public half is used,
// bare base64 DER, and an OpenSSH "ssh-rsa" line.
//
// KeyStore is a small filesystem-backed store keyed by name.
package keys
