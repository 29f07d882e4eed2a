// Package rsacrypt encrypts text for a holder of an RSA private key and
// decrypts it on the holder's side.
//
// A PublicKeyEncryptor is an explicit, caller-owned handle: configure it with
// SetPublicKey, then call Encrypt. Plaintext is encoded with utf8codec before
// padding, and ciphertext is returned as standard base64, so output from a
// browser RSA library and from this package decrypt the same way.
package rsacrypt
