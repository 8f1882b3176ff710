// Package putsign issues time-limited, pre-authorized upload URLs for
// objects in a cloud storage bucket.
//
// The package owns request validation, defaulting, and grant bookkeeping.
// Canonical request construction and cryptographic signing are delegated to
// the storage provider's SDK through the URLSigner interface; see the
// storage subpackages for the available implementations.
package putsign
