// Package errors defines the typed errors and sentinel errors used by the SDK.
package errors
