// Package process holds platform-specific helpers for tearing down the
// browser processes an export launches.
package process
