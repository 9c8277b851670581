// Package fingerprint defines the capture/match seam between the core
// and vendor biometric SDKs. Templates are opaque byte blobs whose
// format is owned by whichever matcher produced them; the core never
// inspects them.
package fingerprint

import (
	"bytes"
	"context"
)

// Matcher performs a one-to-one comparison of an enrolled template
// against a freshly captured probe.
type Matcher interface {
	Match(enrolled, probe []byte) (bool, error)
}

// Reader captures one template from an attached scanner. Implementations
// wrap vendor SDKs and run on their own goroutine; the core only ever
// receives the completed template.
type Reader interface {
	Capture(ctx context.Context) ([]byte, error)
}

// BytewiseMatcher compares templates byte for byte. It stands in for a
// real vendor matcher in tests and on deployments without a fingerprint
// SDK installed.
type BytewiseMatcher struct{}

func (BytewiseMatcher) Match(enrolled, probe []byte) (bool, error) {
	if len(enrolled) == 0 || len(probe) == 0 {
		return false, nil
	}
	return bytes.Equal(enrolled, probe), nil
}
