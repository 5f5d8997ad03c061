package assembler

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/text/unicode/norm"
)

// Domain prefixes for content-addressed artifact identity. The version
// suffix enables future algorithm migration without digest collisions.
const (
	domainProcedure = "masm/procedure/v1"
	domainProgram   = "masm/program/v1"
)

// digestWithDomain computes SHA-256 over the domain, a null separator,
// and each NFC-normalized part separated by null bytes. Normalizing at
// the hashing boundary keeps digests stable across source files that
// differ only in Unicode representation.
func digestWithDomain(domain string, parts ...string) [32]byte {
	h := sha256.New()
	h.Write([]byte(domain))
	for _, part := range parts {
		h.Write([]byte{0x00})
		h.Write([]byte(norm.NFC.String(part)))
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func procedureDigest(libPath, procName, source string) [32]byte {
	return digestWithDomain(domainProcedure, libPath, procName, source)
}

func programDigest(name, source string) [32]byte {
	return digestWithDomain(domainProgram, name, source)
}

// DigestHex renders a digest for diagnostics and logs.
func DigestHex(d [32]byte) string {
	return hex.EncodeToString(d[:])
}
