package bign

import (
	"encoding/asn1"

	stb "stb34101.dev"
)

// Object identifiers of the standards family, dotted-decimal.
const (
	OIDCurve256v1 = "1.2.112.0.2.0.34.101.45.3.1"
	OIDCurve384v1 = "1.2.112.0.2.0.34.101.45.3.2"
	OIDCurve512v1 = "1.2.112.0.2.0.34.101.45.3.3"
	OIDField      = "1.2.112.0.2.0.34.101.45.4.1"

	// OIDBeltHash identifies the belt hashing algorithm; signatures over
	// belt-hash values bind this identifier into the challenge.
	OIDBeltHash = "1.2.112.0.2.0.34.101.31.81"

	// Sponge-based hashes for the higher security levels.
	OIDBash256 = "1.2.112.0.2.0.34.101.77.11"
	OIDBash384 = "1.2.112.0.2.0.34.101.77.12"
	OIDBash512 = "1.2.112.0.2.0.34.101.77.13"
)

// ParseOID converts a dotted-decimal string into its DER encoding.
func ParseOID(s string) ([]byte, error) {
	oid, err := parseDotted(s)
	if err != nil {
		return nil, err
	}
	der, err := asn1.Marshal(oid)
	if err != nil {
		return nil, stb.ErrBadOID
	}
	return der, nil
}

func parseDotted(s string) (asn1.ObjectIdentifier, error) {
	var oid asn1.ObjectIdentifier
	n := 0
	seen := false
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == '.' {
			if !seen {
				return nil, stb.ErrBadOID
			}
			oid = append(oid, n)
			n = 0
			seen = false
			continue
		}
		c := s[i]
		if c < '0' || c > '9' {
			return nil, stb.ErrBadOID
		}
		if n > (1<<31-1)/10 {
			return nil, stb.ErrBadOID
		}
		n = n*10 + int(c-'0')
		seen = true
	}
	if len(oid) < 2 || oid[0] > 2 || (oid[0] < 2 && oid[1] >= 40) {
		return nil, stb.ErrBadOID
	}
	return oid, nil
}
