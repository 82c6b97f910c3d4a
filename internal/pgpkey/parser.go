package pgpkey

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/distr-sh/recoverd/internal/types"
)

const shortKeyIDLength = 8

var ErrMalformedKey = errors.New("malformed public key")

// Parser decodes OpenPGP public keys, armored or binary.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(blob string) (types.KeyDescriptor, error) {
	entity, err := readSingleEntity(blob)
	if err != nil {
		return types.KeyDescriptor{}, err
	}
	if entity.PrivateKey != nil {
		return types.KeyDescriptor{}, fmt.Errorf("%w: private key material is not accepted", ErrMalformedKey)
	}

	primary := entity.PrimaryKey
	fingerprint := fmt.Sprintf("%X", primary.Fingerprint)
	if len(fingerprint) < shortKeyIDLength {
		return types.KeyDescriptor{}, fmt.Errorf("%w: invalid fingerprint", ErrMalformedKey)
	}
	bits, err := primary.BitLength()
	if err != nil {
		return types.KeyDescriptor{}, fmt.Errorf("%w: %w", ErrMalformedKey, err)
	}
	uid := primaryUID(entity)
	if uid == "" {
		return types.KeyDescriptor{}, fmt.Errorf("%w: key has no user id", ErrMalformedKey)
	}

	return types.KeyDescriptor{
		Fingerprint: fingerprint,
		KeyID:       fingerprint[len(fingerprint)-shortKeyIDLength:],
		Type:        AlgorithmName(primary.PubKeyAlgo),
		Bits:        int(bits),
		UID:         uid,
		Key:         blob,
	}, nil
}

func readSingleEntity(blob string) (*openpgp.Entity, error) {
	if strings.TrimSpace(blob) == "" {
		return nil, fmt.Errorf("%w: empty key", ErrMalformedKey)
	}
	entities, err := openpgp.ReadArmoredKeyRing(strings.NewReader(blob))
	if err != nil {
		var binaryErr error
		if entities, binaryErr = openpgp.ReadKeyRing(bytes.NewReader([]byte(blob))); binaryErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedKey, err)
		}
	}
	switch len(entities) {
	case 0:
		return nil, fmt.Errorf("%w: no key found", ErrMalformedKey)
	case 1:
		return entities[0], nil
	default:
		return nil, fmt.Errorf("%w: expected exactly one key but found %d", ErrMalformedKey, len(entities))
	}
}

func primaryUID(entity *openpgp.Entity) string {
	if identity := entity.PrimaryIdentity(); identity != nil {
		return identity.Name
	}
	for name := range entity.Identities {
		return name
	}
	return ""
}

func AlgorithmName(algo packet.PublicKeyAlgorithm) string {
	switch algo {
	case packet.PubKeyAlgoRSA, packet.PubKeyAlgoRSAEncryptOnly, packet.PubKeyAlgoRSASignOnly:
		return "RSA"
	case packet.PubKeyAlgoElGamal:
		return "ELGAMAL"
	case packet.PubKeyAlgoDSA:
		return "DSA"
	case packet.PubKeyAlgoECDH:
		return "ECDH"
	case packet.PubKeyAlgoECDSA:
		return "ECDSA"
	case packet.PubKeyAlgoEdDSA:
		return "EdDSA"
	default:
		return fmt.Sprintf("ALGO%d", algo)
	}
}
