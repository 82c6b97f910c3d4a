package pgpkey_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/distr-sh/recoverd/internal/pgpkey"
	. "github.com/onsi/gomega"
)

func newEntity(t *testing.T, config *packet.Config) *openpgp.Entity {
	t.Helper()
	entity, err := openpgp.NewEntity("Ada Lovelace", "", "ada@passbolt.com", config)
	if err != nil {
		t.Fatal(err)
	}
	return entity
}

func armoredPublicKey(t *testing.T, entities ...*openpgp.Entity) string {
	t.Helper()
	var buf bytes.Buffer
	w, err := armor.Encode(&buf, openpgp.PublicKeyType, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, entity := range entities {
		if err := entity.Serialize(w); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestParse_RSA(t *testing.T) {
	g := NewWithT(t)

	entity := newEntity(t, &packet.Config{Algorithm: packet.PubKeyAlgoRSA, RSABits: 2048})
	blob := armoredPublicKey(t, entity)

	key, err := pgpkey.NewParser().Parse(blob)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(key.Type).To(Equal("RSA"))
	g.Expect(key.Bits).To(Equal(2048))
	g.Expect(key.UID).To(Equal("Ada Lovelace <ada@passbolt.com>"))
	g.Expect(key.Fingerprint).To(MatchRegexp("^[0-9A-F]{40}$"))
	g.Expect(key.KeyID).To(Equal(key.Fingerprint[32:]))
	g.Expect(key.Key).To(Equal(blob))
}

func TestParse_EdDSA(t *testing.T) {
	g := NewWithT(t)

	entity := newEntity(t, &packet.Config{Algorithm: packet.PubKeyAlgoEdDSA})

	key, err := pgpkey.NewParser().Parse(armoredPublicKey(t, entity))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(key.Type).To(Equal("EdDSA"))
	g.Expect(key.Bits).To(BeNumerically(">", 0))
	g.Expect(key.UID).To(Equal("Ada Lovelace <ada@passbolt.com>"))
}

func TestParse_Binary(t *testing.T) {
	g := NewWithT(t)

	entity := newEntity(t, &packet.Config{Algorithm: packet.PubKeyAlgoEdDSA})
	var buf bytes.Buffer
	g.Expect(entity.Serialize(&buf)).To(Succeed())

	key, err := pgpkey.NewParser().Parse(buf.String())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(key.UID).To(Equal("Ada Lovelace <ada@passbolt.com>"))
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{name: "empty", blob: ""},
		{name: "whitespace", blob: "   \n"},
		{name: "garbage", blob: "this is not a key"},
		{
			name: "broken armor",
			blob: "-----BEGIN PGP PUBLIC KEY BLOCK-----\n\nAAAA\n-----END PGP PUBLIC KEY BLOCK-----\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			_, err := pgpkey.NewParser().Parse(tt.blob)
			g.Expect(err).To(MatchError(pgpkey.ErrMalformedKey))
		})
	}
}

func TestParse_RejectsMultipleKeys(t *testing.T) {
	g := NewWithT(t)

	config := &packet.Config{Algorithm: packet.PubKeyAlgoEdDSA}
	blob := armoredPublicKey(t, newEntity(t, config), newEntity(t, config))

	_, err := pgpkey.NewParser().Parse(blob)
	g.Expect(err).To(MatchError(pgpkey.ErrMalformedKey))
	g.Expect(err.Error()).To(ContainSubstring("exactly one key"))
}

func TestParse_RejectsPrivateKey(t *testing.T) {
	g := NewWithT(t)

	entity := newEntity(t, &packet.Config{Algorithm: packet.PubKeyAlgoEdDSA})
	var buf bytes.Buffer
	w, err := armor.Encode(&buf, openpgp.PrivateKeyType, nil)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(entity.SerializePrivate(w, nil)).To(Succeed())
	g.Expect(w.Close()).To(Succeed())

	_, err = pgpkey.NewParser().Parse(buf.String())
	g.Expect(err).To(MatchError(pgpkey.ErrMalformedKey))
	g.Expect(strings.ToLower(err.Error())).To(ContainSubstring("private key"))
}

func TestAlgorithmName(t *testing.T) {
	g := NewWithT(t)

	g.Expect(pgpkey.AlgorithmName(packet.PubKeyAlgoRSA)).To(Equal("RSA"))
	g.Expect(pgpkey.AlgorithmName(packet.PubKeyAlgoRSASignOnly)).To(Equal("RSA"))
	g.Expect(pgpkey.AlgorithmName(packet.PubKeyAlgoDSA)).To(Equal("DSA"))
	g.Expect(pgpkey.AlgorithmName(packet.PubKeyAlgoEdDSA)).To(Equal("EdDSA"))
	g.Expect(pgpkey.AlgorithmName(packet.PublicKeyAlgorithm(200))).To(Equal("ALGO200"))
}
