package types

import (
	"time"

	"github.com/google/uuid"
)

type KeyDescriptor struct {
	Fingerprint string `db:"fingerprint"`
	KeyID       string `db:"key_id"`
	Type        string `db:"type"`
	Bits        int    `db:"bits"`
	UID         string `db:"uid"`
	Key         string `db:"armored_key"`
}

type KeyBinding struct {
	AccountID uuid.UUID `db:"account_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
	KeyDescriptor
}
