package mapping

import (
	"github.com/distr-sh/recoverd/api"
	"github.com/distr-sh/recoverd/internal/types"
)

func KeyDescriptorToAPI(key types.KeyDescriptor) api.KeyDescriptor {
	return api.KeyDescriptor{
		Fingerprint: key.Fingerprint,
		KeyID:       key.KeyID,
		Bits:        key.Bits,
		UID:         key.UID,
		Type:        key.Type,
	}
}

func KeyBindingToAPI(binding types.KeyBinding) api.KeyDescriptor {
	return KeyDescriptorToAPI(binding.KeyDescriptor)
}

func AccountToTokenStatus(account types.Account) api.TokenStatus {
	return api.TokenStatus{AccountID: account.ID, Username: account.Username, Valid: true}
}
