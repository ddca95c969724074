package service

import (
	"fmt"
	"time"

	"github.com/maheshrc27/postflow/internal/models"
	"github.com/maheshrc27/postflow/internal/publisher"
	"github.com/maheshrc27/postflow/pkg/utils"
)

// CredentialResolver turns the connection joined onto a platform row into
// publisher credentials.
type CredentialResolver struct {
	// decryptKey is set when tokens are stored encrypted.
	decryptKey []byte
	now        func() time.Time
}

func NewCredentialResolver(encrypted bool, secretKey string) *CredentialResolver {
	r := &CredentialResolver{now: time.Now}
	if encrypted {
		r.decryptKey = []byte(secretKey)
	}
	return r
}

// Resolve returns a *CredentialError when the connection is absent, has no
// token or has expired. Other errors come from token decryption.
func (r *CredentialResolver) Resolve(pp *models.PostPlatform) (publisher.Credential, error) {
	conn := pp.Connection
	if conn == nil || conn.AccessToken == "" {
		return publisher.Credential{}, &CredentialError{Platform: pp.PlatformID, Kind: CredentialMissing}
	}
	if conn.Expired(r.now().UTC()) {
		return publisher.Credential{}, &CredentialError{Platform: pp.PlatformID, Kind: CredentialExpired}
	}

	token := conn.AccessToken
	if r.decryptKey != nil {
		plain, err := utils.Decrypt(token, r.decryptKey)
		if err != nil {
			return publisher.Credential{}, fmt.Errorf("%s access token could not be read. Please reconnect your account.", pp.PlatformID)
		}
		token = plain
	}

	return publisher.Credential{AccessToken: token, AccountID: conn.AccountID}, nil
}
