package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// UserUUID derives the stable identifier for a seeded user account.
func UserUUID(email string) uuid.UUID {
	return UUID("go-publishing:user:" + strings.ToLower(strings.TrimSpace(email)))
}

// ContentUUID derives a stable identifier for seeded content entries.
func ContentUUID(slug string) uuid.UUID {
	return UUID("go-publishing:content:" + strings.ToLower(strings.TrimSpace(slug)))
}

// TranslationUUID derives a stable identifier for a seeded translation.
func TranslationUUID(contentID uuid.UUID, locale string) uuid.UUID {
	return UUID("go-publishing:translation:" + contentID.String() + ":" + strings.ToLower(strings.TrimSpace(locale)))
}
