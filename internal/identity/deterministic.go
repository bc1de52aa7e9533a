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

// TagUUID derives the id of a tag from its name. Names are case-insensitive.
func TagUUID(name string) uuid.UUID {
	return UUID("cms-content:tag:" + strings.ToLower(strings.TrimSpace(name)))
}

// RouteUUID derives the id of a route binding from its attributes.
func RouteUUID(resourceKey, resourceID, locale, path string) uuid.UUID {
	return UUID("cms-content:route:" + strings.TrimSpace(resourceKey) + ":" + strings.TrimSpace(resourceID) + ":" + strings.ToLower(strings.TrimSpace(locale)) + ":" + strings.TrimSpace(path))
}
