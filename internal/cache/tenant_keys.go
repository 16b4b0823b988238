package cache

import (
	"github.com/RonnieMoneymaker/2.2-sub001/internal/tenant"
)

// KeySnapshot returns the per-tenant key of a profit snapshot.
func KeySnapshot(tenantID, id string) string {
	return tenant.PrefixKey(tenantID, "snapshot:"+id)
}

// KeySnapshotIndex returns the per-tenant sorted set listing snapshot ids by creation time.
func KeySnapshotIndex(tenantID string) string {
	return tenant.PrefixKey(tenantID, "snapshots")
}

// KeyRateLimit returns the per-tenant rate limit bucket of a client.
func KeyRateLimit(tenantID, clientIP string) string {
	return tenant.PrefixKey(tenantID, "ratelimit:"+clientIP)
}
