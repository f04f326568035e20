package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys attached to pool metrics.
const (
	AttrPoolName   = attribute.Key("pool.name")
	AttrPoolKey    = attribute.Key("pool.key")
	AttrRegistryID = attribute.Key("registry.id")
)

// PoolAttributes returns the attribute set identifying one free list.
func PoolAttributes(registryID, poolName, key string) attribute.Set {
	return attribute.NewSet(
		AttrRegistryID.String(registryID),
		AttrPoolName.String(poolName),
		AttrPoolKey.String(key),
	)
}
