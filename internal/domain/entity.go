package domain

import "fmt"

type EntityType string

const (
	EntityProviders   EntityType = "providers"
	EntityClients     EntityType = "clients"
	EntityCredentials EntityType = "credentials"
	EntityShifts      EntityType = "shifts"
)

func ParseEntityType(s string) (EntityType, error) {
	switch EntityType(s) {
	case EntityProviders, EntityClients, EntityCredentials, EntityShifts:
		return EntityType(s), nil
	default:
		return "", fmt.Errorf("unknown entity type %q", s)
	}
}
