package domain

import "time"

// WatchChannel is an active push notification subscription for a calendar.
// Callers persist channels themselves; the library keeps no registry.
type WatchChannel struct {
	// ID is the client-chosen channel identifier.
	ID string `json:"id"`

	// ResourceID is the provider's identifier for the watched resource.
	// Required when stopping the channel.
	ResourceID string `json:"resource_id"`

	// ResourceURI is the address of the watched resource.
	ResourceURI string `json:"resource_uri"`

	// Token is the optional shared secret echoed back in notifications.
	Token *string `json:"token,omitempty"`

	// Expiration is when the provider stops delivering notifications.
	Expiration time.Time `json:"expiration"`
}

// Notification is a parsed push notification delivered to the webhook
// endpoint.
type Notification struct {
	ChannelID     string `json:"channel_id"`
	ResourceID    string `json:"resource_id"`
	ResourceState string `json:"resource_state"`
	ResourceURI   string `json:"resource_uri"`

	ChannelToken      *string `json:"channel_token,omitempty"`
	ChannelExpiration *string `json:"channel_expiration,omitempty"`
	MessageNumber     *int64  `json:"message_number,omitempty"`
}

// Notification resource states.
const (
	// ResourceStateSync confirms a new subscription; it carries no changes.
	ResourceStateSync = "sync"

	// ResourceStateExists signals the watched resource changed.
	ResourceStateExists = "exists"

	// ResourceStateNotExists signals the watched resource was deleted.
	ResourceStateNotExists = "not_exists"
)
