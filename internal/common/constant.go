// Package common contains shared constants and sentinel errors used across
// userdesk components.
package common

// Metadata keys of the local store. The two overlay entries are independent
// and cleared together when the session ends.
const (
	DeletedUserIDsKey = "deletedUserIds"
	EditedUsersKey    = "editedUsers"
	SessionTokenKey   = "token"
)

// APIKeyHeaderName is the HTTP header carrying the optional API key on
// outbound requests.
const APIKeyHeaderName = "x-api-key"

// AvatarPlaceholderURL is shown for users the remote source returns without
// an avatar.
const AvatarPlaceholderURL = "https://via.placeholder.com/150"
