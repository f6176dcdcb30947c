package constants

// ContextKeyUserID is the gin context key holding the authenticated user ID.
const ContextKeyUserID = "user_id"

// Field validation limits for tasks and users.
const (
	MinTitleLength       = 3
	MaxTitleLength       = 255
	MaxDescriptionLength = 1000
	MaxCategoryLength    = 100
	MinPasswordLength    = 6
)
