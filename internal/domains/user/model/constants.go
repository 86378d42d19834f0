package model

const (
	// AvatarDir is the object storage root for avatars:
	// users/avatars/<user id>/<avatar id>/{original.<ext>,thumb.jpg}
	AvatarDir     = "users/avatars"
	ThumbnailName = "thumb.jpg"
	AvatarField   = "avatar"
)
