// Package common contains constants and sentinel errors shared by the talk
// client and the development server.
package common

// Paths of the Talk OCS API, relative to the server base URL.
const (
	OCSBasePath  = "/ocs/v2.php"
	TalkAPIPath  = OCSBasePath + "/apps/spreed/api/v1"
	AvatarPath   = "/index.php/avatar"
	StatusPath   = "/status.php"
	AppPassPath  = OCSBasePath + "/core/getapppassword"
	UserInfoPath = OCSBasePath + "/cloud/user"
)

// OCSAPIRequestHeader must be present on every OCS call.
const OCSAPIRequestHeader = "OCS-APIRequest"

// Avatar sizes served by /index.php/avatar.
const (
	AvatarSizeSmall = 64
	AvatarSizeLarge = 256
)
