package client

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/talkclient/internal/common"
)

func joinURL(baseURL string, parts ...string) string {
	return strings.TrimRight(baseURL, "/") + strings.Join(parts, "")
}

func roomsURL(baseURL string) string {
	return joinURL(baseURL, common.TalkAPIPath, "/room")
}

func roomURL(baseURL, token string) string {
	return joinURL(baseURL, common.TalkAPIPath, "/room/", url.PathEscape(token))
}

func roomPublicURL(baseURL, token string) string {
	return roomURL(baseURL, token) + "/public"
}

func roomPasswordURL(baseURL, token string) string {
	return roomURL(baseURL, token) + "/password"
}

func selfParticipantURL(baseURL, token string) string {
	return roomURL(baseURL, token) + "/participants/self"
}

func activeParticipantURL(baseURL, token string) string {
	return roomURL(baseURL, token) + "/participants/active"
}

func avatarURL(baseURL, name string, size int) string {
	return joinURL(baseURL, common.AvatarPath, "/", url.PathEscape(name), "/", strconv.Itoa(size))
}

func statusURL(baseURL string) string {
	return joinURL(baseURL, common.StatusPath)
}

func appPasswordURL(baseURL string) string {
	return joinURL(baseURL, common.AppPassPath)
}

func profileURL(baseURL string) string {
	return joinURL(baseURL, common.UserInfoPath)
}
