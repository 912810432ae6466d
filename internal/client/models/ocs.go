package models

import "encoding/json"

// OCSMeta is the status block every OCS response carries.
type OCSMeta struct {
	Status     string `json:"status"`
	StatusCode int    `json:"statuscode"`
	Message    string `json:"message"`
}

// OCSEnvelope is the {"ocs": {"meta": ..., "data": ...}} wrapper.
type OCSEnvelope struct {
	OCS struct {
		Meta OCSMeta         `json:"meta"`
		Data json.RawMessage `json:"data"`
	} `json:"ocs"`
}

// CallSession is the data of a join response.
type CallSession struct {
	SessionID string `json:"sessionId"`
}

// Profile is the data of /cloud/user.
type Profile struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayname"`
}

// AppPassword is the data of /core/getapppassword.
type AppPassword struct {
	AppPassword string `json:"apppassword"`
}

// ServerStatus is the body of /status.php.
type ServerStatus struct {
	Installed   bool   `json:"installed"`
	Maintenance bool   `json:"maintenance"`
	Version     string `json:"version"`
}
