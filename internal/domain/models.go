package domain

import (
	"bytes"
	"encoding/json"
	"net/netip"
)

// LabIdentifier names the lab a camera is added to.
type LabIdentifier string

// DeviceInfo is the camera metadata returned by the NVR lookup. It is kept
// as raw JSON and forwarded verbatim on submission.
type DeviceInfo json.RawMessage

// Empty reports whether d carries no metadata: no bytes, null or {}.
func (d DeviceInfo) Empty() bool {
	trimmed := bytes.TrimSpace(d)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return true
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err == nil && len(obj) == 0 {
		return true
	}
	return false
}

func (d DeviceInfo) String() string {
	return string(d)
}

func (d DeviceInfo) MarshalJSON() ([]byte, error) {
	if len(bytes.TrimSpace(d)) == 0 {
		return []byte("null"), nil
	}
	return []byte(d), nil
}

func (d *DeviceInfo) UnmarshalJSON(data []byte) error {
	*d = append((*d)[0:0], data...)
	return nil
}

type CameraLookup struct {
	Found      bool
	DeviceInfo DeviceInfo
}

type AddCameraResult struct {
	Success bool
	Message string
}

type DiscoveredCamera struct {
	IP         netip.Addr
	DeviceInfo DeviceInfo
}
