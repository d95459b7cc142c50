package nvr

import "github.com/Flarenzy/labcam/internal/domain"

// CheckIPRequest is the payload of the validate-address endpoint.
type CheckIPRequest struct {
	IP string `json:"ip"`
}

// CheckIPResponse tells whether the NVR knows the address.
type CheckIPResponse struct {
	Valid      bool              `json:"valid"`
	DeviceInfo domain.DeviceInfo `json:"device_info,omitempty"`
}

// AddCameraRequest is the payload of the add-camera endpoint. LabName is left
// out in the legacy variant, which carries the lab in the URL.
type AddCameraRequest struct {
	IP         string            `json:"ip"`
	DeviceInfo domain.DeviceInfo `json:"device_info"`
	LabName    string            `json:"lab_name,omitempty"`
}

type AddCameraResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func (r CheckIPResponse) toDomain() domain.CameraLookup {
	lookup := domain.CameraLookup{Found: r.Valid}
	if r.Valid {
		lookup.DeviceInfo = r.DeviceInfo
	}
	return lookup
}

func (r AddCameraResponse) toDomain() domain.AddCameraResult {
	return domain.AddCameraResult{
		Success: r.Success,
		Message: r.Message,
	}
}
