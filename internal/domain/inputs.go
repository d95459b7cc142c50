package domain

type AddCameraInput struct {
	IP         string
	DeviceInfo DeviceInfo
	Lab        LabIdentifier
}
