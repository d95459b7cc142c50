package workflow

// Style is the visual treatment of the validation message.
type Style int

const (
	StyleNone Style = iota
	StyleSuccess
	StyleFailure
)

func (s Style) String() string {
	switch s {
	case StyleSuccess:
		return "success"
	case StyleFailure:
		return "failure"
	default:
		return "none"
	}
}

// Message is the content of the validation message area. The zero value is
// an empty, unstyled area.
type Message struct {
	Text  string
	Style Style
}

func (m Message) IsZero() bool {
	return m.Text == "" && m.Style == StyleNone
}

const (
	MsgEmptyAddress   = "Please enter an IP address."
	MsgInvalidAddress = "Please enter a valid IP address."
	MsgCameraFound    = "Camera found in NVR!"
	MsgCameraNotFound = "Camera not found in NVR."
	MsgServerError    = "Server error. Please try again."
)

const (
	NoticeMissingCamera = "Camera IP or device info missing."
	NoticeMissingLab    = "Lab name is missing."
	NoticeAdded         = "Camera added successfully!"
	NoticeAddFailed     = "Failed to add camera: %s"
	NoticeAddRejected   = "Failed to add camera."
	NoticeAddError      = "Error adding camera. Please try again."
)
