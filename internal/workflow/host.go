package workflow

// Host is the set of page bindings the controller drives: the address
// input, the message area, the submit action, the busy icon, the hidden
// device-info carrier, user notifications and the view itself.
//
// The controller calls Host methods while holding its lock, so an
// implementation must not call back into the Controller from them.
type Host interface {
	Address() string
	ShowMessage(msg Message)
	SetSubmitEnabled(enabled bool)
	SetBusy(busy bool)
	SetDeviceInfo(serialized string)
	Notify(text string)
	Refresh()
}

// Events is where the host reports user actions. Every registration returns
// a function that removes the listener.
type Events interface {
	OnInput(fn func()) (remove func())
	OnValidate(fn func()) (remove func())
	OnSubmit(fn func()) (remove func())
	OnDialogOpen(fn func(lab string)) (remove func())
}
