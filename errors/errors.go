package errors

import "fmt"

var (
	ErrWorkerPanic    = fmt.Errorf("worker panic")
	ErrSessionFull    = fmt.Errorf("session is full")
	ErrNotAnImage     = fmt.Errorf("image payload is not an image")
	ErrInvalidDataURI = fmt.Errorf("image payload is not a base64 data URI")
	ErrUnknownEvent   = fmt.Errorf("unknown inbound event")
)
