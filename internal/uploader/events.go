package uploader

import "github.com/akanis/studio/internal/gallery"

// EventKind names a step of an upload.
type EventKind string

const (
	CompressionStarted EventKind = "compression_started"
	UploadStarted      EventKind = "upload_started"
	UploadSucceeded    EventKind = "upload_succeeded"
	UploadFailed       EventKind = "upload_failed"
)

// Transport is the path a file takes to the media host.
type Transport string

const (
	TransportDirect Transport = "direct"
	TransportProxy  Transport = "proxy"
)

// Event reports upload progress. Transport is set from UploadStarted on, Item only on
// UploadSucceeded and Err only on UploadFailed.
type Event struct {
	Kind      EventKind
	File      string
	Size      int64
	Transport Transport
	Item      *gallery.Item
	Err       error
}

// Observer receives events in order, on the uploading goroutine.
type Observer interface {
	OnEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// OnEvent implements Observer.
func (f ObserverFunc) OnEvent(e Event) { f(e) }

type nopObserver struct{}

func (nopObserver) OnEvent(Event) {}
