package ui

// Observer receives engine events. pkg/metrics implements it.
type Observer interface {
	ContentRebuilt()
	AttributeChanged(op string)
	ComponentRendered(kind string)
	ComponentDestroyed(kind string)
	ErrorReported(code string)
}

// Attribute operations reported to Observer.AttributeChanged.
const (
	AttrSet    = "set"
	AttrRemove = "remove"
)

type nopObserver struct{}

func (nopObserver) ContentRebuilt()           {}
func (nopObserver) AttributeChanged(string)   {}
func (nopObserver) ComponentRendered(string)  {}
func (nopObserver) ComponentDestroyed(string) {}
func (nopObserver) ErrorReported(string)      {}
