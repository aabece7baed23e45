package types

// WindowTypeNormal is the only window type captured into sessions
const WindowTypeNormal = "normal"

// LiveTab is a tab as reported by the browser
type LiveTab struct {
	ID       int    `json:"id"`
	WindowID int    `json:"windowId"`
	URL      string `json:"url"`
	Title    string `json:"title"`
	Pinned   bool   `json:"pinned"`
	Active   bool   `json:"active"`
}

// LiveWindow is a window as reported by the browser, populated with its tabs
type LiveWindow struct {
	ID      int       `json:"id"`
	Type    string    `json:"type"`
	Focused bool      `json:"focused"`
	State   string    `json:"state"`
	Tabs    []LiveTab `json:"tabs"`
}

// WindowAttrs are the optional attributes of a window create/update request
type WindowAttrs struct {
	Focused *bool       `json:"focused,omitempty"`
	State   WindowState `json:"state,omitempty"`
}

// TabAttrs are the optional attributes of a tab create/update request
type TabAttrs struct {
	Active *bool `json:"active,omitempty"`
	Pinned *bool `json:"pinned,omitempty"`
}

// Bool returns a pointer to b, for optional attribute fields
func Bool(b bool) *bool {
	return &b
}
