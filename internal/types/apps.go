package types

// ApplicationEntry represents one running application as shown in the switcher
type ApplicationEntry struct {
	PID   uint32  `json:"pid"`
	Name  string  `json:"name"`  // executable file name, e.g. "notepad.exe"
	Title string  `json:"title"` // main window title
	Icon  *string `json:"icon"`  // PNG data URL, null when no icon could be produced
}

// HasIcon reports whether the entry carries a usable icon
func (e ApplicationEntry) HasIcon() bool {
	return e.Icon != nil && *e.Icon != ""
}
