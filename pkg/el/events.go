package el

// On attaches an event handler under "on" + event. Handler signatures are
// host-defined; the remote host accepts func() and func(remote.Event).
func On(event string, handler any) Attr {
	return Attr{Name: "on" + event, Value: handler}
}

func OnClick(handler any) Attr      { return On("click", handler) }
func OnDblClick(handler any) Attr   { return On("dblclick", handler) }
func OnInput(handler any) Attr      { return On("input", handler) }
func OnChange(handler any) Attr     { return On("change", handler) }
func OnSubmit(handler any) Attr     { return On("submit", handler) }
func OnKeyDown(handler any) Attr    { return On("keydown", handler) }
func OnKeyUp(handler any) Attr      { return On("keyup", handler) }
func OnFocus(handler any) Attr      { return On("focus", handler) }
func OnBlur(handler any) Attr       { return On("blur", handler) }
func OnMouseEnter(handler any) Attr { return On("mouseenter", handler) }
func OnMouseLeave(handler any) Attr { return On("mouseleave", handler) }
