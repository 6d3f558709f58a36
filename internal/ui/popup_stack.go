package ui

// popupKind identifies an overlay
type popupKind int

const (
	popupNone popupKind = iota
	popupHelp
	popupHistory
)

type popup struct {
	kind    popupKind
	onClose func(*Model)
}

// PopupStack layers overlays. Esc closes the topmost one first and keys go
// only to the top.
type PopupStack struct {
	open []popup
}

func NewPopupStack() *PopupStack {
	return &PopupStack{}
}

// Open pushes kind unless it is already open. onClose may be nil.
func (s *PopupStack) Open(kind popupKind, onClose func(*Model)) {
	if s.Has(kind) {
		return
	}
	s.open = append(s.open, popup{kind: kind, onClose: onClose})
}

// CloseTop closes the topmost popup. It reports false if none was open.
func (s *PopupStack) CloseTop(m *Model) bool {
	if len(s.open) == 0 {
		return false
	}
	top := s.open[len(s.open)-1]
	s.open = s.open[:len(s.open)-1]
	if top.onClose != nil {
		top.onClose(m)
	}
	return true
}

// Top returns the topmost popup, or popupNone
func (s *PopupStack) Top() popupKind {
	if len(s.open) == 0 {
		return popupNone
	}
	return s.open[len(s.open)-1].kind
}

func (s *PopupStack) Has(kind popupKind) bool {
	for _, p := range s.open {
		if p.kind == kind {
			return true
		}
	}
	return false
}

func (s *PopupStack) IsEmpty() bool {
	return len(s.open) == 0
}
