package types

// Viewer identifies who performs a request. The zero value is anonymous.
type Viewer struct {
	UserID uint
}

// Anonymous returns the viewer of an unauthenticated request.
func Anonymous() Viewer {
	return Viewer{}
}

// UserViewer returns the viewer for an authenticated user.
func UserViewer(id uint) Viewer {
	return Viewer{UserID: id}
}

// IsAuthenticated reports whether the viewer is a logged-in user.
func (v Viewer) IsAuthenticated() bool {
	return v.UserID != 0
}
