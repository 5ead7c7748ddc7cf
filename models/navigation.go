package models

// NavigationTransition is the payload of a screen change. PreviousRoute is
// empty on the first navigation of a session.
type NavigationTransition struct {
	PreviousRoute string `json:"previousRoute"`
	Route         string `json:"route"`
}
