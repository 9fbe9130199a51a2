// Package views holds the screen logic of the storefront: page view
// models and the controllers that drive them. Rendering is left to the
// embedding UI; everything here is plain state that a template or
// component tree can consume.
package views

// State is the lifecycle of a page or section.
type State int

const (
	StateLoading State = iota
	StateReady
	StateEmpty
	StateNotFound
	StateError
)

// Navigable paths, mirrored by whatever router hosts the UI.
const (
	HomePath      = "/"
	BrowseAllPath = "/category/all"
	CartPath      = "/cart"
	CheckoutPath  = "/checkout"
)

func CategoryPath(slug string) string {
	return "/category/" + slug
}

func ProductPath(slug string) string {
	return "/product/" + slug
}

func OrderPath(orderID string) string {
	return "/order/" + orderID
}
