package entity

// Post lives in exactly one user's partition and is never shared
// across users.
type Post struct {
	UUID  string
	Title string
	Body  string
}
