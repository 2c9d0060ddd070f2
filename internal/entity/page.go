package entity

// RawPage is one HTML document loaded from an offline website snapshot.
// It is never mutated after load.
type RawPage struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}
