// Package domain contains the core types for the GPTDesk server.
package domain

// GPT is a catalog entry users can pin to their sidebar.
// The catalog is built once at startup and never mutated.
type GPT struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Desc string `json:"desc"`
	Logo string `json:"logo,omitempty"`
}

// HomeCard is a curated card shown on the GPTS home view.
type HomeCard struct {
	Icon  string `json:"icon"`
	Title string `json:"title"`
	Desc  string `json:"desc"`
	From  string `json:"from"`
}

// HomeCards groups the static card sections returned verbatim by the home endpoint.
type HomeCards struct {
	Favorites   []HomeCard `json:"favorites"`
	Recommended []HomeCard `json:"recommended"`
}
