package dto

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// PageRequest carries pagination for listings.
type PageRequest struct {
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
	Search string `query:"search"`
}

// DefaultPage clamps Limit and Offset into range.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = defaultPageLimit
	}
	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse is the page metadata of a listing.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// ErrorResponse is the body of every HTTP error.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
