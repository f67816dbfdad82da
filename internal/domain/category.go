package domain

// Category groups products for browsing.
type Category struct {
	ID   int64  `json:"categoryId" db:"id"`
	Name string `json:"name" db:"name"`
}
