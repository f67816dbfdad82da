package domain

// Brand is a product manufacturer or label. Names are unique ignoring case.
type Brand struct {
	ID   int64  `json:"brandId" db:"id"`
	Name string `json:"name" db:"name"`
}
