package domain

// Status is a named product lifecycle state such as "active" or
// "discontinued".
type Status struct {
	ID   int64  `json:"statusId" db:"id"`
	Name string `json:"name" db:"name"`
}
