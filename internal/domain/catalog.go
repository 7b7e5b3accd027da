package domain

// ProductRecord is a locally stored product used by tier-1 product search.
// InStock is the only mutable field; it is decremented on purchase and never
// goes below zero.
type ProductRecord struct {
	ID       int64
	Name     string
	Category string
	Price    string
	InStock  int
}
