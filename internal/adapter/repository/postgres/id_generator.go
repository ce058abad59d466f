package postgres

import "github.com/oklog/ulid/v2"

// ULIDGenerator issues ULIDs for new entities. ULIDs sort by creation
// time, which keeps journal and trade ordering stable under string sort.
type ULIDGenerator struct{}

func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}
