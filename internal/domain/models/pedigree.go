package models

// OffspringRelation tells how an offspring was found: through its sire or its dam reference.
type OffspringRelation string

const (
	RelationSired   OffspringRelation = "sired"
	RelationBirthed OffspringRelation = "birthed"
)

// Offspring is a direct descendant of the resolved animal.
type Offspring struct {
	Animal   Animal            `json:"animal"`
	Relation OffspringRelation `json:"relation"`
}

// Pedigree is the two-generation family view of an animal. A nil parent or
// grandparent means unknown.
type Pedigree struct {
	Animal            Animal      `json:"animal"`
	Sire              *Animal     `json:"sire"`
	Dam               *Animal     `json:"dam"`
	PaternalGrandSire *Animal     `json:"paternalGrandSire"`
	PaternalGrandDam  *Animal     `json:"paternalGrandDam"`
	MaternalGrandSire *Animal     `json:"maternalGrandSire"`
	MaternalGrandDam  *Animal     `json:"maternalGrandDam"`
	Offspring         []Offspring `json:"offspring"`
	Warnings          []string    `json:"warnings,omitempty"`
}
