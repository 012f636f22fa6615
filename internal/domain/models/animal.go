package models

import "time"

// DateLayout is the canonical calendar-date format stored on every record.
const DateLayout = "2006-01-02"

// Gender of an animal.
type Gender string

const (
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
)

// AnimalStatus is the herd lifecycle state. Sold and deceased animals stay in the roster.
type AnimalStatus string

const (
	StatusActive   AnimalStatus = "active"
	StatusDry      AnimalStatus = "dry"
	StatusPregnant AnimalStatus = "pregnant"
	StatusSold     AnimalStatus = "sold"
	StatusDeceased AnimalStatus = "deceased"
)

// InHerd reports whether the status still counts towards the live herd.
func (s AnimalStatus) InHerd() bool {
	return s != StatusSold && s != StatusDeceased
}

// Animal is a single head of cattle in the roster.
type Animal struct {
	ID          string       `bson:"_id" json:"id"`
	TagNumber   string       `bson:"tag_number" json:"tagNumber"`
	Name        string       `bson:"name" json:"name"`
	Breed       string       `bson:"breed" json:"breed"`
	DateOfBirth string       `bson:"date_of_birth" json:"dateOfBirth"`
	Gender      Gender       `bson:"gender" json:"gender"`
	Status      AnimalStatus `bson:"status" json:"status"`
	SireID      *string      `bson:"sire_id,omitempty" json:"sireId,omitempty"`
	DamID       *string      `bson:"dam_id,omitempty" json:"damId,omitempty"`
	Photo       *string      `bson:"photo,omitempty" json:"photo,omitempty"`
	Notes       *string      `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt   time.Time    `bson:"created_at" json:"createdAt"`
}

// Label renders the "Name (Tag)" form used in listings and searches.
func (a Animal) Label() string {
	return a.Name + " (" + a.TagNumber + ")"
}

// AgeInMonths returns the completed months between the date of birth and ref.
// An unparsable birth date yields -1.
func (a Animal) AgeInMonths(ref time.Time) int {
	born, err := time.Parse(DateLayout, a.DateOfBirth)
	if err != nil {
		return -1
	}
	months := (ref.Year()-born.Year())*12 + int(ref.Month()) - int(born.Month())
	if ref.Day() < born.Day() {
		months--
	}
	return months
}

// FindAnimal returns the first animal in herd with the given identifier.
func FindAnimal(herd []Animal, id string) (Animal, bool) {
	for _, a := range herd {
		if a.ID == id {
			return a, true
		}
	}
	return Animal{}, false
}
