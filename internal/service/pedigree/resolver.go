// Package pedigree resolves the two-generation family view of an animal.
package pedigree

import (
	"fmt"

	"github.com/mamadbah2/dairyflow/internal/domain/models"
)

// Resolve computes the pedigree of target against a snapshot of the herd.
// References that do not resolve are left nil. Resolution never goes past the
// grandparents, so looping data cannot recurse; it is reported in Warnings instead.
func Resolve(target models.Animal, herd []models.Animal) models.Pedigree {
	p := models.Pedigree{Animal: target, Offspring: []models.Offspring{}}
	if _, ok := models.FindAnimal(herd, target.ID); !ok || target.ID == "" {
		return p
	}

	p.Sire = lookup(herd, target.SireID)
	p.Dam = lookup(herd, target.DamID)
	if p.Sire != nil {
		p.PaternalGrandSire = lookup(herd, p.Sire.SireID)
		p.PaternalGrandDam = lookup(herd, p.Sire.DamID)
	}
	if p.Dam != nil {
		p.MaternalGrandSire = lookup(herd, p.Dam.SireID)
		p.MaternalGrandDam = lookup(herd, p.Dam.DamID)
	}

	for _, a := range herd {
		switch {
		case a.SireID != nil && *a.SireID == target.ID:
			p.Offspring = append(p.Offspring, models.Offspring{Animal: a, Relation: models.RelationSired})
		case a.DamID != nil && *a.DamID == target.ID:
			p.Offspring = append(p.Offspring, models.Offspring{Animal: a, Relation: models.RelationBirthed})
		}
	}

	p.Warnings = integrityWarnings(p)
	return p
}

func lookup(herd []models.Animal, id *string) *models.Animal {
	if id == nil || *id == "" {
		return nil
	}
	a, ok := models.FindAnimal(herd, *id)
	if !ok {
		return nil
	}
	return &a
}

type slot struct {
	role   string
	animal *models.Animal
	gender models.Gender
}

func integrityWarnings(p models.Pedigree) []string {
	var warnings []string
	warn := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		for _, w := range warnings {
			if w == msg {
				return
			}
		}
		warnings = append(warnings, msg)
	}

	target := p.Animal
	if target.SireID != nil && *target.SireID == target.ID {
		warn("%s is listed as its own sire", target.Label())
	}
	if target.DamID != nil && *target.DamID == target.ID {
		warn("%s is listed as its own dam", target.Label())
	}

	slots := []slot{
		{"sire", p.Sire, models.GenderMale},
		{"dam", p.Dam, models.GenderFemale},
		{"paternal grandsire", p.PaternalGrandSire, models.GenderMale},
		{"paternal granddam", p.PaternalGrandDam, models.GenderFemale},
		{"maternal grandsire", p.MaternalGrandSire, models.GenderMale},
		{"maternal granddam", p.MaternalGrandDam, models.GenderFemale},
	}

	seen := make(map[string]string, len(slots))
	for _, s := range slots {
		if s.animal == nil {
			continue
		}
		if s.animal.Gender != s.gender {
			warn("%s %s is %s", s.role, s.animal.Label(), s.animal.Gender)
		}
		if s.animal.ID == target.ID {
			warn("%s appears as its own %s", target.Label(), s.role)
			continue
		}
		if first, dup := seen[s.animal.ID]; dup {
			warn("%s appears as both %s and %s", s.animal.Label(), first, s.role)
			continue
		}
		seen[s.animal.ID] = s.role
	}

	for _, o := range p.Offspring {
		child := o.Animal
		if child.SireID != nil && child.DamID != nil && *child.SireID == target.ID && *child.DamID == target.ID {
			warn("%s lists %s as both sire and dam", child.Label(), target.Label())
		}
	}
	return warnings
}
