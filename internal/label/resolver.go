// Package label turns raw classifier identifiers such as
// "Tomato___Early_blight" into bilingual display labels.
package label

import "strings"

const separator = "___"

// Result is a resolved class identifier.
type Result struct {
	ClassEN string `json:"class_en"`
	ClassAR string `json:"class_ar"`
	// Plant and Disease are canonical category keys. Both are empty when the
	// identifier could not be split.
	Plant   string `json:"plant,omitempty"`
	Disease string `json:"disease,omitempty"`
	Healthy bool   `json:"healthy"`

	// DescriptionEN and DescriptionAR describe the disease. Diseases without
	// a description get the text for unidentified images.
	DescriptionEN string `json:"description_en"`
	DescriptionAR string `json:"description_ar"`
}

// Resolver maps class identifiers to bilingual labels using a Table.
type Resolver struct {
	table *Table
}

// NewResolver creates a Resolver backed by t.
func NewResolver(t *Table) *Resolver {
	return &Resolver{table: t}
}

var defaultResolver = NewResolver(DefaultTable())

// Default returns the resolver backed by the built-in table.
func Default() *Resolver {
	return defaultResolver
}

// Resolve resolves id with the built-in table.
func Resolve(id string) Result {
	return defaultResolver.Resolve(id)
}

// Table returns the table the resolver reads from.
func (r *Resolver) Table() *Table {
	return r.table
}

// Resolve returns the bilingual label for id. It never fails: anything it
// cannot translate is passed through as-is.
func (r *Resolver) Resolve(id string) Result {
	if e, ok := r.table.specials[id]; ok {
		return r.table.describe(Result{ClassEN: e.EN, ClassAR: e.AR, Healthy: id == HealthyKey}, id)
	}

	plantPart, diseasePart, ok := strings.Cut(id, separator)
	if !ok {
		return r.table.describe(Result{ClassEN: id, ClassAR: id}, id)
	}

	plantKey := r.table.plantKey(plantPart)
	diseaseKey := r.table.diseaseKey(diseasePart)

	res := Result{
		ClassEN: display(plantPart) + " - " + display(diseasePart),
		Plant:   plantKey,
		Disease: diseaseKey,
		Healthy: diseaseKey == HealthyKey,
	}

	plantAR := plantPart
	if e, ok := r.table.Plant(plantKey); ok {
		plantAR = e.AR
	}
	diseaseAR := diseasePart
	if e, ok := r.table.Disease(diseaseKey); ok {
		diseaseAR = e.AR
	}

	if res.Healthy {
		res.ClassAR = plantAR + " " + diseaseAR
	} else {
		res.ClassAR = diseaseAR + " في " + plantAR
	}
	return r.table.describe(res, diseaseKey)
}

func (t *Table) describe(res Result, key string) Result {
	e, ok := t.Description(key)
	if !ok {
		e = t.descriptions[UnknownClass]
	}
	res.DescriptionEN, res.DescriptionAR = e.EN, e.AR
	return res
}

// plantKey applies plant aliases and strips the known qualifier suffixes,
// e.g. "Corn_(maize)" -> "Corn".
func (t *Table) plantKey(part string) string {
	key := part
	if alias, ok := t.plantAliases[key]; ok {
		key = alias
	}
	for _, q := range t.qualifiers {
		key = strings.TrimSuffix(key, q)
	}
	return key
}

// diseaseKey trims stray separators ("Common_rust_") and folds the compound
// labels of the upstream taxonomy onto their canonical key.
func (t *Table) diseaseKey(part string) string {
	key := strings.Trim(part, "_ ")
	for _, a := range t.aliases {
		if key == a.Label {
			return a.Key
		}
	}
	return key
}

func display(part string) string {
	return strings.TrimSpace(strings.ReplaceAll(part, "_", " "))
}
