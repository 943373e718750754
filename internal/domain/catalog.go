package domain

// Center is a bookable physical branch
type Center struct {
	ID       string
	Name     string
	Address  string
	Bookable bool
}

// Treatment is the primary bookable service of a center
type Treatment struct {
	ID                string
	CenterID          string
	Name              string
	Category          string
	CategorySortOrder int
	DurationMinutes   int
}

// Addon is an optional supplementary service, scoped to a (center, treatment) pair
type Addon struct {
	ID   string
	Name string
}

// Therapist is scoped to a (center, treatment, addon-set) combination and is
// re-fetched whenever one of those changes
type Therapist struct {
	ID   string
	Name string
}

// AddonIDs returns the ids of the given add-ons in order
func AddonIDs(addons []Addon) []string {
	ids := make([]string, len(addons))
	for i, a := range addons {
		ids[i] = a.ID
	}
	return ids
}

// TherapistIDs returns the ids of the given therapists in order
func TherapistIDs(therapists []Therapist) []string {
	ids := make([]string, len(therapists))
	for i, t := range therapists {
		ids[i] = t.ID
	}
	return ids
}
