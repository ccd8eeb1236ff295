package harvest

// Lookup is one structural path: a selector evaluated within a scope and,
// optionally, the attribute to read instead of the text.
type Lookup struct {
	Selector string `yaml:"selector" json:"selector"`
	Attr     string `yaml:"attr,omitempty" json:"attr,omitempty"`
}

// FieldKind selects the normalizer applied to a field's raw value.
type FieldKind string

const (
	FieldText   FieldKind = "text"
	FieldAmount FieldKind = "amount"
	FieldDate   FieldKind = "date"
	FieldURL    FieldKind = "url"
)

// Names of the content-shape recognizers usable as a field heuristic.
const (
	RecognizerMoney    = "money"
	RecognizerDate     = "date"
	RecognizerStatus   = "status"
	RecognizerLocation = "location"
)

// FieldSpec describes how to obtain one field of a record.
type FieldSpec struct {
	Name string `yaml:"name" json:"name"`

	// Lookups are tried in order; the first non-empty value wins.
	Lookups []Lookup `yaml:"lookups" json:"lookups"`

	// Heuristic names a recognizer used only when every lookup is empty.
	Heuristic string `yaml:"heuristic,omitempty" json:"heuristic,omitempty"`

	Kind FieldKind `yaml:"kind,omitempty" json:"kind,omitempty"`
}

// Profile is the extraction configuration for one family of pages.
type Profile struct {
	Name string `yaml:"name" json:"name"`

	// Boundaries locate record fragments. The first selector that matches
	// at least one element is used.
	Boundaries []string `yaml:"boundaries" json:"boundaries"`

	// Candidates selects the text-bearing elements scanned by heuristics.
	Candidates string `yaml:"candidates,omitempty" json:"candidates,omitempty"`

	// Identity names the field that must be non-empty for a fragment to
	// count as a record.
	Identity string `yaml:"identity" json:"identity"`

	Fields []FieldSpec `yaml:"fields" json:"fields"`

	// DisableHeuristics turns off the fallback strategy for every field.
	DisableHeuristics bool `yaml:"disable_heuristics,omitempty" json:"disable_heuristics,omitempty"`

	// Document-level metadata lookups.
	Query  []Lookup `yaml:"query,omitempty" json:"query,omitempty"`
	Header []Lookup `yaml:"header,omitempty" json:"header,omitempty"`
}

// Validate returns an error if the profile cannot drive an extraction.
func (p *Profile) Validate() error {
	if len(p.Boundaries) == 0 {
		return Errorf(EINVALID, "profile %q: at least one boundary selector required", p.Name)
	}
	if p.Identity == "" {
		return Errorf(EINVALID, "profile %q: identity field required", p.Name)
	}

	seen := make(map[string]bool, len(p.Fields))
	for _, f := range p.Fields {
		if f.Name == "" {
			return Errorf(EINVALID, "profile %q: field name required", p.Name)
		}
		if seen[f.Name] {
			return Errorf(EINVALID, "profile %q: duplicate field %q", p.Name, f.Name)
		}
		seen[f.Name] = true

		switch f.Kind {
		case "", FieldText, FieldAmount, FieldDate, FieldURL:
		default:
			return Errorf(EINVALID, "profile %q: field %q has unknown kind %q", p.Name, f.Name, f.Kind)
		}

		switch f.Heuristic {
		case "", RecognizerMoney, RecognizerDate, RecognizerStatus, RecognizerLocation:
		default:
			return Errorf(EINVALID, "profile %q: field %q has unknown heuristic %q", p.Name, f.Name, f.Heuristic)
		}
		if f.Heuristic != "" && p.Candidates == "" {
			return Errorf(EINVALID, "profile %q: field %q uses a heuristic but no candidate selector is set", p.Name, f.Name)
		}
	}
	if !seen[p.Identity] {
		return Errorf(EINVALID, "profile %q: identity field %q is not declared", p.Name, p.Identity)
	}
	return nil
}

// Field returns the FieldSpec for the named field.
func (p *Profile) Field(name string) (FieldSpec, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// ProfilePPPLoans is the name of the built-in PPP loan search profile.
const ProfilePPPLoans = "ppp-loans"

// PPPLoansProfile returns the profile for ProPublica's PPP loan search
// result pages.
func PPPLoansProfile() *Profile {
	detail := func(label string) []Lookup {
		return []Lookup{{
			Selector: `div.flex.flex-wrap div[class*="w-"]:haschild(div.f7:containsOwn("` + label + `")) > div.f5.tiempos-text`,
		}}
	}
	return &Profile{
		Name:       ProfilePPPLoans,
		Boundaries: []string{"li.list.pt3", "ul > li.list"},
		Candidates: "div.f5.tiempos-text",
		Identity:   "recipient",
		Fields: []FieldSpec{
			{Name: "recipient", Lookups: []Lookup{{Selector: "div.tiempos-text.lh-title a"}}},
			{Name: "detail_url", Lookups: []Lookup{{Selector: "div.tiempos-text.lh-title a", Attr: "href"}}, Kind: FieldURL},
			{Name: "location", Lookups: detail("Location"), Heuristic: RecognizerLocation},
			{Name: "loan_status", Lookups: detail("Loan Status"), Heuristic: RecognizerStatus},
			{Name: "loan_amount", Lookups: detail("Loan Amount"), Heuristic: RecognizerMoney, Kind: FieldAmount},
			{Name: "date_approved", Lookups: detail("Date Approved"), Heuristic: RecognizerDate, Kind: FieldDate},
		},
		Query:  []Lookup{{Selector: `input[name="q"]`, Attr: "value"}},
		Header: []Lookup{{Selector: "h1"}},
	}
}

// BuiltinProfile returns a copy of the named built-in profile.
func BuiltinProfile(name string) (*Profile, error) {
	switch name {
	case ProfilePPPLoans:
		return PPPLoansProfile(), nil
	}
	return nil, Errorf(ENOTFOUND, "unknown profile %q", name)
}
