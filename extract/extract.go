// Package extract implements record extraction over a parsed document
// using structural lookups with a content-shape fallback.
package extract

import (
	"fmt"
	"net/url"
	"time"

	"github.com/fwojciec/harvest"
)

// Ensure Extractor implements harvest.RecordExtractor at compile time.
var _ harvest.RecordExtractor = (*Extractor)(nil)

// Extractor extracts records described by a profile. It holds no mutable
// state and is safe for concurrent use on independent documents.
type Extractor struct {
	profile    *harvest.Profile
	heuristics bool
	now        func() time.Time
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithClock sets the clock used for result and error timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		e.now = now
	}
}

// WithoutHeuristics disables the fallback strategy for every field.
func WithoutHeuristics() Option {
	return func(e *Extractor) {
		e.heuristics = false
	}
}

// New creates an Extractor for profile.
func New(profile *harvest.Profile, opts ...Option) (*Extractor, error) {
	if profile == nil {
		return nil, harvest.Errorf(harvest.EINVALID, "profile required")
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	e := &Extractor{
		profile:    profile,
		heuristics: !profile.DisableHeuristics,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Profile returns the extractor's profile.
func (e *Extractor) Profile() *harvest.Profile {
	return e.profile
}

// Outcome is the result of extracting one located fragment: either a
// record or an error.
type Outcome struct {
	Record *harvest.Record
	Err    *harvest.ItemError
}

// Extract runs a full pass over doc: metadata, every record fragment, and
// the error ledger. It never panics on a misbehaving fragment.
func (e *Extractor) Extract(doc harvest.Node, baseURL string) *harvest.Result {
	res := harvest.NewResult(baseURL, e.now())
	res.SearchQuery = e.metadata(doc, e.profile.Query)
	res.ResultHeader = e.metadata(doc, e.profile.Header)

	fragments, errs := e.locate(doc)
	for _, err := range errs {
		res.AddError(e.itemError(harvest.KindExtraction, baseURL, 0, err.Error()))
	}
	if len(fragments) == 0 {
		res.AddError(e.itemError(harvest.KindNoRecords, baseURL, 0,
			"No records found on page. The page structure may have changed."))
		return res
	}

	for _, o := range e.extractFragments(fragments, baseURL) {
		if o.Err != nil {
			res.AddError(o.Err)
			continue
		}
		res.AddRecord(o.Record)
	}
	return res
}

// Records locates the record fragments in doc and extracts each one.
// Fragments without an identity value are omitted. The second return value
// is the number of fragments located; zero means no boundary selector
// matched.
func (e *Extractor) Records(doc harvest.Node, baseURL string) ([]Outcome, int) {
	fragments, _ := e.locate(doc)
	return e.extractFragments(fragments, baseURL), len(fragments)
}

func (e *Extractor) extractFragments(fragments []harvest.Node, baseURL string) []Outcome {
	var outcomes []Outcome
	for i, frag := range fragments {
		index := i + 1
		rec, err := e.record(frag, index, baseURL)
		if err != nil {
			outcomes = append(outcomes, Outcome{
				Err: e.itemError(harvest.KindExtraction, baseURL, index,
					fmt.Sprintf("failed to extract record %d: %v", index, err)),
			})
			continue
		}
		if rec == nil {
			continue
		}
		outcomes = append(outcomes, Outcome{Record: rec})
	}
	return outcomes
}

// locate returns the fragments matched by the first boundary selector with
// at least one match. Selectors that fail to compile are reported and
// skipped.
func (e *Extractor) locate(doc harvest.Node) ([]harvest.Node, []error) {
	var errs []error
	for _, sel := range e.profile.Boundaries {
		nodes, err := doc.Find(sel)
		if err != nil {
			errs = append(errs, fmt.Errorf("boundary selector %q: %w", sel, err))
			continue
		}
		if len(nodes) > 0 {
			return nodes, errs
		}
	}
	return nil, errs
}

// record extracts one fragment. It returns a nil record when the identity
// field is empty after both strategies.
func (e *Extractor) record(frag harvest.Node, index int, baseURL string) (rec *harvest.Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			rec, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()

	fields := e.profile.Fields
	values := make([]harvest.FieldValue, len(fields))

	pending := false
	for i, f := range fields {
		values[i] = harvest.FieldValue{Name: f.Name, Kind: kindOf(f)}
		raw, err := lookup(frag, f.Lookups)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		if raw != "" {
			values[i].Raw = raw
			values[i].Strategy = harvest.StrategyStructural
			continue
		}
		if e.heuristics && f.Heuristic != "" {
			pending = true
		}
	}

	if pending {
		if err := e.fillHeuristics(frag, fields, values); err != nil {
			return nil, err
		}
	}

	for i := range values {
		if values[i].Name == e.profile.Identity && harvest.CleanText(values[i].Raw) == "" {
			return nil, nil
		}
	}

	for i := range values {
		normalize(&values[i], baseURL)
	}
	return &harvest.Record{Index: index, Fields: values}, nil
}

// fillHeuristics assigns candidate texts to empty fields in field order.
// Each candidate can be claimed by at most one field, and a candidate whose
// text already filled a field structurally is never claimed.
func (e *Extractor) fillHeuristics(frag harvest.Node, fields []harvest.FieldSpec, values []harvest.FieldValue) error {
	nodes, err := frag.Find(e.profile.Candidates)
	if err != nil {
		return fmt.Errorf("candidate selector %q: %w", e.profile.Candidates, err)
	}

	var candidates []string
	for _, n := range nodes {
		for _, t := range n.OwnText() {
			if t = harvest.CleanText(t); t != "" {
				candidates = append(candidates, t)
			}
		}
	}
	used := make(map[string]bool)
	for _, v := range values {
		if v.Strategy == harvest.StrategyStructural {
			used[harvest.CleanText(v.Raw)] = true
		}
	}
	claimed := make([]bool, len(candidates))
	for j, c := range candidates {
		claimed[j] = used[c]
	}

	for i, f := range fields {
		if values[i].Strategy != "" || f.Heuristic == "" {
			continue
		}
		match, ok := RecognizerFor(f.Heuristic)
		if !ok {
			return fmt.Errorf("field %q: unknown heuristic %q", f.Name, f.Heuristic)
		}
		for j, c := range candidates {
			if claimed[j] || !match(c) {
				continue
			}
			claimed[j] = true
			values[i].Raw = c
			values[i].Strategy = harvest.StrategyHeuristic
			break
		}
	}
	return nil
}

// metadata evaluates document-level lookups. Any failure yields "".
func (e *Extractor) metadata(doc harvest.Node, lookups []harvest.Lookup) (v string) {
	defer func() {
		if recover() != nil {
			v = ""
		}
	}()
	v, err := lookup(doc, lookups)
	if err != nil {
		return ""
	}
	return harvest.CleanText(v)
}

func (e *Extractor) itemError(kind harvest.ErrorKind, url string, index int, msg string) *harvest.ItemError {
	return &harvest.ItemError{
		Kind:      kind,
		Index:     index,
		URL:       url,
		Message:   msg,
		Timestamp: e.now(),
	}
}

// lookup returns the first non-empty value produced by lookups in order.
func lookup(scope harvest.Node, lookups []harvest.Lookup) (string, error) {
	for _, l := range lookups {
		nodes, err := scope.Find(l.Selector)
		if err != nil {
			return "", fmt.Errorf("selector %q: %w", l.Selector, err)
		}
		for _, n := range nodes {
			var v string
			if l.Attr != "" {
				v, _ = n.Attr(l.Attr)
			} else {
				v = n.Text()
			}
			if v = harvest.CleanText(v); v != "" {
				return v, nil
			}
		}
	}
	return "", nil
}

func kindOf(f harvest.FieldSpec) harvest.FieldKind {
	if f.Kind == "" {
		return harvest.FieldText
	}
	return f.Kind
}

// normalize derives the display and typed values from the raw value.
func normalize(v *harvest.FieldValue, baseURL string) {
	v.Value = harvest.CleanText(v.Raw)
	if v.Value == "" {
		return
	}
	switch v.Kind {
	case harvest.FieldAmount:
		if amt, ok := harvest.ToAmount(v.Value); ok {
			v.Amount = &amt
		}
	case harvest.FieldDate:
		if t, ok := harvest.ToDate(v.Value); ok {
			v.Date = &t
		}
	case harvest.FieldURL:
		v.Value = resolveURL(baseURL, v.Value)
	}
}

// resolveURL resolves href against base. It returns href unchanged when
// either cannot be parsed or base is empty.
func resolveURL(base, href string) string {
	if base == "" {
		return href
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(ref).String()
}
