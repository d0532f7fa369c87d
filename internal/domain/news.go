package domain

import (
	"strings"
	"time"
)

// Unknown is the sentinel the classification contract uses for absent values.
const Unknown = "unknown"

// URLSeparator joins origin URLs when duplicate records are merged.
const URLSeparator = " | "

// Topic enumerates the recognized business events.
type Topic string

const (
	TopicNewCompany Topic = "new_company"
	TopicMassHiring Topic = "mass_hiring"
	TopicRelocation Topic = "relocation"
	TopicNone       Topic = "none"
)

// Label returns the topic name used in the prompt contract and in user
// subscription lists.
func (t Topic) Label() string {
	switch t {
	case TopicNewCompany:
		return "Creación de una nueva empresa"
	case TopicMassHiring:
		return "Contratación abundante de empleados"
	case TopicRelocation:
		return "Cambio de sede de una empresa"
	default:
		return "ninguno"
	}
}

// Locale is the coarse domestic/international flag gating the region field.
type Locale string

const (
	LocaleDomestic      Locale = "domestic"
	LocaleInternational Locale = "international"
	LocaleUnknown       Locale = "unknown"
)

// CandidateItem is a raw feed or search-API entry prior to classification.
type CandidateItem struct {
	Title       string
	Summary     string
	URL         string
	Source      string
	PublishedAt time.Time
}

// Verdict is the structured classification output for one candidate.
type Verdict struct {
	Topic     Topic
	Company   string
	Sector    string
	Locale    Locale
	Region    string
	Details   string
	Rationale string
}

// Normalize enforces the derived field constraints: an unknown locale
// forces the region to unknown regardless of what the model returned.
func (v Verdict) Normalize() Verdict {
	if v.Locale == LocaleUnknown {
		v.Region = Unknown
	}
	return v
}

// NewsRecord is a classified, confirmed article ready for persistence.
// URL may hold several origin URLs joined by URLSeparator after a merge.
type NewsRecord struct {
	ID          string    `json:"id"`
	Company     string    `json:"company"`
	Title       string    `json:"title"`
	Topic       Topic     `json:"topic"`
	PublishedAt time.Time `json:"date"`
	Locale      Locale    `json:"locale"`
	Region      string    `json:"region"`
	URL         string    `json:"url"`
	Details     string    `json:"details"`
	Sector      string    `json:"-"`
}

// URLs splits the stored URL field back into individual origin URLs.
func (n NewsRecord) URLs() []string {
	parts := strings.Split(n.URL, URLSeparator)
	urls := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			urls = append(urls, trimmed)
		}
	}
	return urls
}

// MergeURL folds another origin URL into the record, deduplicating the set.
// The order of URLs after a merge is unspecified.
func (n *NewsRecord) MergeURL(url string) {
	url = strings.TrimSpace(url)
	if url == "" {
		return
	}
	existing := n.URLs()
	for _, u := range existing {
		if u == url {
			return
		}
	}
	n.URL = strings.Join(append(existing, url), URLSeparator)
}

// CompanyNames splits the possibly comma-joined company field into
// distinct names, dropping the unknown sentinel.
func (n NewsRecord) CompanyNames() []string {
	parts := strings.Split(n.Company, ",")
	names := make([]string, 0, len(parts))
	seen := map[string]struct{}{}
	for _, p := range parts {
		name := strings.TrimSpace(p)
		if name == "" || strings.EqualFold(name, Unknown) {
			continue
		}
		if _, ok := seen[strings.ToLower(name)]; ok {
			continue
		}
		seen[strings.ToLower(name)] = struct{}{}
		names = append(names, name)
	}
	return names
}

// CompanyRecord is a lazily created company entry keyed by name.
type CompanyRecord struct {
	Name    string `json:"name"`
	Sector  string `json:"sector"`
	Details string `json:"details"`
}

// User is a newsletter recipient with topic subscriptions and optional
// region filters. Read-only for this pipeline.
type User struct {
	Username      string   `json:"username"`
	Email         string   `json:"email"`
	Subscriptions []string `json:"subscriptions"`
	Filters       []string `json:"filters"`
}
