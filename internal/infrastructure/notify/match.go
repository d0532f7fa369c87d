package notify

import (
	"strings"

	"CompanyNewsScanner/internal/domain"
)

// Match selects the records a user should receive: the record's topic must
// be in the user's subscription list, and when the user has location
// filters the record's region must be in them. Membership is exact up to
// case and surrounding whitespace.
func Match(user domain.User, records []domain.NewsRecord) []domain.NewsRecord {
	if len(user.Subscriptions) == 0 {
		return nil
	}

	var matched []domain.NewsRecord
	for _, record := range records {
		if !subscribed(user.Subscriptions, record.Topic) {
			continue
		}
		if len(user.Filters) > 0 && !contains(user.Filters, record.Region) {
			continue
		}
		matched = append(matched, record)
	}

	return matched
}

func subscribed(subscriptions []string, topic domain.Topic) bool {
	for _, sub := range subscriptions {
		if equalsFold(sub, topic.Label()) || equalsFold(sub, string(topic)) {
			return true
		}
	}
	return false
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if equalsFold(v, target) {
			return true
		}
	}
	return false
}

func equalsFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
