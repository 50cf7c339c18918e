// Package cache holds the client's view of remote resources. Every entry is
// keyed by a resource identity and carries a load status and a version that
// increases with every change, so that late responses can be recognised
// and dropped.
package cache

import (
	"strconv"
	"strings"
)

// Family groups keys of one resource kind for bulk invalidation.
type Family string

const (
	FamilyPost     Family = "post"
	FamilyDraft    Family = "draft"
	FamilyDrafts   Family = "drafts"
	FamilyUsers    Family = "users"
	FamilyRecent   Family = "recent"
	FamilyFeatured Family = "featured"
	FamilyTrending Family = "trending"
)

// Key identifies one cached resource. Keys are comparable and two keys
// built from the same parameters are equal.
type Key struct {
	Family Family
	ID     string
}

func (k Key) String() string {
	if k.ID == "" {
		return string(k.Family)
	}
	return string(k.Family) + ":" + k.ID
}

func PostKey(id string) Key { return Key{Family: FamilyPost, ID: id} }

// DraftKey identifies a single draft being edited, shared or published.
// An empty id stands for a draft that has not been saved yet.
func DraftKey(id string) Key {
	if id == "" {
		id = "new"
	}
	return Key{Family: FamilyDraft, ID: id}
}

// DraftsKey identifies a drafts listing for a filter and a search term.
func DraftsKey(filter, search string) Key {
	return Key{Family: FamilyDrafts, ID: filter + "|" + strings.TrimSpace(search)}
}

func UsersKey() Key { return Key{Family: FamilyUsers} }

func RecentKey(n int) Key { return Key{Family: FamilyRecent, ID: strconv.Itoa(n)} }

func FeaturedKey() Key { return Key{Family: FamilyFeatured} }

func TrendingKey() Key { return Key{Family: FamilyTrending} }
