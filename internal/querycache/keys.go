package querycache

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Resource names a family of cache keys invalidated together.
type Resource string

const (
	ResourceAreas          Resource = "areas"
	ResourcePlaces         Resource = "places"
	ResourceStoreTypes     Resource = "store-types"
	ResourceStores         Resource = "stores"
	ResourceUsers          Resource = "users"
	ResourceUserStatistics Resource = "user-statistics"
	ResourceSettings       Resource = "settings"
	ResourceProfile        Resource = "profile"
)

var validResources = []Resource{
	ResourceAreas,
	ResourcePlaces,
	ResourceStoreTypes,
	ResourceStores,
	ResourceUsers,
	ResourceUserStatistics,
	ResourceSettings,
	ResourceProfile,
}

// String implements fmt.Stringer.
func (r Resource) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Resource.
func (r Resource) IsValid() bool {
	for _, candidate := range validResources {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseResource converts raw input into a Resource.
func ParseResource(value string) (Resource, error) {
	for _, candidate := range validResources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid resource %q", value)
}

// Key identifies one cached query. Params is a canonical encoding of the
// query's inputs; two keys are equal only when both fields match.
type Key struct {
	Resource Resource
	Params   string
}

func (k Key) String() string {
	if k.Params == "" {
		return string(k.Resource)
	}
	return string(k.Resource) + "?" + k.Params
}

// Readers and writers must build keys through the constructors below.

func AreasKey() Key { return Key{Resource: ResourceAreas} }

func AreaKey(id int64) Key { return idKey(ResourceAreas, id) }

func AreasByPlaceKey(placeID int64) Key {
	return Key{Resource: ResourceAreas, Params: params("place", strconv.FormatInt(placeID, 10))}
}

func PlacesKey() Key { return Key{Resource: ResourcePlaces} }

func PlaceKey(id int64) Key { return idKey(ResourcePlaces, id) }

func StoreTypesKey() Key { return Key{Resource: ResourceStoreTypes} }

func StoreTypeKey(id int64) Key { return idKey(ResourceStoreTypes, id) }

func StoresKey() Key { return Key{Resource: ResourceStores} }

func StoreKey(id int64) Key { return idKey(ResourceStores, id) }

func StoresByTypeKey(typeID int64) Key {
	return Key{Resource: ResourceStores, Params: params("type", strconv.FormatInt(typeID, 10))}
}

// UsersKey keys the user list by its filter. A zero roleID and blank search
// give the unfiltered list.
func UsersKey(roleID int64, search string) Key {
	var pairs []string
	if roleID > 0 {
		pairs = append(pairs, "role_id", strconv.FormatInt(roleID, 10))
	}
	if s := strings.TrimSpace(search); s != "" {
		pairs = append(pairs, "search", s)
	}
	return Key{Resource: ResourceUsers, Params: params(pairs...)}
}

func UserKey(id int64) Key { return idKey(ResourceUsers, id) }

func UserStatisticsKey() Key { return Key{Resource: ResourceUserStatistics} }

func SettingsKey() Key { return Key{Resource: ResourceSettings} }

func ProfileKey() Key { return Key{Resource: ResourceProfile} }

func idKey(resource Resource, id int64) Key {
	return Key{Resource: resource, Params: params("id", strconv.FormatInt(id, 10))}
}

func params(pairs ...string) string {
	if len(pairs) == 0 {
		return ""
	}
	values := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		values.Set(pairs[i], pairs[i+1])
	}
	return values.Encode()
}
