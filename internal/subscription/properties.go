package subscription

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrUnknownProperty = errors.New("unknown property")
	ErrWrongKind       = errors.New("property not supported by subscription kind")
)

// Property is a serialized key-value pair of a subscription.
type Property struct {
	Key   string
	Value string
}

type property struct {
	key string
	// kinds lists the subscription kinds having the property.
	kinds []Kind
	// get returns the serialized value, or an empty string if the property holds its default value.
	get func(e *entry) string
	set func(s *Subscription, value string) error
}

// properties is in serialization order. The url is not a property, it is written and read separately.
var properties = []property{
	{
		key:   "title",
		kinds: []Kind{KindSpecial, KindDownloadable},
		get:   func(e *entry) string { return e.title },
		set:   func(s *Subscription, v string) error { s.SetTitle(v); return nil },
	},
	{
		key:   "fixedTitle",
		kinds: []Kind{KindSpecial, KindDownloadable},
		get:   func(e *entry) string { return formatBool(e.fixedTitle) },
		set:   func(s *Subscription, v string) error { s.SetFixedTitle(v == "true"); return nil },
	},
	{
		key:   "disabled",
		kinds: []Kind{KindSpecial, KindDownloadable},
		get:   func(e *entry) string { return formatBool(e.disabled) },
		set:   func(s *Subscription, v string) error { s.SetDisabled(v == "true"); return nil },
	},
	downloadableString("homepage", func(d *downloadState) *string { return &d.homepage }, (*Downloadable).SetHomepage),
	downloadableUint("lastCheck", func(d *downloadState) uint64 { return d.lastCheck }, (*Downloadable).SetLastCheck),
	downloadableUint("expires", func(d *downloadState) uint64 { return d.expires }, (*Downloadable).SetExpires),
	downloadableUint("softExpiration", func(d *downloadState) uint64 { return d.softExpiration }, (*Downloadable).SetSoftExpiration),
	downloadableUint("lastDownload", func(d *downloadState) uint64 { return d.lastDownload }, (*Downloadable).SetLastDownload),
	downloadableString("downloadStatus", func(d *downloadState) *string { return &d.downloadStatus }, (*Downloadable).SetDownloadStatus),
	downloadableUint("lastSuccess", func(d *downloadState) uint64 { return d.lastSuccess }, (*Downloadable).SetLastSuccess),
	{
		key:   "errors",
		kinds: []Kind{KindDownloadable},
		get:   func(e *entry) string { return formatUint(uint64(e.download.errors)) },
		set: func(s *Subscription, v string) error {
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				return fmt.Errorf("parse errors: %w", err)
			}
			s.AsDownloadable().SetErrors(uint32(n))
			return nil
		},
	},
	downloadableUint("version", func(d *downloadState) uint64 { return d.version }, (*Downloadable).SetVersion),
	downloadableString("requiredVersion", func(d *downloadState) *string { return &d.requiredVersion }, (*Downloadable).SetRequiredVersion),
	{
		// The value is written with a leading space, e.g. "defaults= blocking elemhide".
		key:   "defaults",
		kinds: []Kind{KindSpecial},
		get: func(e *entry) string {
			if e.defaults == 0 {
				return ""
			}
			return " " + e.defaults.String()
		},
		set: func(s *Subscription, v string) error { s.AsSpecial().SetDefaults(ParseFilterTypes(v)); return nil },
	},
}

// Properties returns the properties of s that differ from their defaults, in serialization order.
func (s *Subscription) Properties() []Property {
	return read(s, func(e *entry) []Property {
		var props []Property
		for _, p := range properties {
			if !p.supports(e.kind) {
				continue
			}
			if v := p.get(e); v != "" {
				props = append(props, Property{Key: p.key, Value: v})
			}
		}
		return props
	})
}

// SetProperty sets the property key from its serialized value through the regular setter,
// emitting the same notification a direct call would.
func (s *Subscription) SetProperty(key, value string) error {
	kind := s.Kind()
	for _, p := range properties {
		if p.key != key {
			continue
		}
		if !p.supports(kind) {
			return fmt.Errorf("%s on %s subscription: %w", key, kind, ErrWrongKind)
		}
		return p.set(s, value)
	}
	return fmt.Errorf("%s: %w", key, ErrUnknownProperty)
}

func (p property) supports(kind Kind) bool {
	for _, k := range p.kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func downloadableString(key string, field func(d *downloadState) *string, setter func(d *Downloadable, v string)) property {
	return property{
		key:   key,
		kinds: []Kind{KindDownloadable},
		get:   func(e *entry) string { return *field(e.download) },
		set: func(s *Subscription, v string) error {
			setter(s.AsDownloadable(), v)
			return nil
		},
	}
}

func downloadableUint(key string, field func(d *downloadState) uint64, setter func(d *Downloadable, v uint64)) property {
	return property{
		key:   key,
		kinds: []Kind{KindDownloadable},
		get:   func(e *entry) string { return formatUint(field(e.download)) },
		set: func(s *Subscription, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("parse %s: %w", key, err)
			}
			setter(s.AsDownloadable(), n)
			return nil
		},
	}
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return ""
}

func formatUint(n uint64) string {
	if n == 0 {
		return ""
	}
	return strconv.FormatUint(n, 10)
}
