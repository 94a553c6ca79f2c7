package subscription

import (
	"fmt"

	"github.com/anfragment/zen-subscriptions/internal/notifier"
	"github.com/blang/semver"
)

type downloadState struct {
	homepage        string
	lastCheck       uint64
	lastDownload    uint64
	lastSuccess     uint64
	softExpiration  uint64
	expires         uint64
	downloadStatus  string
	errors          uint32
	version         uint64
	requiredVersion string
}

// Downloadable is the view of a subscription fetched from a remote source.
// Timestamps are in seconds since the Unix epoch.
type Downloadable struct {
	*Subscription
}

// AsDownloadable returns the downloadable view of s, or nil if s is not downloadable.
func (s *Subscription) AsDownloadable() *Downloadable {
	if s.Kind() != KindDownloadable {
		return nil
	}
	return &Downloadable{s}
}

func (d *Downloadable) Homepage() string {
	return read(d.Subscription, func(e *entry) string { return e.download.homepage })
}

func (d *Downloadable) SetHomepage(homepage string) {
	set(d.Subscription, notifier.SubscriptionHomepage, func(e *entry) *string { return &e.download.homepage }, homepage)
}

// LastCheck is the last time an update of the subscription was attempted.
func (d *Downloadable) LastCheck() uint64 {
	return read(d.Subscription, func(e *entry) uint64 { return e.download.lastCheck })
}

func (d *Downloadable) SetLastCheck(t uint64) {
	set(d.Subscription, notifier.SubscriptionLastCheck, func(e *entry) *uint64 { return &e.download.lastCheck }, t)
}

// LastDownload is the last time the subscription was downloaded, successfully or not.
func (d *Downloadable) LastDownload() uint64 {
	return read(d.Subscription, func(e *entry) uint64 { return e.download.lastDownload })
}

func (d *Downloadable) SetLastDownload(t uint64) {
	set(d.Subscription, notifier.SubscriptionLastDownload, func(e *entry) *uint64 { return &e.download.lastDownload }, t)
}

// LastSuccess is the last time the subscription was downloaded successfully.
func (d *Downloadable) LastSuccess() uint64 {
	return read(d.Subscription, func(e *entry) uint64 { return e.download.lastSuccess })
}

func (d *Downloadable) SetLastSuccess(t uint64) {
	set(d.Subscription, notifier.SubscriptionLastSuccess, func(e *entry) *uint64 { return &e.download.lastSuccess }, t)
}

// SoftExpiration is the time after which the subscription should be updated.
func (d *Downloadable) SoftExpiration() uint64 {
	return read(d.Subscription, func(e *entry) uint64 { return e.download.softExpiration })
}

func (d *Downloadable) SetSoftExpiration(t uint64) {
	set(d.Subscription, notifier.SubscriptionSoftExpiration, func(e *entry) *uint64 { return &e.download.softExpiration }, t)
}

// Expires is the time after which the subscription must be updated.
func (d *Downloadable) Expires() uint64 {
	return read(d.Subscription, func(e *entry) uint64 { return e.download.expires })
}

func (d *Downloadable) SetExpires(t uint64) {
	set(d.Subscription, notifier.SubscriptionExpires, func(e *entry) *uint64 { return &e.download.expires }, t)
}

// DownloadStatus is the status code of the last download, or an empty string.
func (d *Downloadable) DownloadStatus() string {
	return read(d.Subscription, func(e *entry) string { return e.download.downloadStatus })
}

func (d *Downloadable) SetDownloadStatus(status string) {
	set(d.Subscription, notifier.SubscriptionDownloadStatus, func(e *entry) *string { return &e.download.downloadStatus }, status)
}

// Errors is the number of consecutive failed downloads.
func (d *Downloadable) Errors() uint32 {
	return read(d.Subscription, func(e *entry) uint32 { return e.download.errors })
}

func (d *Downloadable) SetErrors(errors uint32) {
	set(d.Subscription, notifier.SubscriptionErrors, func(e *entry) *uint32 { return &e.download.errors }, errors)
}

// Version is the version of the list as announced by the list itself.
func (d *Downloadable) Version() uint64 {
	return read(d.Subscription, func(e *entry) uint64 { return e.download.version })
}

func (d *Downloadable) SetVersion(version uint64) {
	set(d.Subscription, notifier.SubscriptionVersion, func(e *entry) *uint64 { return &e.download.version }, version)
}

// RequiredVersion is the minimal application version the list declares it needs, or an empty string.
func (d *Downloadable) RequiredVersion() string {
	return read(d.Subscription, func(e *entry) string { return e.download.requiredVersion })
}

func (d *Downloadable) SetRequiredVersion(version string) {
	set(d.Subscription, notifier.SubscriptionRequiredVersion, func(e *entry) *string { return &e.download.requiredVersion }, version)
}

// UpgradeRequired reports whether appVersion is older than the version required by the list.
func (d *Downloadable) UpgradeRequired(appVersion string) (bool, error) {
	required := d.RequiredVersion()
	if required == "" {
		return false, nil
	}

	requiredV, err := semver.ParseTolerant(required)
	if err != nil {
		return false, fmt.Errorf("parse required version (%s): %w", required, err)
	}
	appV, err := semver.ParseTolerant(appVersion)
	if err != nil {
		return false, fmt.Errorf("parse app version (%s): %w", appVersion, err)
	}

	return appV.LT(requiredV), nil
}
