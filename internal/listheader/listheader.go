// Package listheader applies the content of a downloaded filter list to a downloadable subscription.
package listheader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/anfragment/zen-subscriptions/internal/filter"
	"github.com/anfragment/zen-subscriptions/internal/subscription"
)

const (
	// DefaultExpiration is used when a list does not declare how often it should be updated.
	DefaultExpiration = 5 * 24 * time.Hour
	MinExpiration     = 24 * time.Hour
	MaxExpiration     = 14 * 24 * time.Hour

	StatusOK          = "synchronize_ok"
	StatusInvalidData = "synchronize_invalid_data"

	maxLineSize = 1024 * 1024
)

var (
	// headerRegex matches the first line of a list, e.g. "[Adblock Plus 2.0]" or "[Adblock]".
	headerRegex = regexp.MustCompile(`(?i)^\[Adblock(?:\s*Plus\s*([\d.]+)?)?\]$`)
	// metadataRegex matches comment lines of the form "! Key: value".
	metadataRegex = regexp.MustCompile(`^!\s*(\w+)\s*:\s*(.*)$`)

	ErrNoHeader = errors.New("missing [Adblock] header")
)

// Result is the parsed content of a filter list.
type Result struct {
	// RequiredVersion is taken from the "[Adblock Plus x.y]" header.
	RequiredVersion string
	Title           string
	Homepage        string
	Version         uint64
	// Expiration is zero if the list does not declare one.
	Expiration time.Duration
	Filters    []*filter.Filter
}

// Parse reads a filter list. The list must start with an [Adblock] header.
// Metadata is only recognized in the comment block directly following the header.
func Parse(r io.Reader) (*Result, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
		return nil, ErrNoHeader
	}
	header := headerRegex.FindStringSubmatch(strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\uFEFF")))
	if header == nil {
		return nil, ErrNoHeader
	}

	res := &Result{RequiredVersion: header[1]}
	inMetadata := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if !strings.HasPrefix(line, "!") {
			inMetadata = false
		} else if inMetadata {
			res.parseMetadata(line)
		}
		res.Filters = append(res.Filters, filter.FromText(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read list: %w", err)
	}

	return res, nil
}

func (res *Result) parseMetadata(line string) {
	if d, err := parseExpires(line); err == nil {
		res.Expiration = d
		return
	}

	matches := metadataRegex.FindStringSubmatch(line)
	if matches == nil {
		return
	}
	value := strings.TrimSpace(matches[2])
	switch strings.ToLower(matches[1]) {
	case "title":
		res.Title = value
	case "homepage":
		res.Homepage = value
	case "version":
		if v, err := strconv.ParseUint(value, 10, 64); err == nil {
			res.Version = v
		}
	}
}

// Apply stores a successfully downloaded list in d. now is the time of the download.
func Apply(d *subscription.Downloadable, res *Result, now time.Time) {
	if res.Title != "" && !d.FixedTitle() {
		d.SetTitle(res.Title)
	}
	d.SetHomepage(res.Homepage)
	d.SetVersion(res.Version)
	d.SetRequiredVersion(res.RequiredVersion)
	d.ReplaceFilters(res.Filters)

	expiration := res.Expiration
	if expiration == 0 {
		expiration = DefaultExpiration
	}
	expiration = min(max(expiration, MinExpiration), MaxExpiration)

	ts := unixSeconds(now)
	d.SetSoftExpiration(unixSeconds(now.Add(expiration)))
	d.SetExpires(unixSeconds(now.Add(2 * expiration)))
	d.SetLastDownload(ts)
	d.SetLastSuccess(ts)
	d.SetLastCheck(ts)
	d.SetDownloadStatus(StatusOK)
	d.SetErrors(0)
}

// Fail records a failed download of d. now is the time of the attempt.
func Fail(d *subscription.Downloadable, status string, now time.Time) {
	ts := unixSeconds(now)
	d.SetLastDownload(ts)
	d.SetLastCheck(ts)
	d.SetDownloadStatus(status)
	d.SetErrors(d.Errors() + 1)
}

func unixSeconds(t time.Time) uint64 {
	if t.Unix() < 0 {
		return 0
	}
	return uint64(t.Unix())
}
