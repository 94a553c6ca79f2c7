package subscription_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/anfragment/zen-subscriptions/internal/filter"
	"github.com/anfragment/zen-subscriptions/internal/notifier"
	"github.com/anfragment/zen-subscriptions/internal/subscription"
)

type event struct {
	topic   notifier.Topic
	subject any
	args    []any
}

// record returns a registry whose notifications are appended to the returned slice.
func record(t *testing.T) (*subscription.Registry, *[]event) {
	t.Helper()

	n := notifier.New()
	var events []event
	n.AddListener(func(topic notifier.Topic, subject any, args ...any) {
		events = append(events, event{topic, subject, args})
	})
	return subscription.NewRegistry(n), &events
}

func topics(events []event) []notifier.Topic {
	var res []notifier.Topic
	for _, e := range events {
		res = append(res, e.topic)
	}
	return res
}

func filterTexts(s *subscription.Subscription) []string {
	var res []string
	for _, f := range s.Filters() {
		res = append(res, f.Text())
	}
	return res
}

func TestNotifications(t *testing.T) {
	t.Parallel()

	reg, events := record(t)
	s := reg.FromURL("http://example.com/")
	defer s.Release()
	d := s.AsDownloadable()

	steps := []struct {
		topic  notifier.Topic
		change func()
		// repeat applies the same value again to check that it does not notify
		repeat func()
	}{
		{notifier.SubscriptionTitle, func() { s.SetTitle("foobar") }, func() { s.SetTitle("foobar") }},
		{notifier.SubscriptionDisabled, func() { s.SetDisabled(true) }, func() { s.SetDisabled(true) }},
		{notifier.SubscriptionFixedTitle, func() { s.SetFixedTitle(true) }, func() { s.SetFixedTitle(true) }},
		{notifier.SubscriptionHomepage, func() { d.SetHomepage("http://example.com/") }, func() { d.SetHomepage("http://example.com/") }},
		{notifier.SubscriptionLastCheck, func() { d.SetLastCheck(12345) }, func() { d.SetLastCheck(12345) }},
		{notifier.SubscriptionLastDownload, func() { d.SetLastDownload(12345) }, func() { d.SetLastDownload(12345) }},
		{notifier.SubscriptionLastSuccess, func() { d.SetLastSuccess(12345) }, func() { d.SetLastSuccess(12345) }},
		{notifier.SubscriptionSoftExpiration, func() { d.SetSoftExpiration(12345) }, func() { d.SetSoftExpiration(12345) }},
		{notifier.SubscriptionExpires, func() { d.SetExpires(12345) }, func() { d.SetExpires(12345) }},
		{notifier.SubscriptionDownloadStatus, func() { d.SetDownloadStatus("foobar") }, func() { d.SetDownloadStatus("foobar") }},
		{notifier.SubscriptionErrors, func() { d.SetErrors(1) }, func() { d.SetErrors(1) }},
		{notifier.SubscriptionVersion, func() { d.SetVersion(201801011200) }, func() { d.SetVersion(201801011200) }},
		{notifier.SubscriptionRequiredVersion, func() { d.SetRequiredVersion("2.0") }, func() { d.SetRequiredVersion("2.0") }},
	}

	for _, step := range steps {
		*events = nil
		step.change()
		if len(*events) != 1 || (*events)[0].topic != step.topic {
			t.Errorf("expected a single %q notification, got %v", step.topic, topics(*events))
			continue
		}
		if e := (*events)[0]; !s.Same(e.subject.(*subscription.Subscription)) || len(e.args) != 0 {
			t.Errorf("expected %q to carry the subscription and no arguments, got %v %v", step.topic, e.subject, e.args)
		}

		*events = nil
		step.repeat()
		if len(*events) != 0 {
			t.Errorf("expected no notification for unchanged %q, got %v", step.topic, topics(*events))
		}
	}

	if s.Title() != "foobar" || !s.Disabled() || !s.FixedTitle() {
		t.Errorf("expected common properties to be set, got %q %v %v", s.Title(), s.Disabled(), s.FixedTitle())
	}
	if d.Errors() != 1 || d.Version() != 201801011200 || d.RequiredVersion() != "2.0" {
		t.Errorf("expected download properties to be set, got %d %d %q", d.Errors(), d.Version(), d.RequiredVersion())
	}

	t.Run("unsetting emits", func(t *testing.T) {
		*events = nil
		s.SetTitle("")
		d.SetErrors(0)
		want := []notifier.Topic{notifier.SubscriptionTitle, notifier.SubscriptionErrors}
		if !reflect.DeepEqual(topics(*events), want) {
			t.Errorf("expected %v, got %v", want, topics(*events))
		}
		if s.DisplayTitle() != "http://example.com/" {
			t.Errorf("expected display title to fall back to the URL, got %q", s.DisplayTitle())
		}
	})
}

func TestFilterList(t *testing.T) {
	t.Parallel()

	t.Run("insert and remove", func(t *testing.T) {
		t.Parallel()

		reg, events := record(t)
		s := reg.FromURL("~user~filters")
		defer s.Release()

		f1 := filter.FromText("filter1")
		f2 := filter.FromText("filter2")

		s.InsertFilterAt(f1, 0)
		s.InsertFilterAt(f2, 1)
		s.InsertFilterAt(f1, 2)
		if got := filterTexts(s); !reflect.DeepEqual(got, []string{"filter1", "filter2", "filter1"}) {
			t.Fatalf("expected [filter1 filter2 filter1], got %v", got)
		}

		s.RemoveFilterAt(0)
		if got := filterTexts(s); !reflect.DeepEqual(got, []string{"filter2", "filter1"}) {
			t.Errorf("expected [filter2 filter1], got %v", got)
		}

		want := []notifier.Topic{notifier.FilterAdded, notifier.FilterAdded, notifier.FilterAdded, notifier.FilterRemoved}
		if !reflect.DeepEqual(topics(*events), want) {
			t.Fatalf("expected %v, got %v", want, topics(*events))
		}
		for i, wantIndex := range []int{0, 1, 2, 0} {
			e := (*events)[i]
			if len(e.args) != 2 || !s.Same(e.args[0].(*subscription.Subscription)) || e.args[1] != wantIndex {
				t.Errorf("event %d: expected subscription and index %d, got %v", i, wantIndex, e.args)
			}
		}
		if (*events)[3].subject != f1 {
			t.Errorf("expected removed filter to be the notification subject, got %v", (*events)[3].subject)
		}
	})

	t.Run("insert index is clamped", func(t *testing.T) {
		t.Parallel()

		reg, events := record(t)
		s := reg.FromURL("~fl~")
		defer s.Release()

		s.InsertFilterAt(filter.FromText("b"), 10)
		s.InsertFilterAt(filter.FromText("a"), -3)

		if got := filterTexts(s); !reflect.DeepEqual(got, []string{"a", "b"}) {
			t.Errorf("expected [a b], got %v", got)
		}
		if (*events)[0].args[1] != 0 || (*events)[1].args[1] != 0 {
			t.Errorf("expected clamped indexes in notifications, got %v and %v", (*events)[0].args, (*events)[1].args)
		}
	})

	t.Run("lookup", func(t *testing.T) {
		t.Parallel()

		reg := newRegistry()
		s := reg.FromURL("~fl~")
		defer s.Release()
		f := filter.FromText("||example.com^")
		s.InsertFilterAt(filter.FromText("first"), 0)
		s.InsertFilterAt(f, 1)

		if s.FilterCount() != 2 {
			t.Errorf("expected 2 filters, got %d", s.FilterCount())
		}
		if s.FilterAt(1) != f {
			t.Errorf("expected filter at 1 to be %v, got %v", f, s.FilterAt(1))
		}
		if s.FilterAt(2) != nil || s.FilterAt(-1) != nil {
			t.Error("expected nil for out of range indexes")
		}
		if i := s.IndexOfFilter(filter.FromText("||example.com^")); i != 1 {
			t.Errorf("expected index 1, got %d", i)
		}
		if i := s.IndexOfFilter(filter.FromText("missing")); i != -1 {
			t.Errorf("expected -1 for missing filter, got %d", i)
		}
	})

	t.Run("remove out of range panics", func(t *testing.T) {
		t.Parallel()

		reg, events := record(t)
		s := reg.FromURL("~fl~")
		defer s.Release()
		s.InsertFilterAt(filter.FromText("a"), 0)
		*events = nil

		func() {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			s.RemoveFilterAt(1)
		}()

		if len(*events) != 0 {
			t.Errorf("expected no notification, got %v", topics(*events))
		}
		if s.FilterCount() != 1 {
			t.Errorf("expected list to be unchanged, got %d filters", s.FilterCount())
		}
	})

	t.Run("replace emits a single update", func(t *testing.T) {
		t.Parallel()

		reg, events := record(t)
		s := reg.FromURL("https://example.com/list.txt")
		defer s.Release()
		old := filter.FromText("old")
		s.InsertFilterAt(old, 0)
		*events = nil

		s.ReplaceFilters([]*filter.Filter{filter.FromText("a"), filter.FromText("b")})
		if !reflect.DeepEqual(topics(*events), []notifier.Topic{notifier.SubscriptionUpdated}) {
			t.Fatalf("expected a single update, got %v", topics(*events))
		}
		previous := (*events)[0].args[0].([]*filter.Filter)
		if len(previous) != 1 || previous[0] != old {
			t.Errorf("expected previous filters to be carried, got %v", previous)
		}
		if got := filterTexts(s); !reflect.DeepEqual(got, []string{"a", "b"}) {
			t.Errorf("expected [a b], got %v", got)
		}

		*events = nil
		s.ReplaceFilters([]*filter.Filter{filter.FromText("a"), filter.FromText("b")})
		if len(*events) != 0 {
			t.Errorf("expected no notification for identical list, got %v", topics(*events))
		}
	})

	t.Run("returned list is a copy", func(t *testing.T) {
		t.Parallel()

		reg := newRegistry()
		s := reg.FromURL("~fl~")
		defer s.Release()
		s.InsertFilterAt(filter.FromText("a"), 0)

		filters := s.Filters()
		filters[0] = filter.FromText("b")

		if s.FilterAt(0).Text() != "a" {
			t.Errorf("expected subscription to be unaffected, got %q", s.FilterAt(0).Text())
		}
	})
}

func TestSpecialDefaults(t *testing.T) {
	t.Parallel()

	reg, events := record(t)
	s := reg.FromURL("~user~defaults").AsSpecial()
	defer s.Release()

	if !s.IsGeneric() {
		t.Error("expected new special subscription to be generic")
	}

	s.MakeDefaultFor(filter.FromText("!comment"))
	s.MakeDefaultFor(filter.FromText("/??/"))
	if !s.IsGeneric() {
		t.Errorf("expected comments and invalid filters to be ignored, got %s", s.Defaults())
	}

	s.MakeDefaultFor(filter.FromText("##.ad"))
	s.MakeDefaultFor(filter.FromText("||ads.example^"))

	if s.IsGeneric() {
		t.Error("expected subscription not to be generic")
	}
	if !s.IsDefaultFor(filter.FromText("example.com##.banner")) {
		t.Error("expected subscription to be default for element hiding filters")
	}
	if s.IsDefaultFor(filter.FromText("@@||example.com^")) {
		t.Error("expected subscription not to be default for exception filters")
	}
	if s.IsDefaultFor(filter.FromText("!comment")) {
		t.Error("expected subscription not to be default for comments")
	}
	if got := s.Defaults().String(); got != "blocking elemhide" {
		t.Errorf("expected %q, got %q", "blocking elemhide", got)
	}
	if len(*events) != 0 {
		t.Errorf("expected default changes not to notify, got %v", topics(*events))
	}
}

func TestFilterTypes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"blocking", "blocking"},
		{"elemhide   whitelist\t blocking", "blocking whitelist elemhide"},
		{"foo blocking bar", "blocking"},
		{" whitelist", "whitelist"},
	}
	for _, tt := range tests {
		if got := subscription.ParseFilterTypes(tt.in).String(); got != tt.want {
			t.Errorf("ParseFilterTypes(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}

	if subscription.FilterTypes(0).Has(0) {
		t.Error("expected empty set not to contain the empty set")
	}
}

func TestUpgradeRequired(t *testing.T) {
	t.Parallel()

	tests := []struct {
		required string
		app      string
		want     bool
		wantErr  bool
	}{
		{required: "", app: "1.0.0", want: false},
		{required: "2.0", app: "1.9.3", want: true},
		{required: "2.0", app: "2.0.0", want: false},
		{required: "v1.2.3", app: "v2.0.0", want: false},
		{required: "not a version", app: "1.0.0", wantErr: true},
		{required: "1.0", app: "development", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(fmt.Sprintf("%s/%s", tt.required, tt.app), func(t *testing.T) {
			t.Parallel()

			reg := newRegistry()
			s := reg.FromURL("https://example.com/list.txt")
			defer s.Release()
			d := s.AsDownloadable()
			d.SetRequiredVersion(tt.required)

			got, err := d.UpgradeRequired(tt.app)
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestProperties(t *testing.T) {
	t.Parallel()

	t.Run("default values are omitted", func(t *testing.T) {
		t.Parallel()

		reg := newRegistry()
		s := reg.FromURL("https://example.com/list.txt")
		defer s.Release()

		if props := s.Properties(); len(props) != 0 {
			t.Errorf("expected no properties, got %v", props)
		}
	})

	t.Run("order follows serialization order", func(t *testing.T) {
		t.Parallel()

		reg := newRegistry()
		s := reg.FromURL("https://example.com/list.txt")
		defer s.Release()
		d := s.AsDownloadable()
		d.SetErrors(3)
		d.SetLastCheck(100)
		s.SetTitle("List")
		s.SetDisabled(true)

		want := []subscription.Property{
			{Key: "title", Value: "List"},
			{Key: "disabled", Value: "true"},
			{Key: "lastCheck", Value: "100"},
			{Key: "errors", Value: "3"},
		}
		if got := s.Properties(); !reflect.DeepEqual(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("set through the regular setters", func(t *testing.T) {
		t.Parallel()

		reg, events := record(t)
		s := reg.FromURL("https://example.com/list.txt")
		defer s.Release()

		for _, p := range []subscription.Property{
			{Key: "title", Value: "List"},
			{Key: "fixedTitle", Value: "true"},
			{Key: "lastDownload", Value: "18446744069414584320"},
			{Key: "requiredVersion", Value: "1.2"},
		} {
			if err := s.SetProperty(p.Key, p.Value); err != nil {
				t.Fatalf("set %s: %v", p.Key, err)
			}
		}

		want := []notifier.Topic{
			notifier.SubscriptionTitle,
			notifier.SubscriptionFixedTitle,
			notifier.SubscriptionLastDownload,
			notifier.SubscriptionRequiredVersion,
		}
		if !reflect.DeepEqual(topics(*events), want) {
			t.Errorf("expected %v, got %v", want, topics(*events))
		}
		if d := s.AsDownloadable(); d.LastDownload() != 18446744069414584320 {
			t.Errorf("expected large timestamp to be kept, got %d", d.LastDownload())
		}
	})

	t.Run("boolean values other than true are false", func(t *testing.T) {
		t.Parallel()

		reg := newRegistry()
		s := reg.FromURL("~fl~")
		defer s.Release()
		s.SetDisabled(true)

		if err := s.SetProperty("disabled", "yes"); err != nil {
			t.Fatal(err)
		}
		if s.Disabled() {
			t.Error("expected disabled to be false")
		}
	})

	t.Run("errors", func(t *testing.T) {
		t.Parallel()

		reg := newRegistry()
		special := reg.FromURL("~fl~")
		defer special.Release()
		downloadable := reg.FromURL("https://example.com/list.txt")
		defer downloadable.Release()

		if err := special.SetProperty("foo", "bar"); !errors.Is(err, subscription.ErrUnknownProperty) {
			t.Errorf("expected ErrUnknownProperty, got %v", err)
		}
		if err := special.SetProperty("lastCheck", "1"); !errors.Is(err, subscription.ErrWrongKind) {
			t.Errorf("expected ErrWrongKind for lastCheck on special, got %v", err)
		}
		if err := downloadable.SetProperty("defaults", "blocking"); !errors.Is(err, subscription.ErrWrongKind) {
			t.Errorf("expected ErrWrongKind for defaults on downloadable, got %v", err)
		}
		if err := downloadable.SetProperty("expires", "soon"); err == nil {
			t.Error("expected error for malformed number")
		}
		if err := downloadable.SetProperty("errors", "-1"); err == nil {
			t.Error("expected error for negative error count")
		}
	})

	t.Run("defaults are written with a leading space", func(t *testing.T) {
		t.Parallel()

		reg := newRegistry()
		s := reg.FromURL("~wl~")
		defer s.Release()
		if err := s.SetProperty("defaults", "whitelist"); err != nil {
			t.Fatal(err)
		}

		want := []subscription.Property{{Key: "defaults", Value: " whitelist"}}
		if got := s.Properties(); !reflect.DeepEqual(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})
}
