package dropdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var roomy = Space{Above: 0, Below: 1000}

func fruit() []Option {
	return Strings("Apple", "Banana", "Cherry")
}

func TestSingleSelectReplacesAndCloses(t *testing.T) {
	s := NewState(Config{Name: "fruit"}, fruit())

	for _, v := range []string{"Apple", "Cherry", "Banana", "Banana"} {
		s.Open(roomy)
		change, ok := s.Select(v)
		require.True(t, ok)
		assert.Equal(t, "fruit", change.Name)
		assert.Equal(t, v, change.Value())
		assert.False(t, s.IsOpen(), "single mode closes after selecting")
		assert.Len(t, s.Selected(), 1)
	}
	assert.Equal(t, []string{"Banana"}, s.Selected())
}

func TestMultiToggleIsIdempotent(t *testing.T) {
	s := NewState(Config{Multiple: true}, Strings("a", "b", "c", "d"), "a", "b", "c")
	s.Open(roomy)

	_, ok := s.Select("d")
	require.True(t, ok)
	_, ok = s.Select("d")
	require.True(t, ok)

	assert.Equal(t, []string{"a", "b", "c"}, s.Selected())
	assert.True(t, s.IsOpen(), "multi mode stays open")

	s.Select("b")
	assert.Equal(t, []string{"a", "c"}, s.Selected(), "order of the rest is preserved")
	s.Select("b")
	assert.Equal(t, []string{"a", "c", "b"}, s.Selected(), "re-added values append")
}

func TestMaxSelectionsCeiling(t *testing.T) {
	s := NewState(Config{Multiple: true, MaxSelections: 2}, Strings("a", "b", "c"))

	s.Select("a")
	s.Select("b")
	change, ok := s.Select("c")
	assert.False(t, ok)
	assert.Empty(t, change.Values)
	assert.Equal(t, []string{"a", "b"}, s.Selected())

	s.Select("a")
	_, ok = s.Select("c")
	assert.True(t, ok, "room frees up after a deselect")
	assert.Equal(t, []string{"b", "c"}, s.Selected())
}

func TestFilterIsCaseInsensitiveSubstring(t *testing.T) {
	s := NewState(Config{}, fruit())
	s.Open(roomy)
	s.SetSearch("an")

	assert.Equal(t, Strings("Banana"), s.Filtered())

	s.SetSearch("AN")
	assert.Equal(t, Strings("Banana"), s.Filtered())

	s.SetSearch("")
	assert.Len(t, s.Filtered(), 3)
}

func TestAsyncSearchSkipsLocalFilter(t *testing.T) {
	s := NewState(Config{AsyncSearch: true}, fruit())
	s.Open(roomy)
	s.SetSearch("an")
	assert.Len(t, s.Filtered(), 3)

	s.SetOptions(Strings("Mango"))
	assert.Equal(t, Strings("Mango"), s.Visible())
}

func TestFilterFallsBackToValue(t *testing.T) {
	s := NewState(Config{}, []Option{{Value: "usd"}, {Value: "eur", Label: "Euro"}})
	s.SetSearch("us")
	assert.Equal(t, []Option{{Value: "usd"}}, s.Filtered())
}

func TestKeyboardCursorIsClamped(t *testing.T) {
	s := NewState(Config{}, fruit())
	s.HandleKey(KeyDown, roomy)
	require.True(t, s.IsOpen(), "ArrowDown opens a closed panel")
	assert.Equal(t, 0, s.Highlight())

	for i := 0; i < 4; i++ {
		s.HandleKey(KeyDown, roomy)
	}
	assert.Equal(t, 2, s.Highlight())

	for i := 0; i < 5; i++ {
		s.HandleKey(KeyUp, roomy)
	}
	assert.Equal(t, 0, s.Highlight())
}

func TestKeyboardCursorFollowsFilteredList(t *testing.T) {
	s := NewState(Config{}, Strings("Anchovy", "Banana", "Mango", "Cherry"))
	s.Open(roomy)
	s.SetSearch("an")
	for i := 0; i < 10; i++ {
		s.HandleKey(KeyDown, roomy)
	}
	assert.Equal(t, 2, s.Highlight())

	change, ok := s.HandleKey(KeyEnter, roomy)
	require.True(t, ok)
	assert.Equal(t, "Mango", change.Value())
}

func TestKeyboardSkipsDisabledOptions(t *testing.T) {
	opts := []Option{{Value: "a", Disabled: true}, {Value: "b"}, {Value: "c", Disabled: true}, {Value: "d"}}
	s := NewState(Config{}, opts)
	s.Open(roomy)
	assert.Equal(t, 1, s.Highlight())

	s.HandleKey(KeyDown, roomy)
	assert.Equal(t, 3, s.Highlight())
	s.HandleKey(KeyDown, roomy)
	assert.Equal(t, 3, s.Highlight())

	_, ok := s.Select("c")
	assert.False(t, ok, "disabled options cannot be picked")
}

func TestOpenKeysAndClosingKeys(t *testing.T) {
	for _, k := range []Key{KeyEnter, KeySpace, KeyDown} {
		s := NewState(Config{}, fruit())
		s.HandleKey(k, roomy)
		assert.True(t, s.IsOpen())
	}

	for _, k := range []Key{KeyEscape, KeyTab} {
		s := NewState(Config{}, fruit())
		s.Open(roomy)
		s.SetSearch("ch")
		_, changed := s.HandleKey(k, roomy)
		assert.False(t, changed)
		assert.False(t, s.IsOpen())
		assert.Empty(t, s.Search(), "closing resets the search")
		assert.Empty(t, s.Selected())
	}

	s := NewState(Config{}, fruit())
	s.HandleKey(KeyUp, roomy)
	assert.False(t, s.IsOpen(), "ArrowUp does not open")
}

func TestEnterOnEmptyListSelectsNothing(t *testing.T) {
	s := NewState(Config{}, fruit())
	s.Open(roomy)
	s.SetSearch("zzz")
	_, ok := s.HandleKey(KeyEnter, roomy)
	assert.False(t, ok)
	assert.True(t, s.IsOpen())
}

func TestClearMultiSelection(t *testing.T) {
	s := NewState(Config{Name: "tags", Multiple: true, Clearable: true}, Strings("a", "b"), "a", "b")
	require.True(t, s.CanClear())

	change, ok := s.Clear()
	require.True(t, ok)
	assert.Equal(t, "tags", change.Name)
	assert.NotNil(t, change.Values)
	assert.Empty(t, change.Values)
	assert.Empty(t, s.Selected())
	assert.False(t, s.IsOpen(), "clear does not open the panel")
	assert.False(t, s.CanClear())
}

func TestClearRequiresClearableEnabledAndSelection(t *testing.T) {
	s := NewState(Config{Clearable: true}, fruit())
	_, ok := s.Clear()
	assert.False(t, ok, "nothing selected")

	s = NewState(Config{}, fruit(), "Apple")
	_, ok = s.Clear()
	assert.False(t, ok, "not clearable")

	s = NewState(Config{Clearable: true, Disabled: true}, fruit(), "Apple")
	_, ok = s.Clear()
	assert.False(t, ok, "disabled")
	assert.Equal(t, []string{"Apple"}, s.Selected())
}

func TestSingleClearYieldsEmptyValue(t *testing.T) {
	s := NewState(Config{Clearable: true}, fruit(), "Apple")
	change, ok := s.Clear()
	require.True(t, ok)
	assert.Equal(t, "", change.Value())
}

func TestGroupsInFirstSeenOrder(t *testing.T) {
	opts := []Option{
		{Value: "reel", Group: "instagram"},
		{Value: "short", Group: "youtube"},
		{Value: "misc"},
		{Value: "story", Group: "instagram"},
	}
	s := NewState(Config{Grouped: true}, opts)

	groups := s.Groups()
	require.Len(t, groups, 3)
	assert.Equal(t, "instagram", groups[0].Name)
	assert.Equal(t, "youtube", groups[1].Name)
	assert.Equal(t, "", groups[2].Name)
	assert.Len(t, groups[0].Options, 2)

	var order []string
	for _, o := range s.Visible() {
		order = append(order, o.Value)
	}
	assert.Equal(t, []string{"reel", "story", "short", "misc"}, order)
}

func TestLoadingHidesOptions(t *testing.T) {
	s := NewState(Config{}, fruit())
	s.Open(roomy)
	s.SetLoading(true)
	assert.Empty(t, s.Visible())

	_, ok := s.HandleKey(KeyEnter, roomy)
	assert.False(t, ok)

	s.SetLoading(false)
	assert.Len(t, s.Visible(), 3)
}

func TestAutomaticPlacement(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		space Space
		want  Placement
	}{
		{"plenty below", Config{}, Space{Above: 600, Below: 400}, PlacementBottom},
		{"tight below more above", Config{}, Space{Above: 600, Below: 200}, PlacementTop},
		{"tight below less above", Config{}, Space{Above: 100, Below: 200}, PlacementBottom},
		{"threshold is exclusive", Config{}, Space{Above: 600, Below: 250}, PlacementBottom},
		{"explicit bottom", Config{Placement: PlacementBottom}, Space{Above: 600, Below: 10}, PlacementBottom},
		{"explicit top", Config{Placement: PlacementTop}, Space{Above: 0, Below: 900}, PlacementTop},
		{"row threshold", Config{PlacementThreshold: 10}, Space{Above: 20, Below: 8}, PlacementTop},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState(tt.cfg, fruit())
			s.Open(tt.space)
			assert.Equal(t, tt.want, s.Placement())
		})
	}
}

func TestPlacementResolvedOncePerOpen(t *testing.T) {
	s := NewState(Config{}, fruit())
	s.Open(Space{Above: 600, Below: 100})
	require.Equal(t, PlacementTop, s.Placement())

	s.Open(Space{Above: 0, Below: 900})
	assert.Equal(t, PlacementTop, s.Placement(), "already open")

	s.Close()
	s.Open(Space{Above: 0, Below: 900})
	assert.Equal(t, PlacementBottom, s.Placement())
}

func TestDisplayValue(t *testing.T) {
	opts := []Option{Labeled("ig", "Instagram"), Labeled("yt", "YouTube")}

	s := NewState(Config{Placeholder: "Pick a platform"}, opts)
	assert.Equal(t, "Pick a platform", s.DisplayValue())

	s.SetValue("yt")
	assert.Equal(t, "YouTube", s.DisplayValue())

	s.SetValue("unknown")
	assert.Equal(t, "unknown", s.DisplayValue(), "unmatched values show the raw value")

	m := NewState(Config{Multiple: true}, opts, "ig")
	assert.Equal(t, "Instagram", m.DisplayValue())
	m.Select("yt")
	assert.Equal(t, "2 selected", m.DisplayValue())

	f := NewState(Config{Multiple: true, FormatValue: func(sel []Option) string {
		labels := make([]string, len(sel))
		for i, o := range sel {
			labels[i] = o.Display()
		}
		return strings.Join(labels, " + ")
	}}, opts, "ig", "yt")
	assert.Equal(t, "Instagram + YouTube", f.DisplayValue())
}

func TestDisabledControlIgnoresInput(t *testing.T) {
	s := NewState(Config{Disabled: true}, fruit())
	s.Toggle(roomy)
	assert.False(t, s.IsOpen())
	s.HandleKey(KeyEnter, roomy)
	assert.False(t, s.IsOpen())
	_, ok := s.Select("Apple")
	assert.False(t, ok)

	s.SetDisabled(false)
	s.Toggle(roomy)
	assert.True(t, s.IsOpen())
	s.SetDisabled(true)
	assert.False(t, s.IsOpen())
}

func TestSetValueResyncs(t *testing.T) {
	s := NewState(Config{}, fruit(), "Apple", "Banana")
	assert.Equal(t, []string{"Apple"}, s.Selected(), "single mode keeps one value")

	m := NewState(Config{Multiple: true}, fruit())
	m.SetValue("Cherry", "", "Cherry", "Apple")
	assert.Equal(t, []string{"Cherry", "Apple"}, m.Selected())
}

func TestSetOptionsClampsCursor(t *testing.T) {
	s := NewState(Config{}, fruit())
	s.Open(roomy)
	s.HandleKey(KeyDown, roomy)
	s.HandleKey(KeyDown, roomy)
	require.Equal(t, 2, s.Highlight())

	s.SetOptions(Strings("only"))
	assert.Equal(t, 0, s.Highlight())
}
