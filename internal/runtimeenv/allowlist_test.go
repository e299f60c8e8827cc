package runtimeenv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// ── NewAllowlist ──────────────────────────────────────────────────────────────

func TestNewAllowlist(t *testing.T) {
	tests := []struct {
		name     string
		keys     []string
		wantKeys []string
		wantErr  error
	}{
		{
			name:     "default keys",
			keys:     DefaultAllowlistKeys,
			wantKeys: []string{"SUPABASE_URL", "SUPABASE_ANON_KEY"},
		},
		{
			name:     "duplicates collapse keeping first position",
			keys:     []string{"B", "A", "B", "C", "A"},
			wantKeys: []string{"B", "A", "C"},
		},
		{
			name:     "lower case and underscores",
			keys:     []string{"_private", "api_url2"},
			wantKeys: []string{"_private", "api_url2"},
		},
		{
			name:    "empty list",
			keys:    nil,
			wantErr: ErrEmptyAllowlist,
		},
		{
			name:    "leading digit",
			keys:    []string{"1KEY"},
			wantErr: ErrInvalidKey,
		},
		{
			name:    "markup in key",
			keys:    []string{"OK", "<script>"},
			wantErr: ErrInvalidKey,
		},
		{
			name:    "empty key",
			keys:    []string{""},
			wantErr: ErrInvalidKey,
		},
		{
			name:    "non ascii key",
			keys:    []string{"CLÉ"},
			wantErr: ErrInvalidKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAllowlist(tt.keys...)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, a.Len())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKeys, a.Keys())
		})
	}
}

func TestAllowlist_KeysReturnsCopy(t *testing.T) {
	a := MustAllowlist("A", "B")
	keys := a.Keys()
	keys[0] = "MUTATED"

	assert.Equal(t, []string{"A", "B"}, a.Keys())
	assert.True(t, a.Contains("A"))
	assert.False(t, a.Contains("MUTATED"))
}

func TestMustAllowlist_PanicsOnInvalidKey(t *testing.T) {
	assert.Panics(t, func() { MustAllowlist("not-an-identifier") })
}

// ── Filter ────────────────────────────────────────────────────────────────────

func TestFilter(t *testing.T) {
	allowlist := MustAllowlist("SUPABASE_URL", "SUPABASE_ANON_KEY")

	tests := []struct {
		name string
		src  Source
		want Payload
	}{
		{
			name: "both keys present",
			src: MapSource{
				"SUPABASE_URL":      "https://proj.supabase.co",
				"SUPABASE_ANON_KEY": "key123",
			},
			want: Payload{
				"SUPABASE_URL":      "https://proj.supabase.co",
				"SUPABASE_ANON_KEY": "key123",
			},
		},
		{
			name: "keys outside the allowlist are dropped",
			src: MapSource{
				"SUPABASE_URL":         "https://x.test",
				"SUPABASE_SERVICE_KEY": "secret",
				"DATABASE_URL":         "postgres://secret",
			},
			want: Payload{"SUPABASE_URL": "https://x.test"},
		},
		{
			name: "empty value is excluded",
			src: MapSource{
				"SUPABASE_URL":      "",
				"SUPABASE_ANON_KEY": "key123",
			},
			want: Payload{"SUPABASE_ANON_KEY": "key123"},
		},
		{
			name: "empty source",
			src:  MapSource{},
			want: Payload{},
		},
		{
			name: "nil map source",
			src:  MapSource(nil),
			want: Payload{},
		},
		{
			name: "nil source",
			src:  nil,
			want: Payload{},
		},
		{
			name: "whitespace value is kept verbatim",
			src:  MapSource{"SUPABASE_URL": " "},
			want: Payload{"SUPABASE_URL": " "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filter(tt.src, allowlist))
		})
	}
}

func TestFilter_ZeroAllowlistExposesNothing(t *testing.T) {
	assert.Empty(t, Filter(MapSource{"SUPABASE_URL": "https://x.test"}, Allowlist{}))
}

func TestFilter_EnvSource(t *testing.T) {
	t.Setenv("RUNTIMEENV_TEST_URL", "https://env.test")
	t.Setenv("RUNTIMEENV_TEST_EMPTY", "")

	got := Filter(EnvSource{}, MustAllowlist("RUNTIMEENV_TEST_URL", "RUNTIMEENV_TEST_EMPTY", "RUNTIMEENV_TEST_UNSET"))

	assert.Equal(t, Payload{"RUNTIMEENV_TEST_URL": "https://env.test"}, got)
}

// ── properties ────────────────────────────────────────────────────────────────

var keyGen = rapid.StringMatching(`[A-Z_][A-Z0-9_]{0,5}`)

func drawSource(t *rapid.T, label string) MapSource {
	return rapid.MapOf(keyGen, rapid.SampledFrom([]string{"", "v", "https://x.test", "<b>"})).Draw(t, label)
}

// A key is exposed iff it is allowlisted and holds a non-empty string.
func TestFilterMembershipProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		keys := rapid.SliceOfNDistinct(keyGen, 1, 6, rapid.ID[string]).Draw(t, "allowlist")
		allowlist := MustAllowlist(keys...)
		src := drawSource(t, "source")

		got := Filter(src, allowlist)

		for key, value := range got {
			if !allowlist.Contains(key) {
				t.Fatalf("key %q is not allowlisted", key)
			}
			if src[key] != value || value == "" {
				t.Fatalf("key %q has value %q, source holds %q", key, value, src[key])
			}
		}
		for _, key := range keys {
			_, exposed := got[key]
			if want := src[key] != ""; exposed != want {
				t.Fatalf("key %q exposed=%v, want %v", key, exposed, want)
			}
		}
	})
}

// Adding allowlisted non-empty entries never removes exposed entries.
func TestFilterMonotonicProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		keys := rapid.SliceOfNDistinct(keyGen, 1, 6, rapid.ID[string]).Draw(t, "allowlist")
		allowlist := MustAllowlist(keys...)
		src := drawSource(t, "source")

		before := Filter(src, allowlist)

		extended := MapSource{}
		for k, v := range src {
			extended[k] = v
		}
		added := rapid.SampledFrom(keys).Draw(t, "added")
		if extended[added] == "" {
			extended[added] = rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "value")
		}

		after := Filter(extended, allowlist)

		for key, value := range before {
			if after[key] != value {
				t.Fatalf("key %q lost after extending source", key)
			}
		}
		if _, ok := after[added]; !ok {
			t.Fatalf("added key %q is missing", added)
		}
	})
}
