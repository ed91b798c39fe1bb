package kupon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOdds(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"1.85", 1.85, true},
		{"2,40", 2.40, true}, // Turkish decimal comma
		{" 1.30 ", 1.30, true},
		{"-", 0, false},
		{"", 0, false},
		{"0.95", 0, false}, // decimal odds below 1 are nonsense
		{"abc", 0, false},
	}

	for _, tc := range cases {
		got, ok := ParseOdds(tc.raw)
		assert.Equal(t, tc.ok, ok, "ParseOdds(%q) ok", tc.raw)
		if tc.ok {
			assert.InDelta(t, tc.want, got, 1e-9, "ParseOdds(%q)", tc.raw)
		}
	}
}

func TestParseScore(t *testing.T) {
	h, a, ok := ParseScore("2-1")
	assert.True(t, ok)
	assert.Equal(t, 2, h)
	assert.Equal(t, 1, a)

	h, a, ok = ParseScore(" 0 : 0 ")
	assert.True(t, ok)
	assert.Equal(t, 0, h)
	assert.Equal(t, 0, a)

	for _, raw := range []string{"", "-", "ERT", "postponed", "2-", "a-b", "-1-2"} {
		_, _, ok := ParseScore(raw)
		assert.False(t, ok, "ParseScore(%q) should fail", raw)
	}
}

func TestFixtureResult(t *testing.T) {
	f := &Fixture{HomeTeam: "Arsenal", AwayTeam: "Chelsea", Score: "2-0"}
	result, ok := f.Result()
	assert.True(t, ok)
	assert.Equal(t, "1", result)

	f.Score = "1-1"
	result, _ = f.Result()
	assert.Equal(t, "X", result)

	f.Score = "0-3"
	result, _ = f.Result()
	assert.Equal(t, "2", result)

	f.Score = ""
	_, ok = f.Result()
	assert.False(t, ok)
}

func TestMatchSignatureNormalization(t *testing.T) {
	a := MatchSignature("Arsenal", "Chelsea", "01.02.2026")
	b := MatchSignature("  ARSENAL ", " chelsea", "01.02.2026")

	assert.Equal(t, a, b, "Signatures must ignore case and padding")
	assert.Equal(t, "arsenal|chelsea|01.02.2026", a)

	other := MatchSignature("Arsenal", "Chelsea", "02.02.2026")
	assert.NotEqual(t, a, other, "A rematch on another date is a different stake")
}

func TestHasResultOdds(t *testing.T) {
	b := &BulletinMatch{MS1: "1.50", MSX: "4.00", MS2: "6.50"}
	assert.True(t, b.HasResultOdds())

	b.MS2 = NoOdds
	assert.False(t, b.HasResultOdds(), "Both result markets must be priced")
}

func TestStandingRates(t *testing.T) {
	s := &Standing{Played: 10, Points: 24, GoalsFor: 20, GoalsAgainst: 8}
	assert.InDelta(t, 2.4, s.PointsPerMatch(), 1e-9)
	assert.InDelta(t, 2.0, s.AttackRate(), 1e-9)
	assert.InDelta(t, 0.8, s.DefenseRate(), 1e-9)

	fresh := &Standing{}
	assert.Zero(t, fresh.PointsPerMatch(), "Zero matches must not divide by zero")
	assert.Zero(t, fresh.AttackRate())
}
